package videolang

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingField reports a descriptor without a required field.
var ErrMissingField = errors.New("missing required field")

// ErrInvalidField reports a descriptor field holding an impossible value.
var ErrInvalidField = errors.New("invalid field value")

// TrackID is the opaque primary key of a language track. The RPC sends
// numeric keys; string keys are accepted as-is.
type TrackID string

// UnmarshalJSON accepts a JSON string or number.
func (id *TrackID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TrackID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("track id: %w", err)
	}
	*id = numericID(n)
	return nil
}

// numericID spells integral numbers the same way however the RPC wrote them,
// so 1, 1.0 and 1e0 name one track.
func numericID(n json.Number) TrackID {
	if i, err := n.Int64(); err == nil {
		return TrackID(strconv.FormatInt(i, 10))
	}
	if f, err := n.Float64(); err == nil {
		return floatID(f, n.String())
	}
	return TrackID(n.String())
}

func floatID(f float64, raw string) TrackID {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return TrackID(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return TrackID(raw)
}

// UnmarshalYAML accepts any scalar.
func (id *TrackID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("track id: expected scalar, got %s", value.ShortTag())
	}
	switch value.ShortTag() {
	case "!!null":
		*id = ""
	case "!!int":
		var i int64
		if err := value.Decode(&i); err != nil {
			*id = TrackID(value.Value)
			return nil
		}
		*id = TrackID(strconv.FormatInt(i, 10))
	case "!!float":
		var f float64
		if err := value.Decode(&f); err != nil {
			*id = TrackID(value.Value)
			return nil
		}
		*id = floatID(f, value.Value)
	default:
		*id = TrackID(value.Value)
	}
	return nil
}

// String returns the raw identifier.
func (id TrackID) String() string { return string(id) }

// Descriptor is one raw language track as delivered by the widget RPC.
type Descriptor struct {
	Language         string  `json:"language" yaml:"language"`
	SubtitleCount    int     `json:"subtitle_count" yaml:"subtitle_count"`
	Dependent        bool    `json:"dependent" yaml:"dependent"`
	PK               TrackID `json:"pk" yaml:"pk"`
	StandardPK       TrackID `json:"standard_pk,omitempty" yaml:"standard_pk,omitempty"`
	StandardLanguage string  `json:"standard_language,omitempty" yaml:"standard_language,omitempty"`
}

// DescriptorError describes why a descriptor could not become a track.
type DescriptorError struct {
	Index int
	Field string
	Err   error
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("language descriptor %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *DescriptorError) Unwrap() error { return e.Err }

// ErrorKind classifies descriptor failures as bad input.
func (e *DescriptorError) ErrorKind() string { return "validation" }

func (d Descriptor) validate(index int) error {
	if strings.TrimSpace(d.Language) == "" {
		return &DescriptorError{Index: index, Field: "language", Err: ErrMissingField}
	}
	if strings.TrimSpace(string(d.PK)) == "" {
		return &DescriptorError{Index: index, Field: "pk", Err: ErrMissingField}
	}
	if d.SubtitleCount < 0 {
		return &DescriptorError{
			Index: index,
			Field: "subtitle_count",
			Err:   fmt.Errorf("%w: %d", ErrInvalidField, d.SubtitleCount),
		}
	}
	return nil
}
