package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"vidlang/internal/videolang"
)

// ErrEmptySnapshot reports a snapshot document with no content.
var ErrEmptySnapshot = errors.New("empty snapshot")

// Snapshot is the raw track list for one video.
type Snapshot struct {
	VideoID   string                 `json:"video_id,omitempty" yaml:"video_id,omitempty"`
	Languages []videolang.Descriptor `json:"languages" yaml:"languages"`
}

// Source yields a snapshot.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// Decode parses a JSON snapshot. Both a bare descriptor array and an object
// with video_id and languages are accepted.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptySnapshot
	}

	if data[0] == '[' {
		var langs []videolang.Descriptor
		if err := json.Unmarshal(data, &langs); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return &Snapshot{Languages: langs}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// DecodeYAML parses a YAML snapshot with the same two shapes as Decode.
func DecodeYAML(r io.Reader) (*Snapshot, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySnapshot
		}
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var langs []videolang.Descriptor
		if err := root.Decode(&langs); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return &Snapshot{Languages: langs}, nil
	case yaml.MappingNode:
		var snap Snapshot
		if err := root.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		return &snap, nil
	default:
		return nil, fmt.Errorf("decode snapshot: unexpected yaml %s", root.ShortTag())
	}
}

// LoadFile reads a snapshot file, choosing the decoder by extension. Files
// ending in .yaml or .yml are YAML; everything else is JSON.
func LoadFile(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()

	var snap *Snapshot
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		snap, err = DecodeYAML(file)
	default:
		snap, err = Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if snap.VideoID == "" {
		snap.VideoID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return snap, nil
}

// FileSource loads a snapshot from a JSON or YAML file.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}
