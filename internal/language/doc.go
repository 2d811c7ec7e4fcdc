// Package language provides language code normalization, display names, and
// the recognized-language registry used to filter video language tracks.
//
// The static ISO 639 table is the source of truth for "recognized" codes.
// Regional and script variants (pt-br, zh-Hant) are recognized through their
// base language. Codes outside the table still get a display name from the
// CLDR data shipped with golang.org/x/text.
package language
