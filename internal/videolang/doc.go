// Package videolang indexes the language tracks attached to a video.
//
// An Index is built once from the snapshot the widget RPC returns and is
// read-only afterwards. It drops unrecognized empty tracks, links every
// retained track back to the retained collection so translations can resolve
// the track they were made from, and serves lookups by language code, by
// language pair, and by primary key. The two lookup maps are built lazily on
// first use and are safe for concurrent readers.
package videolang
