// Package sliceedit provides buffered editing of byte slices on top of
// rsc.io/edit. Edits are queued against the original data and applied in
// one pass, so replacing every occurrence of a substring costs a single
// allocation regardless of how many hits there are.
package sliceedit

import (
	"bytes"

	"rsc.io/edit"
)

// A Buffer queues edits against an initial byte slice.
type Buffer struct {
	ed   edit.Buffer
	data []byte
}

// NewBuffer returns a buffer that accumulates changes to data. The buffer
// keeps a reference to data for locating edit positions, so the caller
// must not modify it until the buffer is no longer used.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{
		ed:   *edit.NewBuffer(data),
		data: data,
	}
}

// indexAll returns the offsets of all non-overlapping occurrences of sub.
func indexAll(data []byte, sub string) []int {
	var hits []int
	if len(sub) == 0 {
		return hits
	}
	for off := 0; ; {
		i := bytes.Index(data[off:], []byte(sub))
		if i < 0 {
			return hits
		}
		hits = append(hits, off+i)
		off += i + len(sub)
	}
}

// ReplaceAllString queues the replacement of every occurrence of old in
// the original data with new.
func (b *Buffer) ReplaceAllString(old, new string) {
	for _, hit := range indexAll(b.data, old) {
		b.ed.Replace(hit, hit+len(old), new)
	}
}

// DeleteAllString queues the deletion of every occurrence of s.
func (b *Buffer) DeleteAllString(s string) {
	for _, hit := range indexAll(b.data, s) {
		b.ed.Delete(hit, hit+len(s))
	}
}

// Bytes returns a new byte slice with all queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns the original data with all queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
