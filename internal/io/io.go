package io

import (
	"bytes"
	"io"
	"strings"
)

type ReadSeekCloser = io.ReadSeekCloser

func ReadAll(r io.Reader) ([]byte, error) {
	switch b := r.(type) {
	case *BytesNopCloser:
		_, err := b.Seek(0, io.SeekEnd)
		return b.Bytes(), err
	default:
		return io.ReadAll(r)
	}
}

// SinkAll drains r so the underlying connection can be reused.
func SinkAll(r io.Reader) (err error) {
	switch b := r.(type) {
	case *BytesNopCloser:
		_, err = b.Seek(0, io.SeekEnd)
	case *bytes.Buffer:
		b.Truncate(0)
	case *bytes.Reader:
		_, err = b.Seek(0, io.SeekEnd)
	case *strings.Reader:
		_, err = b.Seek(0, io.SeekEnd)
	default:
		_, err = io.Copy(io.Discard, r)
	}
	return
}

type BytesNopCloser struct {
	r *bytes.Reader
	b []byte
}

func NewBytesNopCloser(b []byte) *BytesNopCloser {
	return &BytesNopCloser{r: bytes.NewReader(b), b: b}
}

func (nc *BytesNopCloser) Read(p []byte) (int, error) {
	return nc.r.Read(p)
}

func (nc *BytesNopCloser) Seek(offset int64, whence int) (int64, error) {
	return nc.r.Seek(offset, whence)
}

func (nc *BytesNopCloser) Size() int64 {
	return nc.r.Size()
}

func (nc *BytesNopCloser) Close() error {
	return nil
}

func (nc *BytesNopCloser) Bytes() []byte {
	return nc.b
}
