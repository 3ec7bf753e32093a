// Package iox provides small io.Writer helpers for the driver's REPL output.
package iox

import (
	"io"

	"github.com/pkg/errors"
)

// ErrWriter wraps an io.Writer and tracks the first error it produces. Once an
// error has occurred, Write keeps returning it without touching the
// underlying writer again. The REPL loop uses this to print results and
// prompts without checking an error after every single Fprintf.
type ErrWriter struct {
	w   io.Writer
	Err error
}

// NewErrWriter returns a new ErrWriter wrapping w.
func NewErrWriter(w io.Writer) *ErrWriter {
	return &ErrWriter{w: w}
}

func (w *ErrWriter) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}
