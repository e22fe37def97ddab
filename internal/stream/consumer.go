// Package stream folds a streamed plain-text reply into a transcript entry as
// the bytes arrive.
package stream

import (
	"errors"
	"io"

	"github.com/dharsanguruparan/docchat/internal/apperr"
)

// readBufferSize matches one read from the response body.
const readBufferSize = 32 * 1024

// Target is the message being filled. Consume calls Begin before the first
// Append, then exactly one of Complete or Fail.
type Target interface {
	Begin()
	Append(text string)
	Complete()
	Fail(err error)
}

// Consume reads src until EOF or error, appending decoded text to target in
// arrival order. A read error after the request succeeded is a stream
// failure: target keeps the text already appended and is marked failed. The
// same error is returned.
func Consume(src io.Reader, target Target) error {
	dec := NewDecoder()
	buf := make([]byte, readBufferSize)
	started := false
	emit := func(text string) {
		if !started {
			started = true
			target.Begin()
		}
		if text != "" {
			target.Append(text)
		}
	}
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			emit(dec.Decode(buf[:n]))
		}
		if readErr == nil {
			continue
		}
		if errors.Is(readErr, io.EOF) {
			if tail := dec.Flush(); tail != "" {
				emit(tail)
			}
			target.Complete()
			return nil
		}
		err := apperr.Stream(readErr)
		target.Fail(err)
		return err
	}
}
