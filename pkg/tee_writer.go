package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// TeeWriter copies every write to all of its sinks. A failing sink does not stop the others.
type TeeWriter struct {
	sinks []io.Writer
}

func NewTeeWriter(sinks ...io.Writer) *TeeWriter {
	t := &TeeWriter{}
	for _, s := range sinks {
		if s != nil {
			t.sinks = append(t.sinks, s)
		}
	}
	return t
}

func (t *TeeWriter) Sinks() int {
	return len(t.sinks)
}

// Write reports len(p) as soon as one sink took all of p. The errors of the other sinks are combined.
func (t *TeeWriter) Write(p []byte) (int, error) {
	if len(t.sinks) == 0 {
		return len(p), nil
	}

	var err error
	delivered := false
	for i, s := range t.sinks {
		n, werr := s.Write(p)
		if werr == nil && n < len(p) {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			err = multierr.Append(err, fmt.Errorf("sink %d: %w", i, werr))
			continue
		}
		delivered = true
	}

	if !delivered {
		return 0, err
	}
	return len(p), err
}
