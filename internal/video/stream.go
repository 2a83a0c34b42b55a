// Package video decodes uploaded clips into RGB24 frames and manages the
// temporary files they are stored in.
package video

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

// RawFrameStream reads fixed-size RGB24 frames from a byte stream.
type RawFrameStream struct {
	r      io.Reader
	width  int
	height int
	index  int
}

var _ screening.FrameStream = (*RawFrameStream)(nil)

// NewRawFrameStream reads width x height RGB24 frames from r.
func NewRawFrameStream(r io.Reader, width, height int) (*RawFrameStream, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	return &RawFrameStream{r: r, width: width, height: height}, nil
}

// Next returns the next frame, or io.EOF once the input is exhausted. A
// trailing partial frame is discarded.
func (s *RawFrameStream) Next() (screening.Frame, error) {
	pix := make([]byte, s.width*s.height*3)
	if _, err := io.ReadFull(s.r, pix); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return screening.Frame{}, io.EOF
		}
		return screening.Frame{}, err
	}
	s.index++
	return screening.Frame{Index: s.index, Width: s.width, Height: s.height, Pix: pix}, nil
}

// Close closes the underlying reader if it is an io.Closer.
func (s *RawFrameStream) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Frames reports how many whole frames have been read.
func (s *RawFrameStream) Frames() int {
	return s.index
}
