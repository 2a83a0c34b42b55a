package screening

import (
	"fmt"
	"image"
)

// Sampling strides used by the screening modes.
const (
	StandardStride = 10 // full analysis
	FastStride     = 15 // latency-sensitive gamified flow
)

// Frame is one decoded RGB24 video frame. Pix is owned by the frame and is
// never reused by the producer.
type Frame struct {
	Index  int // 1-based position in the decoded stream
	Width  int
	Height int
	Pix    []byte
}

// Image converts the frame to an image.RGBA.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Pix) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FrameStream yields frames until it returns io.EOF.
type FrameStream interface {
	Next() (Frame, error)
	Close() error
}

// StrideSampler lazily yields every k-th frame of the underlying stream,
// at positions k, 2k, 3k, ... counted from 1.
type StrideSampler struct {
	src    FrameStream
	stride int
	seen   int
}

// NewStrideSampler wraps src. Stride must be at least 1.
func NewStrideSampler(src FrameStream, stride int) (*StrideSampler, error) {
	if stride < 1 {
		return nil, fmt.Errorf("invalid sampling stride %d", stride)
	}
	return &StrideSampler{src: src, stride: stride}, nil
}

// Next returns the next sampled frame. Streams shorter than the stride yield
// io.EOF on the first call.
func (s *StrideSampler) Next() (Frame, error) {
	for {
		frame, err := s.src.Next()
		if err != nil {
			return Frame{}, err
		}
		s.seen++
		if s.seen%s.stride == 0 {
			return frame, nil
		}
	}
}

// Close closes the underlying stream.
func (s *StrideSampler) Close() error {
	return s.src.Close()
}

// Seen reports how many decoded frames have been consumed so far.
func (s *StrideSampler) Seen() int {
	return s.seen
}
