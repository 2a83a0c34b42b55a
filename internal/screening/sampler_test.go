package screening

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s FrameStream) []int {
	t.Helper()
	var got []int
	for {
		f, err := s.Next()
		if errors.Is(err, io.EOF) {
			return got
		}
		require.NoError(t, err)
		got = append(got, f.Index)
	}
}

func TestStrideSampler(t *testing.T) {
	tests := []struct {
		name     string
		frames   int
		stride   int
		expected []int
	}{
		{name: "every tenth frame", frames: 35, stride: StandardStride, expected: []int{10, 20, 30}},
		{name: "fast stride", frames: 45, stride: FastStride, expected: []int{15, 30, 45}},
		{name: "shorter than stride yields nothing", frames: 9, stride: StandardStride, expected: nil},
		{name: "empty stream", frames: 0, stride: StandardStride, expected: nil},
		{name: "exactly one stride", frames: 10, stride: StandardStride, expected: []int{10}},
		{name: "stride one keeps everything", frames: 3, stride: 1, expected: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := NewStrideSampler(newSliceStream(tt.frames), tt.stride)
			require.NoError(t, err)

			got := drain(t, sampler)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, got, tt.frames/tt.stride)
			assert.Equal(t, tt.frames, sampler.Seen())
		})
	}
}

func TestStrideSamplerRejectsInvalidStride(t *testing.T) {
	for _, stride := range []int{0, -1} {
		_, err := NewStrideSampler(newSliceStream(5), stride)
		assert.Error(t, err)
	}
}

func TestStrideSamplerPropagatesErrorsAndClose(t *testing.T) {
	src := newSliceStream(4)
	src.err = errors.New("decoder crashed")

	sampler, err := NewStrideSampler(src, 10)
	require.NoError(t, err)

	_, err = sampler.Next()
	assert.EqualError(t, err, "decoder crashed")

	require.NoError(t, sampler.Close())
	assert.True(t, src.closed)
}

func TestFrameImage(t *testing.T) {
	f := Frame{Width: 2, Height: 1, Pix: []byte{10, 20, 30, 40, 50, 60}}
	img := f.Image()

	assert.Equal(t, []byte{10, 20, 30, 0xff, 40, 50, 60, 0xff}, img.Pix)
}
