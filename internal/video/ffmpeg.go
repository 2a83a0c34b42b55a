package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

// ErrUnreadable is returned when ffmpeg cannot decode the input. It wraps
// screening.ErrUndecodable.
var ErrUnreadable = fmt.Errorf("unreadable video: %w", screening.ErrUndecodable)

// FFmpegDecoder decodes clips by piping ffmpeg's rawvideo output. Every
// frame is scaled to Width x Height so the image model sees a fixed shape.
type FFmpegDecoder struct {
	Path   string
	Width  int
	Height int
}

var _ screening.VideoDecoder = (*FFmpegDecoder)(nil)

// NewFFmpegDecoder creates a decoder producing size x size frames.
func NewFFmpegDecoder(path string, size int) *FFmpegDecoder {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegDecoder{Path: path, Width: size, Height: size}
}

func (d *FFmpegDecoder) args(input string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error", "-nostdin",
		"-i", input,
		"-an",
		"-vf", "scale=" + strconv.Itoa(d.Width) + ":" + strconv.Itoa(d.Height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"pipe:1",
	}
}

// Open starts ffmpeg on the file at path. Cancelling ctx kills the process.
func (d *FFmpegDecoder) Open(ctx context.Context, path string) (screening.FrameStream, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	cmd := exec.CommandContext(ctx, d.Path, d.args(path)...)
	stderr := &limitedBuffer{max: 4096}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	raw, err := NewRawFrameStream(stdout, d.Width, d.Height)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	slog.Debug("ffmpeg started", "pid", cmd.Process.Pid, "input", path)
	return &ffmpegStream{ctx: ctx, raw: raw, cmd: cmd, stderr: stderr}, nil
}

type ffmpegStream struct {
	ctx    context.Context
	raw    *RawFrameStream
	cmd    *exec.Cmd
	stderr *limitedBuffer

	waitOnce sync.Once
	waitErr  error
}

func (s *ffmpegStream) Next() (screening.Frame, error) {
	frame, err := s.raw.Next()
	if errors.Is(err, io.EOF) {
		if werr := s.wait(); werr != nil {
			return screening.Frame{}, werr
		}
	}
	return frame, err
}

// Close stops ffmpeg if it is still running and reaps it.
func (s *ffmpegStream) Close() error {
	s.waitOnce.Do(func() {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	})
	return nil
}

func (s *ffmpegStream) wait() error {
	s.waitOnce.Do(func() {
		if err := s.cmd.Wait(); err != nil {
			s.waitErr = s.exitError(err)
		}
	})
	return s.waitErr
}

func (s *ffmpegStream) exitError(err error) error {
	if ctxErr := s.ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	msg := strings.TrimSpace(s.stderr.String())
	if msg == "" {
		msg = exitErr.Error()
	}
	// decode failures on a finished stream mean the input was not a video
	if s.raw.Frames() == 0 {
		return fmt.Errorf("%w: %s", ErrUnreadable, msg)
	}
	return fmt.Errorf("ffmpeg: %s", msg)
}

// limitedBuffer keeps the first max bytes written to it.
type limitedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
