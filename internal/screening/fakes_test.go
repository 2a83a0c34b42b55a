package screening

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// sliceStream replays a fixed number of frames.
type sliceStream struct {
	n      int
	next   int
	closed bool
	err    error // returned instead of io.EOF once exhausted, if set
}

func newSliceStream(n int) *sliceStream { return &sliceStream{n: n} }

func (s *sliceStream) Next() (Frame, error) {
	if s.next >= s.n {
		if s.err != nil {
			return Frame{}, s.err
		}
		return Frame{}, io.EOF
	}
	s.next++
	return Frame{Index: s.next, Width: 1, Height: 1, Pix: []byte{byte(s.next), 0, 0}}, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

// indexClassifier returns probs[frame.Index] or a default.
type indexClassifier struct {
	probs    map[int]float64
	fallback float64
	failOn   int
	calls    atomic.Int64

	mu   sync.Mutex
	seen []int
}

func (c *indexClassifier) PredictFrame(_ context.Context, f Frame) (float64, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.seen = append(c.seen, f.Index)
	c.mu.Unlock()
	if c.failOn != 0 && f.Index == c.failOn {
		return 0, errors.New("model unavailable")
	}
	if p, ok := c.probs[f.Index]; ok {
		return p, nil
	}
	return c.fallback, nil
}

type fixedTabular struct {
	risk TabularRisk
	err  error
}

func (f fixedTabular) PredictRisk(context.Context, Questionnaire) (TabularRisk, error) {
	return f.risk, f.err
}

type fixedExplainer struct {
	values []float64
	err    error
}

func (f fixedExplainer) Explain(context.Context, Questionnaire) ([]float64, error) {
	return f.values, f.err
}

// fakeDecoder hands out a sliceStream per Open and records them.
type fakeDecoder struct {
	frames    int
	openErr   error
	streamErr error
	streams   []*sliceStream
}

func (d *fakeDecoder) Open(context.Context, string) (FrameStream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	s := newSliceStream(d.frames)
	s.err = d.streamErr
	d.streams = append(d.streams, s)
	return s, nil
}

type memoryStore struct {
	mu       sync.Mutex
	sessions []ScreeningSession
	err      error
}

func (m *memoryStore) Append(_ context.Context, s *ScreeningSession) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := *s
	rec.ID = int64(len(m.sessions) + 1)
	m.sessions = append(m.sessions, rec)
	return rec.ID, nil
}

func (m *memoryStore) ListAll(context.Context) ([]ScreeningSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ScreeningSession(nil), m.sessions...), nil
}
