package mlclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/monitoring"
	"github.com/ZanzyTHEbar/neuroweave/internal/resilience"
	"github.com/ZanzyTHEbar/neuroweave/internal/screening"
)

// ServiceName is the name the model server is tracked under in the
// degradation manager.
const ServiceName = "model-server"

// Breaker names, one per hosted model.
const (
	TabularModel = "tabular-model"
	ImageModel   = "image-model"
)

// Recorder receives per-call outcomes. *monitoring.Metrics satisfies it.
type Recorder interface {
	RecordModelCall(model string, success bool)
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration

	Breakers *resilience.CircuitBreakerRegistry
	Health   *resilience.DegradationManager
	Metrics  Recorder
	Logger   *monitoring.Logger
}

// Client implements the screening model collaborators over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tabular    *resilience.CircuitBreaker
	image      *resilience.CircuitBreaker
	health     *resilience.DegradationManager
	metrics    Recorder
	logger     *monitoring.Logger
}

var (
	_ screening.TabularModel    = (*Client)(nil)
	_ screening.Explainer       = (*Client)(nil)
	_ screening.ImageClassifier = (*Client)(nil)
)

// NewClient creates a model server client. Missing optional collaborators
// are replaced with private defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Breakers == nil {
		cfg.Breakers = resilience.NewCircuitBreakerRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = &monitoring.Logger{Logger: slog.Default()}
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tabular:    cfg.Breakers.GetOrCreate(TabularModel, resilience.DefaultCircuitBreakerConfig()),
		image:      cfg.Breakers.GetOrCreate(ImageModel, resilience.DefaultCircuitBreakerConfig()),
		health:     cfg.Health,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

type featuresRequest struct {
	Features []float64 `json:"features"`
}

type tabularResponse struct {
	Probability float64 `json:"probability"`
	Confidence  float64 `json:"confidence"`
}

type explainResponse struct {
	Contributions []float64 `json:"contributions"`
}

type imageRequest struct {
	Image string `json:"image"` // base64 PNG
}

type imageResponse struct {
	Probability float64 `json:"probability"`
}

// PredictRisk scores a questionnaire with the tabular classifier.
func (c *Client) PredictRisk(ctx context.Context, q screening.Questionnaire) (screening.TabularRisk, error) {
	var resp tabularResponse
	if err := c.call(ctx, c.tabular, "/tabular/predict", featuresRequest{Features: q.Features()}, &resp); err != nil {
		return screening.TabularRisk{}, err
	}
	return screening.TabularRisk{Probability: resp.Probability, Confidence: resp.Confidence}, nil
}

// Explain returns one contribution per questionnaire feature.
func (c *Client) Explain(ctx context.Context, q screening.Questionnaire) ([]float64, error) {
	var resp explainResponse
	if err := c.call(ctx, c.tabular, "/tabular/explain", featuresRequest{Features: q.Features()}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Contributions) != screening.FeatureCount {
		return nil, fmt.Errorf("explainer returned %d contributions, want %d", len(resp.Contributions), screening.FeatureCount)
	}
	return resp.Contributions, nil
}

// PredictFrame returns the probability that a frame shows risk indicators.
func (c *Client) PredictFrame(ctx context.Context, frame screening.Frame) (float64, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame.Image()); err != nil {
		return 0, fmt.Errorf("encode frame %d: %w", frame.Index, err)
	}

	req := imageRequest{Image: base64.StdEncoding.EncodeToString(buf.Bytes())}
	var resp imageResponse
	if err := c.call(ctx, c.image, "/image/predict", req, &resp); err != nil {
		return 0, err
	}
	return resp.Probability, nil
}

// Health probes the model server. It satisfies resilience.HealthCheckFunc
// through a method value.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Status(ctx)
	return err
}

// Status returns reachability, latency and model version.
func (c *Client) Status(ctx context.Context) (HealthStatus, error) {
	return doHealth(ctx, c.httpClient, c.baseURL)
}

func (c *Client) call(ctx context.Context, breaker *resilience.CircuitBreaker, path string, req, resp any) error {
	start := time.Now()
	statusCode := 0

	err := breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		statusCode, err = doJSON(ctx, c.httpClient, c.baseURL, path, req, resp)
		return err
	})

	success := err == nil
	c.logger.ModelCallLogger(breaker.Name(), path, statusCode, time.Since(start), success)
	if c.metrics != nil {
		c.metrics.RecordModelCall(breaker.Name(), success)
	}
	if c.health != nil && ctx.Err() == nil {
		c.health.Record(ServiceName, err)
	}
	return err
}
