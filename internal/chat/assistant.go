// Package chat is the parent-facing assistant backed by the Gemini
// generateContent REST API.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/neuroweave/internal/monitoring"
	"github.com/ZanzyTHEbar/neuroweave/internal/resilience"
)

// BreakerName is the circuit breaker guarding the Gemini API.
const BreakerName = "gemini"

const systemPrompt = `You are 'NeuroAssistant', a compassionate and highly knowledgeable AI specialized in Autism Spectrum Disorder (ASD).
Your goal is to help parents clear their doubts, provide emotional support, and explain technical terms simply.
Always encourage parents to seek professional medical advice and clarify that this AI tool is for screening and support only, not a formal diagnosis.
Be empathetic, patient, and use evidence-based information.`

const primingReply = "I understand my role as NeuroAssistant. I will provide empathetic, evidence-based support to parents regarding autism concerns, always emphasizing the need for professional consultation."

// Canned replies returned in place of a model answer.
const (
	SafeModeReply = "I'm currently in safe mode. To enable my full AI capabilities, please add your GEMINI_API_KEY (or GOOGLE_API_KEY) to the environment. For now, remember that early intervention is the most powerful tool for your child's growth!"
	GlitchReply   = "I encountered a technical glitch while thinking. Please try asking again, or check your internet connection."
)

const maxResponseBody = 1 << 20

var errEmptyAnswer = errors.New("empty response from model")

// Turn is one prior message of the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config configures an Assistant.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	Breaker *resilience.CircuitBreaker
	Logger  *monitoring.Logger
}

// Assistant answers parent questions. Upstream failures are reported as
// GlitchReply, never as errors.
type Assistant struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	logger     *monitoring.Logger
}

// NewAssistant creates an assistant. Without an API key it runs in safe mode.
func NewAssistant(cfg Config) *Assistant {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Breaker == nil {
		cfg.Breaker = resilience.NewCircuitBreaker(BreakerName, resilience.DefaultCircuitBreakerConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = &monitoring.Logger{Logger: slog.Default()}
	}
	if cfg.APIKey == "" {
		cfg.Logger.Warn("GEMINI_API_KEY and GOOGLE_API_KEY not set, assistant running in safe mode")
	}

	return &Assistant{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    cfg.Breaker,
		logger:     cfg.Logger,
	}
}

// SafeMode reports whether no API key is configured
func (a *Assistant) SafeMode() bool {
	return a.apiKey == ""
}

// Ask answers message in the context of history
func (a *Assistant) Ask(ctx context.Context, message string, history []Turn) string {
	if a.SafeMode() {
		return SafeModeReply
	}

	start := time.Now()
	var answer string
	err := a.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		answer, err = a.generate(ctx, buildContents(message, history))
		return err
	})
	a.logger.ModelCallLogger(BreakerName, a.model, 0, time.Since(start), err == nil)

	if err != nil {
		a.logger.Error("Gemini API error", "error", err)
		return GlitchReply
	}
	return answer
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// buildContents primes the conversation with the system prompt, then replays
// history. Any role other than "user" is sent as the model.
func buildContents(message string, history []Turn) []content {
	contents := make([]content, 0, len(history)+3)
	contents = append(contents,
		content{Role: "user", Parts: []part{{Text: systemPrompt}}},
		content{Role: "model", Parts: []part{{Text: primingReply}}},
	)
	for _, turn := range history {
		role := "model"
		if turn.Role == "user" {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: turn.Content}}})
	}
	return append(contents, content{Role: "user", Parts: []part{{Text: message}}})
}

func (a *Assistant) generate(ctx context.Context, contents []content) (string, error) {
	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.baseURL, a.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("generate content: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var decoded generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	if len(decoded.Candidates) > 0 {
		for _, p := range decoded.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", errEmptyAnswer
	}
	return sb.String(), nil
}
