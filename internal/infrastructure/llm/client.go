// Package llm wraps the Anthropic SDK behind a small interface the extraction
// pipeline depends on.  Two operations are exposed: a text completion that
// must return JSON, and a vision variant that attaches page images.  Retry
// policy is a fixed bound with exponential backoff; there is deliberately no
// adaptive policy.
package llm

import (
	"context"
	"encoding/base64"
	"net"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

// Operation labels for LLM metrics.
const (
	opText   = "text"
	opVision = "vision"
)

// Client is the language-model contract used by the evidence gatherer and the
// structured result builder.
type Client interface {
	// GenerateJSON sends a text prompt and returns the model's raw response
	// text, which the caller parses as JSON.
	GenerateJSON(ctx context.Context, system, prompt string) (string, error)

	// GenerateVisionJSON sends a prompt together with JPEG page images for
	// scanned documents where no machine text is available.
	GenerateVisionJSON(ctx context.Context, system, prompt string, images [][]byte) (string, error)
}

// Config carries model and retry parameters.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryBase   time.Duration `mapstructure:"retry_base"`
	CallTimeout time.Duration `mapstructure:"call_timeout"`
}

func (c *Config) applyDefaults() {
	if c.Model == "" {
		c.Model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 8192
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBase == 0 {
		c.RetryBase = time.Second
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = 2 * time.Minute
	}
}

// messager abstracts the SDK's message endpoint for testing.
type messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type anthropicClient struct {
	messages messager
	cfg      Config
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// NewClient constructs the Anthropic-backed Client.  metrics may be nil.
func NewClient(cfg Config, metrics *prometheus.AppMetrics, logger logging.Logger) (Client, error) {
	cfg.applyDefaults()
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New(errors.ErrCodeExternalService, "anthropic api key not configured")
	}
	c := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return &anthropicClient{messages: &c.Messages, cfg: cfg, metrics: metrics, logger: logger.Named("llm")}, nil
}

// newWithMessager is the test seam.
func newWithMessager(m messager, cfg Config, metrics *prometheus.AppMetrics, logger logging.Logger) *anthropicClient {
	cfg.applyDefaults()
	return &anthropicClient{messages: m, cfg: cfg, metrics: metrics, logger: logger}
}

func (c *anthropicClient) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	return c.call(ctx, opText, system, []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(prompt),
	})
}

func (c *anthropicClient) GenerateVisionJSON(ctx context.Context, system, prompt string, images [][]byte) (string, error) {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(images)+1)
	for _, img := range images {
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/jpeg", base64.StdEncoding.EncodeToString(img)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(prompt))
	return c.call(ctx, opVision, system, blocks)
}

func (c *anthropicClient) call(ctx context.Context, operation, system string, blocks []anthropic.ContentBlockParamUnion) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
		start := time.Now()
		resp, err := c.messages.New(callCtx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.cfg.Model),
			MaxTokens:   int64(c.cfg.MaxTokens),
			System:      []anthropic.TextBlockParam{{Text: system}},
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
			Temperature: anthropic.Float(0),
		})
		elapsed := time.Since(start)
		cancel()
		if err == nil {
			var sb strings.Builder
			for _, b := range resp.Content {
				if b.Type == "text" {
					sb.WriteString(b.Text)
				}
			}
			text := strings.TrimSpace(sb.String())
			if text == "" {
				c.recordCall(operation, false, elapsed, resp)
				lastErr = errors.New(errors.ErrCodeLLMResponseMalformed, "model returned empty response")
			} else {
				c.recordCall(operation, true, elapsed, resp)
				return text, nil
			}
		} else {
			c.recordCall(operation, false, elapsed, nil)
			lastErr = err
			if !isRetryable(err) {
				break
			}
		}

		if attempt < c.cfg.MaxRetries {
			delay := c.cfg.RetryBase << (attempt - 1)
			c.logger.Warn("llm call failed, retrying",
				logging.Int("attempt", attempt),
				logging.Duration("backoff", delay),
				logging.Err(lastErr),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", errors.Wrap(ctx.Err(), errors.ErrCodeLLMCallFailed, "llm call cancelled")
			}
		}
	}
	return "", errors.Wrap(lastErr, errors.ErrCodeLLMCallFailed, "llm call failed after retries")
}

// recordCall observes one attempt.  resp is nil on transport errors, so token
// counters only move when the API answered.
func (c *anthropicClient) recordCall(operation string, success bool, elapsed time.Duration, resp *anthropic.Message) {
	if c.metrics == nil {
		return
	}
	var inputTokens, outputTokens int
	if resp != nil {
		inputTokens = int(resp.Usage.InputTokens)
		outputTokens = int(resp.Usage.OutputTokens)
	}
	c.metrics.RecordLLMCall(operation, success, elapsed, inputTokens, outputTokens)
}

// isRetryable classifies transport errors worth another attempt: timeouts,
// rate limits, and 5xx-class server errors.  Auth and bad-request failures
// are terminal.
func isRetryable(err error) bool {
	var netErr net.Error
	if ok := asNetError(err, &netErr); ok && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"429", "rate limit", "overloaded", "529", "500", "502", "503", "timeout", "connection reset"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func asNetError(err error, target *net.Error) bool {
	for err != nil {
		if ne, ok := err.(net.Error); ok {
			*target = ne
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// StripCodeFences removes a Markdown code fence wrapper from a model response.
// Models asked for strict JSON still occasionally wrap it in ```json fences.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
