// Package vlm wraps a vision-language model behind a small client with
// bounded retry. The model is an unreliable external collaborator: every
// operation retries transient failures a fixed number of times with a fixed
// delay, and callers are expected to degrade gracefully when the client
// still fails.
package vlm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/raphaelgruber/cligue-go/internal/config"
	"github.com/raphaelgruber/cligue-go/internal/metrics"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generation options per operation, tuned like the original deployment:
// frame analysis runs cool for consistency, chat runs warmer.
const (
	analyzeTemperature = 0.3
	analyzeTopP        = 0.8
	analyzeMaxTokens   = 512

	chatTemperature = 0.7
	chatTopP        = 0.9
	chatMaxTokens   = 1024
)

// analyzePreamble wraps every frame-analysis prompt with guidance that
// keeps the model's answers specific and parseable.
const analyzePreamble = `Please provide a detailed and accurate analysis of this image.

%s

Guidelines:
- Be specific and descriptive
- Focus on what is actually visible in the image
- Use clear, concise language
- If uncertain about something, acknowledge the uncertainty
- Provide structured responses when possible

Please analyze the image and respond:`

// Client wraps a langchaingo model for frame analysis and chat.
type Client struct {
	llm       llms.Model
	modelName string
	attempts  int
	delay     time.Duration
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// New creates a model client based on configuration.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Client, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		model, err = bedrock.New(
			bedrock.WithClient(bedrockruntime.NewFromConfig(awsCfg)),
			bedrock.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}

	return NewFromModel(model, cfg, logger), nil
}

// NewFromModel wraps an existing langchaingo model. Used by New and by
// tests that substitute a fake model.
func NewFromModel(model llms.Model, cfg config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		llm:       model,
		modelName: cfg.Model,
		attempts:  attempts,
		delay:     cfg.RetryDelay,
		timeout:   timeout,
		logger:    logger,
		metrics:   metrics.NewCollector(),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.modelName
}

// Metrics returns call statistics accumulated since the client was created.
func (c *Client) Metrics() metrics.Snapshot {
	return c.metrics.Snapshot()
}

// Generate produces text for a plain prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	return c.generate(ctx, metrics.OpGenerate, messages)
}

// AnalyzeFrame describes a single JPEG frame using the given prompt.
func (c *Client) AnalyzeFrame(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf(analyzePreamble, prompt)),
				llms.BinaryPart("image/jpeg", jpeg),
			},
		},
	}
	return c.generate(ctx, metrics.OpAnalyzeFrame, messages,
		llms.WithTemperature(analyzeTemperature),
		llms.WithTopP(analyzeTopP),
		llms.WithMaxTokens(analyzeMaxTokens),
	)
}

// Chat sends a conversation history to the model. The last message should
// be the user's current query.
func (c *Client) Chat(ctx context.Context, msgs []Message) (string, error) {
	return c.generate(ctx, metrics.OpChat, toContent(msgs),
		llms.WithTemperature(chatTemperature),
		llms.WithTopP(chatTopP),
		llms.WithMaxTokens(chatMaxTokens),
	)
}

// Available probes the model with a tiny request. A false result means the
// model is unreachable or not loaded.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "Hello"),
	}
	_, err := c.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(10))
	return err == nil
}

// generate runs one model call under the bounded-retry policy: a fixed
// number of attempts with a fixed sleep in between, each attempt under its
// own timeout. Fatal API errors and context cancellation end the loop early.
// Each call is recorded in the metrics collector, retries included.
func (c *Client) generate(ctx context.Context, op string, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		text, err := c.callOnce(ctx, messages, opts...)
		if err == nil {
			c.metrics.Record(op, time.Since(start), nil)
			return text, nil
		}
		lastErr = wrapFatalError(err)

		c.logger.Warn("model call failed",
			"op", op,
			"attempt", attempt,
			"max_attempts", c.attempts,
			"error", err,
		)

		if errors.Is(lastErr, ErrFatalAPI) || ctx.Err() != nil {
			break
		}
		if attempt < c.attempts && c.delay > 0 {
			select {
			case <-time.After(c.delay):
			case <-ctx.Done():
				lastErr = ctx.Err()
				c.metrics.Record(op, time.Since(start), lastErr)
				return "", fmt.Errorf("%s: %w", op, lastErr)
			}
		}
	}
	c.metrics.Record(op, time.Since(start), lastErr)
	return "", fmt.Errorf("%s: %w", op, lastErr)
}

func (c *Client) callOnce(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return response.Choices[0].Content, nil
}
