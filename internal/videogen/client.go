package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"videoforge/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("videogen: api key is required")

const defaultGenerateTimeout = 15 * time.Minute

// Options configures the generation client.
type Options struct {
	APIKey     string
	CustomerID string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client performs HTTP calls to the hosted video-generation service. The
// upstream is an opaque chat-completions endpoint: the enhanced prompt goes out
// as a single user message and the answer comes back either as a JSON envelope
// carrying a video URL or as raw video bytes.
type Client struct {
	apiKey     string
	customerID string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *infra.Logger
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://oi-server.onrender.com"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "replicate/google/veo-3"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		customerID: strings.TrimSpace(opts.CustomerID),
		baseURL:    baseURL,
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate validates the request, enhances the prompt, and performs exactly one
// upstream round trip bounded by the configured timeout. Invalid input fails
// before any network I/O.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidPrompt)
	}
	if len(prompt) > MaxPromptLength {
		return nil, fmt.Errorf("%w: prompt must be at most %d characters", ErrInvalidPrompt, MaxPromptLength)
	}

	enhanced := Enhance(prompt, req.Style, req.AspectRatio, req.MotionIntensity)

	payload := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: enhanced}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("videogen: encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("videogen: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.customerID != "" {
		httpReq.Header.Set("customerId", c.customerID)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, time.Since(started).Round(time.Second))
		}
		return nil, fmt.Errorf("videogen: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, time.Since(started).Round(time.Second))
		}
		return nil, fmt.Errorf("videogen: read response: %w", err)
	}

	result, err := decodeResponse(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
	if err != nil {
		return nil, err
	}

	result.Metadata = Metadata{
		Prompt:      prompt,
		Style:       coalesce(req.Style, DefaultStyle),
		AspectRatio: coalesce(req.AspectRatio, DefaultAspectRatio),
		Duration:    FixedDuration,
		Quality:     FixedQuality,
		GeneratedAt: time.Now().UTC(),
	}

	c.logger.Debug().
		Str("model", c.model).
		Bool("binary", result.IsBinary()).
		Dur("elapsed", time.Since(started)).
		Msg("videogen: generated video")
	return result, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
