package extraction

import (
	"context"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"net"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/observability"
)

// Defaults for the OpenAI-backed extractor.
const (
	DefaultModel    = "gpt-4o"
	defaultAttempts = 3
	defaultTimeout  = 120 * time.Second
)

// systemPrompt instructs the model to read geotechnical log sheets. The
// response must match the fragment schema exactly; depths are meters below
// ground surface, headers are transcribed verbatim.
const systemPrompt = `You are a geotechnical data extraction system. The image shows one page
from a borehole log report. Extract every borehole log visible on the page.

Return ONLY a JSON object of the form
{"fragments": [{"header": {...}, "layers": [...], "spt": [...]}]}.

Rules:
- header.name is the borehole designation exactly as printed (e.g. "BH-3").
- header.elevation is the ground surface elevation as printed, or "0.00" if
  the sheet shows none.
- layers are soil strata with depth_from/depth_to in meters below ground
  surface, top first. uscs is the USCS group symbol if printed (CL, SM, ...).
- spt entries are standard penetration test readings: depth in meters and
  the N-value as blow_count.
- Omit fields you cannot read. Never invent values.
- A page with no borehole log yields {"fragments": []}.`

// OpenAIConfig configures the OpenAI-backed extractor.
type OpenAIConfig struct {
	APIKey string

	// Model defaults to DefaultModel when empty.
	Model string

	// BaseURL overrides the API endpoint, e.g. for a proxy.
	BaseURL string

	// RequestsPerMinute caps the client-side call rate. Zero uses the
	// package default.
	RequestsPerMinute int

	// Attempts is the per-page retry budget. Zero uses the default.
	Attempts int
}

// OpenAIExtractor calls the OpenAI vision API, one request per page.
type OpenAIExtractor struct {
	client   *openai.Client
	model    string
	limiter  *RateLimiter
	attempts int
}

// NewOpenAIExtractor creates an extractor from config. The API key is
// required.
func NewOpenAIExtractor(cfg OpenAIConfig) (*OpenAIExtractor, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	return &OpenAIExtractor{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    model,
		limiter:  NewRateLimiter(cfg.RequestsPerMinute),
		attempts: attempts,
	}, nil
}

// Provider returns "openai".
func (e *OpenAIExtractor) Provider() string { return "openai" }

// Model returns the configured model identifier.
func (e *OpenAIExtractor) Model() string { return e.model }

// ExtractPage sends the page image to the vision model and decodes the
// validated response. Transient failures (rate limits, network errors, 5xx)
// are retried with exponential backoff; schema violations are not, since the
// same prompt tends to reproduce the same malformed answer.
func (e *OpenAIExtractor) ExtractPage(ctx context.Context, img PageImage) ([]borehole.Fragment, error) {
	var frags []borehole.Fragment

	err := retry.Do(
		func() error {
			if err := e.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			observability.Oracle().OnRequest(ctx, e.Provider(), e.model, img.Page)
			start := time.Now()

			content, err := e.call(ctx, img)
			if err != nil {
				observability.Oracle().OnError(ctx, e.Provider(), e.model, img.Page, err)
				if isRateLimited(err) {
					e.limiter.Drain()
					return err
				}
				if isTransient(err) {
					return err
				}
				return retry.Unrecoverable(err)
			}
			observability.Oracle().OnResponse(ctx, e.Provider(), e.model, img.Page, time.Since(start))

			decoded, err := decodePayload(content, img.Page)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			frags = decoded
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(e.attempts)),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, e.wrapOracleErr(err, img.Page)
	}
	return frags, nil
}

// call performs one chat completion request and returns the raw response
// text.
func (e *OpenAIExtractor) call(ctx context.Context, img PageImage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img.PNG)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Extract all borehole logs from this page.",
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.ErrCodeExtraction, "oracle returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// isRateLimited reports whether the error is an HTTP 429 from the API.
func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	return stderrors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429
}

// isTransient reports whether a failed call is worth retrying.
func isTransient(err error) bool {
	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode >= 500
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}

// wrapOracleErr maps a final extraction failure onto the structured error
// codes the CLI and server report. Exhausted-retry 429s become a
// *RateLimitedError so callers can read how long to back off.
func (e *OpenAIExtractor) wrapOracleErr(err error, page int) error {
	switch {
	case isRateLimited(err):
		return &errors.RateLimitedError{
			RetryAfter: e.limiter.RetryAfter(),
			Message:    fmt.Sprintf("oracle rate limited on page %d", page),
			Cause:      err,
		}
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "oracle timed out on page %d", page)
	case errors.GetCode(err) != "":
		return err
	default:
		return errors.Wrap(errors.ErrCodeExtraction, err, "extracting page %d", page)
	}
}
