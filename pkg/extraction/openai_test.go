package extraction

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/geosect/geosect/pkg/errors"
)

func TestWrapOracleErr(t *testing.T) {
	e := &OpenAIExtractor{limiter: NewRateLimiter(60)}
	e.limiter.Drain()

	t.Run("rate limited", func(t *testing.T) {
		apiErr := &openai.APIError{HTTPStatusCode: 429}
		err := e.wrapOracleErr(apiErr, 3)

		var rl *errors.RateLimitedError
		if !stderrors.As(err, &rl) {
			t.Fatalf("err = %T, want *RateLimitedError", err)
		}
		if rl.RetryAfter < 1 {
			t.Errorf("RetryAfter = %d, want a backoff estimate", rl.RetryAfter)
		}
		if !errors.Is(err, errors.ErrCodeRateLimited) {
			t.Error("code should be RATE_LIMITED")
		}
		if !stderrors.Is(err, apiErr) {
			t.Error("provider error should remain in the chain")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		err := e.wrapOracleErr(fmt.Errorf("call: %w", context.DeadlineExceeded), 1)
		if !errors.Is(err, errors.ErrCodeTimeout) {
			t.Errorf("err = %v, want TIMEOUT", err)
		}
	})

	t.Run("other", func(t *testing.T) {
		err := e.wrapOracleErr(fmt.Errorf("boom"), 1)
		if !errors.Is(err, errors.ErrCodeExtraction) {
			t.Errorf("err = %v, want EXTRACTION_FAILED", err)
		}
	})
}
