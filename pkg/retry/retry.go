// Package retry implements the store retry policy: one immediate retry for
// transient failures, none for errors that cannot succeed on a second attempt.
package retry

import (
	"context"
	"errors"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

// IsRetryable reports whether err may succeed if the call is repeated.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !domain.IsValidation(err) && !domain.IsNotFound(err)
}

// Once calls fn and, if it fails with a retryable error, calls it once more.
func Once(ctx context.Context, fn func(context.Context) error) error {
	err := fn(ctx)
	if !IsRetryable(err) || ctx.Err() != nil {
		return err
	}
	return fn(ctx)
}
