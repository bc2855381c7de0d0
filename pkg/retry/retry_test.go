package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

func TestOnce(t *testing.T) {
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"success", []error{nil}, 1, false},
		{"transient then success", []error{transient, nil}, 2, false},
		{"transient twice", []error{transient, transient}, 2, true},
		{"validation not retried", []error{&domain.ValidationError{Field: "url"}}, 1, true},
		{"not found not retried", []error{fmt.Errorf("update: %w", &domain.NotFoundError{Resource: "link", ID: "x"})}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Once(context.Background(), func(context.Context) error {
				e := tt.errs[calls]
				calls++
				return e
			})
			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.errs[len(tt.errs)-1])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOnce_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Once(ctx, func(context.Context) error {
		calls++
		return errors.New("temporary failure")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}
