package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", ErrRateLimit, true},
		{"provider down", ErrProviderDown, true},
		{"wrapped rate limit", fmt.Errorf("calling model: %w", ErrRateLimit), true},
		{"context length", ErrContextLength, false},
		{"empty response", ErrEmptyResponse, false},
		{"canceled", context.Canceled, false},
		{"arbitrary", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
