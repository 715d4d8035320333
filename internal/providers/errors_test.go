package providers

import (
	"errors"
	"testing"
)

func TestClassifyError(t *testing.T) {
	cases := map[string]ErrorType{
		"insufficient_quota":              ErrorQuota,
		"resource has been exhausted":     ErrorQuota,
		"429 rate":                        ErrorRate,
		"input context too long":          ErrorContext,
		"timeout":                         ErrorTransient,
		"context deadline exceeded":       ErrorTransient,
		"service temporarily unavailable": ErrorTransient,
		"bad request":                     ErrorPermanent,
	}
	for msg, want := range cases {
		if got := ClassifyError(errors.New(msg)); got != want {
			t.Fatalf("classify %q: got %s want %s", msg, got, want)
		}
	}
}

func TestClassifyErrorNil(t *testing.T) {
	if got := ClassifyError(nil); got != "" {
		t.Fatalf("classify nil: got %s", got)
	}
}
