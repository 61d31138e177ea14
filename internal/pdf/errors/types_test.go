package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportError_Chain(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(ErrorTypeTemplateFetch, "failed to fetch cover template", cause).
		WithContext("https://example.test/cover.pdf").
		WithPhase("fetch")

	wrapped := fmt.Errorf("assembly aborted: %w", err)

	assert.True(t, stderrors.Is(wrapped, Kind(ErrorTypeTemplateFetch)))
	assert.False(t, stderrors.Is(wrapped, Kind(ErrorTypeMerge)))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.Equal(t, ErrorTypeTemplateFetch, TypeOf(wrapped))

	re, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "fetch", re.Phase)
	assert.Contains(t, err.Error(), "[template-fetch-failed]")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTypeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeRender, TypeOf(fmt.Errorf("boom")))
	_, ok := As(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestErrorType_String(t *testing.T) {
	tests := map[ErrorType]string{
		ErrorTypeTemplateFetch:   "template-fetch-failed",
		ErrorTypeTemplateParse:   "template-parse-failed",
		ErrorTypeMerge:           "merge-failed",
		ErrorTypeRender:          "generic-render-failure",
		ErrorTypeDataConsistency: "data-consistency-fault",
	}
	for et, want := range tests {
		assert.Equal(t, want, et.String())
		assert.NotEmpty(t, et.Guidance())
	}
	assert.Contains(t, ErrorTypeTemplateFetch.Guidance(), "HTTP")
}
