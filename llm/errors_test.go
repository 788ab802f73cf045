package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teodorv/medcycle/retry"
)

func TestLLMErrorError(t *testing.T) {
	wrapped := errors.New("connection refused")

	tests := []struct {
		name string
		err  *LLMError
		want string
	}{
		{
			name: "with wrapped error",
			err:  NewLLMError(ErrorTypeRequest, "failed to send request", wrapped),
			want: "RequestError (failed to send request): connection refused",
		},
		{
			name: "without wrapped error",
			err:  NewLLMError(ErrorTypeRateLimit, "Too Many Requests", nil),
			want: "RateLimitError: Too Many Requests",
		},
		{
			name: "unknown type",
			err:  NewLLMError(ErrorTypeUnknown, "something", nil),
			want: "UnknownError: something",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestLLMErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewLLMError(ErrorTypeResponse, "parse failed", inner)
	assert.ErrorIs(t, err, inner)
}

func TestLLMErrorRateLimited(t *testing.T) {
	assert.True(t, NewLLMError(ErrorTypeRateLimit, "throttled", nil).RateLimited())
	assert.False(t, NewLLMError(ErrorTypeAPI, "server error", nil).RateLimited())
}

func TestLLMErrorSatisfiesRetryContract(t *testing.T) {
	throttled := NewLLMError(ErrorTypeRateLimit, "Too Many Requests", nil)
	assert.True(t, retry.IsRateLimited(throttled))

	authErr := NewLLMError(ErrorTypeAuthentication, "status code 401", nil)
	assert.False(t, retry.IsRateLimited(authErr))
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrorTypeProvider, "ProviderError"},
		{ErrorTypeRequest, "RequestError"},
		{ErrorTypeResponse, "ResponseError"},
		{ErrorTypeAPI, "APIError"},
		{ErrorTypeRateLimit, "RateLimitError"},
		{ErrorTypeAuthentication, "AuthenticationError"},
		{ErrorTypeInvalidInput, "InvalidInputError"},
		{ErrorTypeUnknown, "UnknownError"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := &LLMError{Type: tt.errType}
			assert.Equal(t, tt.want, err.TypeString())
		})
	}
}
