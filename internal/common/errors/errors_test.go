package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_IsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("answer age: %w", NewValidationError("age", "Idade inválida"))

	assert.True(t, stderrors.Is(err, ErrValidation))
	assert.False(t, stderrors.Is(err, ErrSessionComplete))

	var stdErr *StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, "Idade inválida", stdErr.Message)
	assert.Equal(t, "age", stdErr.Metadata["field"])
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
	}{
		{"standard error passes through", NewServiceError("modelo indisponível"), ErrCodeServiceError},
		{"wrapped standard error unwraps", fmt.Errorf("submit: %w", NewNoExplanationError()), ErrCodeNoExplanation},
		{"foreign error becomes internal", stderrors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, Normalize(tt.err).Code)
		})
	}

	assert.Nil(t, Normalize(nil))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Erro na análise: Erro HTTP: 500. Tente novamente.",
		UserMessage(NewTransportFailureError("Erro HTTP: 500", nil)))
	assert.Equal(t, "Erro na análise: Erro desconhecido na análise. Tente novamente.",
		UserMessage(NewNoExplanationError()))
}

func TestWithMetadata_DoesNotMutateOriginal(t *testing.T) {
	orig := NewServiceError("x")
	cp := orig.WithMetadata("status", 502)

	assert.Nil(t, orig.Metadata)
	assert.Equal(t, 502, cp.Metadata["status"])
}

func TestGetErrorCategory(t *testing.T) {
	tests := map[ErrorCode]string{
		ErrCodeValidation:             "VALIDATION",
		ErrCodeSessionComplete:        "SESSION",
		ErrCodeSubmissionInProgress:   "SESSION",
		ErrCodeTransportFailure:       "PREDICTION",
		ErrCodeNoExplanation:          "PREDICTION",
		ErrCodeRequestSchemaViolation: "PREDICTION",
		ErrCodeCatalogInvalid:         "STARTUP",
		ErrCodeInternal:               "OTHER",
	}
	for code, want := range tests {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
	assert.True(t, IsRetryableErrorCode(ErrCodeTransportFailure))
	assert.False(t, IsRetryableErrorCode(ErrCodeValidation))
}
