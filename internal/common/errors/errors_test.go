package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestAsStandardError(t *testing.T) {
	assert.Nil(t, AsStandardError(nil))

	wrapped := fmt.Errorf("outer: %w", NewSessionNotFoundError("s1"))
	stdErr := AsStandardError(wrapped)
	assert.Equal(t, ErrCodeSessionNotFound, stdErr.Code)

	plain := AsStandardError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeMissingIdentifier, http.StatusBadRequest},
		{ErrCodeSessionNotFound, http.StatusNotFound},
		{ErrCodeNotImplemented, http.StatusNotImplemented},
		{ErrCodeTransportError, http.StatusBadGateway},
		{ErrCodeGenerationTimeout, http.StatusGatewayTimeout},
		{ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestErrorCategoryAndRetryable(t *testing.T) {
	assert.Equal(t, "DISPATCH", GetErrorCategory(ErrCodeMissingRequiredField))
	assert.Equal(t, "DISPATCH", GetErrorCategory(ErrCodeNotImplemented))
	assert.Equal(t, "TRANSPORT", GetErrorCategory(ErrCodeTransportError))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeNoMatch))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeGenerationFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseInsertFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeSessionNotFound))

	assert.True(t, IsRetryableErrorCode(ErrCodeTransportError))
	assert.False(t, IsRetryableErrorCode(ErrCodeMissingIdentifier))
	assert.True(t, NewTransportError("list epics", stderrors.New("eof")).Retryable)
}

func TestHandleHTTPError(t *testing.T) {
	log := &recordingLogger{}
	handler := NewErrorHandler(log)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	w := httptest.NewRecorder()
	handler.HandleHTTPError(w, req, NewInvalidRequestError("message: message is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Error StandardError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeInvalidRequest, body.Error.Code)
	assert.Equal(t, "message: message is required", body.Error.Details)

	require.Len(t, log.messages, 1)
	assert.Equal(t, "/chat", log.fields[0]["path"])
	assert.Equal(t, "VALIDATION", log.fields[0]["errorCategory"])
	assert.Equal(t, http.StatusBadRequest, log.fields[0]["status"])
}

func TestHasCodeAndUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := fmt.Errorf("connect: %w", NewDatabaseConnectionFailedError("redis", cause))

	assert.True(t, HasCode(err, ErrCodeDatabaseConnectionFailed))
	assert.False(t, HasCode(err, ErrCodeNoMatch))
	assert.False(t, HasCode(cause, ErrCodeDatabaseConnectionFailed))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "redis", AsStandardError(err).Metadata["backend"])

	assert.Nil(t, NewNoMatchError("search").Unwrap())
	assert.ErrorIs(t, NewGenerationTimeoutError(context.DeadlineExceeded), context.DeadlineExceeded)
	assert.Equal(t, "NO_MATCH", string(NewNoMatchError("generator").Code))
}
