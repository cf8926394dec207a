package tcerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_ErrorString(t *testing.T) {
	e := New(CodeNoSession, "not logged in")
	assert.Equal(t, "[NO_SESSION] not logged in", e.Error())

	wrapped := Wrap(CodeNetwork, "backend unreachable", errors.New("connection refused"))
	assert.Equal(t, "[NETWORK] backend unreachable: connection refused", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(CodeUnknown, "wrapped", cause)
	assert.ErrorIs(t, e, cause)
}

func TestError_MarshalJSON(t *testing.T) {
	e := Wrap(CodeAPIResponse, "server error", errors.New("status 500")).
		WithContext("status", 500)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "API_RESPONSE", got["code"])
	assert.Equal(t, "error", got["level"])
	assert.Equal(t, "server error: status 500", got["message"])
}

func TestFrom_PassesThroughTyped(t *testing.T) {
	orig := New(CodeAuthSession, "session expired")
	got := From(fmt.Errorf("calling backend: %w", orig))
	assert.Same(t, orig, got)
}

func TestFrom_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"deadline", context.DeadlineExceeded, CodeAPITimeout},
		{"cancel", context.Canceled, CodeAPITimeout},
		{"url error", &url.Error{Op: "Post", URL: "http://tc", Err: errors.New("refused")}, CodeNetwork},
		{"plain", errors.New("mystery"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, From(tt.err).Code)
		})
	}
}

func TestFrom_WrappedDeadlineBeatsNetwork(t *testing.T) {
	// net/http wraps a timeout in url.Error; the timeout code must win.
	err := &url.Error{Op: "Post", URL: "http://tc", Err: context.DeadlineExceeded}
	assert.Equal(t, CodeAPITimeout, From(err).Code)
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeSearchError, CodeOf(New(CodeSearchError, "x")))
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("y")))
}
