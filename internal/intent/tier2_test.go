package intent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "assistant-core/internal/common/errors"
)

func TestGenAIClientParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/parse-intent", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"intent": "email", "confidence": 0.91, "slots": {"recipient": "boss"}}`))
	}))
	defer server.Close()

	client, err := NewGenAIClient(server.URL, 2*time.Second)
	require.NoError(t, err)

	parsed, err := client.Parse(context.Background(), "let my boss know about the delay")
	require.NoError(t, err)
	assert.Equal(t, Email, parsed.Intent)
	assert.Equal(t, 0.91, parsed.Confidence)
	assert.Equal(t, "boss", parsed.Slots["recipient"])
	assert.Equal(t, "let my boss know about the delay", parsed.Utterance)
}

func TestGenAIClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"intent": "email", "confidence": 0.9}`))
	}))
	defer server.Close()

	client, err := NewGenAIClient(server.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.Parse(context.Background(), "slow backend")
	require.Error(t, err)

	stdErr := stderrors.AsStandard(err)
	assert.Equal(t, stderrors.ErrCodeClassifierTimeout, stdErr.Code)
}

func TestGenAIClientRejectsOutOfEnumIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"intent": "teleportation", "confidence": 0.99}`))
	}))
	defer server.Close()

	client, err := NewGenAIClient(server.URL, 2*time.Second)
	require.NoError(t, err)

	_, err = client.Parse(context.Background(), "whatever")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeClassificationFailed, stderrors.AsStandard(err).Code)
}

func TestGenAIClientRejectsMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client, err := NewGenAIClient(server.URL, 2*time.Second)
	require.NoError(t, err)

	_, err = client.Parse(context.Background(), "whatever")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeClassificationFailed, stderrors.AsStandard(err).Code)
}

func TestGenAIClientNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewGenAIClient(server.URL, 2*time.Second)
	require.NoError(t, err)

	_, err = client.Parse(context.Background(), "whatever")
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeClassificationFailed, stderrors.AsStandard(err).Code)
}
