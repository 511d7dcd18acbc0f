package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewClient(Config{APIKey: "   "}))
}

func TestVerifyModel(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/models/llama3.1" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"message":"model not found","type":"invalid_request_error"}}`)
			return
		}
		fmt.Fprint(w, `{"id":"llama3.1","object":"model","created":1,"owned_by":"meta"}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{APIKey: "secret", BaseURL: server.URL})
	require.NotNil(t, client)

	require.NoError(t, VerifyModel(context.Background(), client, " llama3.1 "))
	require.Equal(t, "/models/llama3.1", gotPath)
	require.Equal(t, "Bearer secret", gotAuth)

	require.Error(t, VerifyModel(context.Background(), client, "unknown"))
}

func TestVerifyModelRejectsBadInput(t *testing.T) {
	t.Parallel()

	require.Error(t, VerifyModel(context.Background(), nil, "m"))
	client := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	require.Error(t, VerifyModel(context.Background(), client, "  "))
}
