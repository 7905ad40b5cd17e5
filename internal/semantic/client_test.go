package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			TextA string `json:"text_a"`
			TextB string `json:"text_b"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mythology", req.TextA)
		assert.Equal(t, "folklore", req.TextB)

		json.NewEncoder(w).Encode(map[string]float64{"similarity": 0.87})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	score, err := client.Similarity(context.Background(), "mythology", "folklore")
	require.NoError(t, err)
	assert.InDelta(t, 0.87, score, 1e-9)
}

func TestSimilarity_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSimilarity_MissingField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing similarity field")
}

func TestSimilarity_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestSimilarity_OutOfRangeScore(t *testing.T) {
	for _, score := range []float64{-0.1, 1.5} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]float64{"similarity": score})
		}))

		client := NewClient(server.URL)
		_, err := client.Similarity(context.Background(), "a", "b")
		require.Error(t, err, "score %v", score)
		assert.Contains(t, err.Error(), "out of range")
		server.Close()
	}
}

func TestSimilarity_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // shut down before the call

	client := NewClient(server.URL)
	_, err := client.Similarity(context.Background(), "a", "b")
	require.Error(t, err)
}

func TestSimilarity_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"similarity": 0.5})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	_, err := client.Similarity(ctx, "a", "b")
	require.Error(t, err)
}
