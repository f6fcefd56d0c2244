package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func echoEmbeddings(t *testing.T, w http.ResponseWriter, r *http.Request, dim int) {
	t.Helper()
	var req embedRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

	resp := embedResponse{Embeddings: make([]embedItem, len(req.Texts))}
	for i := range req.Texts {
		vec := make([]float64, dim)
		vec[0] = float64(len(req.Texts[i]))
		resp.Embeddings[i] = embedItem{Embedding: vec}
	}
	require.NoError(t, json.NewEncoder(w).Encode(&resp))
}

func TestEmbedBatch(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		echoEmbeddings(t, w, r, 4)
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for i, vec := range vectors {
		require.NotNil(t, vec, "vector %d", i)
		assert.Len(t, vec, 4)
	}
}

func TestEmbedSingleText(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		echoEmbeddings(t, w, r, 3)
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vec, err := client.Embed(context.Background(), "slow exports")
	require.NoError(t, err)
	require.NotNil(t, vec)
	assert.Len(t, vec, 3)
}

func TestEmbedSingleTextFailsOpen(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vec, err := client.Embed(context.Background(), "slow exports")
	require.NoError(t, err, "service failure degrades to a nil vector, not an error")
	assert.Nil(t, vec)
}

func TestEmbedBatchChunks(t *testing.T) {
	var requests atomic.Int32
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Texts), 2)

		resp := embedResponse{Embeddings: make([]embedItem, len(req.Texts))}
		for i := range req.Texts {
			resp.Embeddings[i] = embedItem{Embedding: []float64{1}}
		}
		require.NoError(t, json.NewEncoder(w).Encode(&resp))
	})

	client := NewClient(Config{BaseURL: srv.URL, ChunkSize: 2, RPS: 1000}, nil, nil)

	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	require.Len(t, vectors, 5)
	assert.Equal(t, int32(3), requests.Load(), "5 texts at chunk size 2 need 3 requests")
}

func TestEmbedBatchNullItems(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Second item failed to embed: null embedding, same length.
		_, _ = w.Write([]byte(`{"embeddings":[{"embedding":[0.1,0.2]},{"embedding":null}]}`))
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vectors, err := client.EmbedBatch(context.Background(), []string{"good", "bad"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.NotNil(t, vectors[0])
	assert.Nil(t, vectors[1], "null embedding must degrade to nil, not error")
}

func TestEmbedBatchServerErrorFailsOpen(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err, "server failure degrades to nil vectors, not an error")
	require.Len(t, vectors, 2)
	assert.Nil(t, vectors[0])
	assert.Nil(t, vectors[1])
}

func TestEmbedBatchLengthMismatchFailsOpen(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[{"embedding":[0.1]}]}`))
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)

	vectors, err := client.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Nil(t, vectors[0])
	assert.Nil(t, vectors[1])
}

func TestEmbedBatchContextCancelled(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.EmbedBatch(ctx, []string{"a"})
	assert.Error(t, err, "context cancellation is the one propagated error")
}

func TestHealth(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"model_version":"mini-lm-v2","dimension":384}`))
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)
	assert.NoError(t, client.Health(context.Background()))
}

func TestHealthUnreachable(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil, nil)

	err := client.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHealthUnhealthyStatus(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	client := NewClient(Config{BaseURL: srv.URL}, nil, nil)
	assert.Error(t, client.Health(context.Background()))
}
