package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	apiKey string
	body   map[string]any
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recordedRequest) {
	t.Helper()

	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.query = r.URL.RawQuery
		recorded.apiKey = r.Header.Get("api-key")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&recorded.body)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client := New(Config{URL: server.URL, APIKey: "secret", Collection: "askio"})
	return client, recorded
}

func TestEnsureCollectionSendsSchema(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"result":true}`)

	err := client.EnsureCollection(context.Background(), 1536)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, recorded.method)
	assert.Equal(t, "/collections/askio", recorded.path)
	assert.Equal(t, "secret", recorded.apiKey)

	vectors, ok := recorded.body["vectors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1536), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestEnsureCollectionRejectsBadVectorSize(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{}`)

	assert.Error(t, client.EnsureCollection(context.Background(), 0))
}

func TestUpsertWaitsForCommit(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"result":{"status":"acknowledged"}}`)

	points := []Point{{
		ID:      "11111111-2222-3333-4444-555555555555",
		Vector:  []float32{0.1, 0.2},
		Payload: Payload{DocumentID: 1, ChunkID: 9, ChunkIndex: 0, Filename: "a.txt", Text: "hello"},
	}}
	err := client.Upsert(context.Background(), points)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, recorded.method)
	assert.Equal(t, "/collections/askio/points", recorded.path)
	assert.Equal(t, "wait=true", recorded.query)

	sent, ok := recorded.body["points"].([]any)
	require.True(t, ok)
	require.Len(t, sent, 1)
	payload := sent[0].(map[string]any)["payload"].(map[string]any)
	assert.Equal(t, "a.txt", payload["filename"])
	assert.Equal(t, float64(9), payload["chunk_id"])
}

func TestUpsertNoPointsIsNoop(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusInternalServerError, `boom`)

	require.NoError(t, client.Upsert(context.Background(), nil))
	assert.Empty(t, recorded.method, "no request may be sent for an empty batch")
}

func TestSearchParsesHits(t *testing.T) {
	response := `{"result":[
		{"id":"p1","score":0.91,"payload":{"document_id":1,"chunk_id":4,"chunk_index":0,"filename":"a.txt","text":"first"}},
		{"id":"p2","score":0.42,"payload":{"document_id":2,"chunk_id":7,"chunk_index":3,"filename":"b.pdf","text":"second"}}
	]}`
	client, recorded := newTestClient(t, http.StatusOK, response)

	hits, err := client.Search(context.Background(), []float32{0.5, 0.5}, 5)

	require.NoError(t, err)
	assert.Equal(t, "/collections/askio/points/search", recorded.path)
	assert.Equal(t, float64(5), recorded.body["limit"])
	assert.Equal(t, true, recorded.body["with_payload"])

	require.Len(t, hits, 2)
	assert.Equal(t, 0.91, hits[0].Score)
	assert.Equal(t, uint(4), hits[0].Payload.ChunkID)
	assert.Equal(t, "b.pdf", hits[1].Payload.Filename)
}

func TestSearchEmptyResultIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{"result":[]}`)

	hits, err := client.Search(context.Background(), []float32{0.5}, 5)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearchSurfacesServerError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusServiceUnavailable, `collection not loaded`)

	_, err := client.Search(context.Background(), []float32{0.5}, 5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "collection not loaded")
}

func TestDeletePointsByDocumentFilters(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{}`)

	err := client.DeletePointsByDocument(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, "/collections/askio/points/delete", recorded.path)
	assert.Equal(t, "wait=true", recorded.query)

	filter := recorded.body["filter"].(map[string]any)
	must := filter["must"].([]any)
	require.Len(t, must, 1)
	clause := must[0].(map[string]any)
	assert.Equal(t, "document_id", clause["key"])
	assert.Equal(t, float64(42), clause["match"].(map[string]any)["value"])
}

func TestPingChecksCollection(t *testing.T) {
	client, recorded := newTestClient(t, http.StatusOK, `{"result":{"status":"green"}}`)

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, http.MethodGet, recorded.method)
	assert.Equal(t, "/collections/askio", recorded.path)
}
