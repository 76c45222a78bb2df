package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askio/internal/model"
)

type fakeDocumentStore struct {
	nextID uint
	err    error

	filename string
	texts    []string
}

func (s *fakeDocumentStore) CreateWithChunks(_ context.Context, filename string, texts []string) (*model.Document, []model.Chunk, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	s.filename = filename
	s.texts = texts

	s.nextID++
	doc := &model.Document{ID: s.nextID, Filename: filename, ChunkCount: len(texts)}
	chunks := make([]model.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = model.Chunk{
			ID:         s.nextID*100 + uint(i),
			DocumentID: doc.ID,
			Text:       text,
			ChunkIndex: i,
		}
	}
	return doc, chunks, nil
}

func newIngestFixture(store *fakeDocumentStore, index *fakeIndex, chunkSize, overlap int) *IngestService {
	return NewIngestService(store, NewRetriever(&fakeEmbedder{}, index), chunkSize, overlap, nil)
}

func TestIngestRejectsBlankContent(t *testing.T) {
	service := newIngestFixture(&fakeDocumentStore{}, &fakeIndex{}, 0, 0)

	_, err := service.Ingest(context.Background(), "a.txt", "  \n\t ")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIngestPersistsThenIndexesEveryChunk(t *testing.T) {
	store := &fakeDocumentStore{}
	index := &fakeIndex{}
	service := newIngestFixture(store, index, 200, 100)

	content := strings.Repeat("a", 150) + strings.Repeat("b", 150)
	result, err := service.Ingest(context.Background(), "notes.txt", content)

	require.NoError(t, err)
	assert.Equal(t, uint(1), result.DocumentID)
	assert.Equal(t, 3, result.ChunkCount)
	assert.Equal(t, "notes.txt", store.filename)

	// One upsert per chunk, each carrying the row ids the resolver needs later.
	require.Len(t, index.upserts, 3)
	for i, points := range index.upserts {
		require.Len(t, points, 1)
		point := points[0]
		assert.Equal(t, PointID(1, i), point.ID)
		assert.Equal(t, uint(1), point.Payload.DocumentID)
		assert.Equal(t, i, point.Payload.ChunkIndex)
		assert.Equal(t, "notes.txt", point.Payload.Filename)
		assert.Equal(t, store.texts[i], point.Payload.Text)
		assert.NotEmpty(t, point.Vector)
	}
}

func TestIngestDefaultsFilename(t *testing.T) {
	store := &fakeDocumentStore{}
	service := newIngestFixture(store, &fakeIndex{}, 0, 0)

	_, err := service.Ingest(context.Background(), "   ", "some short but sufficiently long piece of content to keep around")

	require.NoError(t, err)
	assert.Equal(t, "untitled.txt", store.filename)
}

func TestIngestStoreFailureIsFatal(t *testing.T) {
	store := &fakeDocumentStore{err: errors.New("mysql down")}
	index := &fakeIndex{}
	service := newIngestFixture(store, index, 0, 0)

	_, err := service.Ingest(context.Background(), "a.txt", "content that is long enough to produce at least one chunk here")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a.txt"`)
	assert.Empty(t, index.upserts, "nothing may be indexed when persistence fails")
}

func TestPointIDIsDeterministicPerChunk(t *testing.T) {
	assert.Equal(t, PointID(3, 0), PointID(3, 0))
	assert.NotEqual(t, PointID(3, 0), PointID(3, 1))
	assert.NotEqual(t, PointID(3, 0), PointID(4, 0))
}
