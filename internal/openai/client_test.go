package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	embedding []float32
	err       error
	lastText  string
}

func (f *fakeAPI) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.embedding, nil
}

func TestClient_GenerateEmbedding(t *testing.T) {
	ctx := context.Background()

	t.Run("returns provider embedding", func(t *testing.T) {
		api := &fakeAPI{embedding: []float32{0.1, 0.2, 0.3}}
		client := NewClientWithAPI(api, 3)

		embedding, err := client.GenerateEmbedding(ctx, "governing law clause")
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
		assert.Equal(t, "governing law clause", api.lastText)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		client := NewClientWithAPI(&fakeAPI{}, 3)

		_, err := client.GenerateEmbedding(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyText)
	})

	t.Run("wraps provider error", func(t *testing.T) {
		providerErr := errors.New("rate limited")
		client := NewClientWithAPI(&fakeAPI{err: providerErr}, 3)

		_, err := client.GenerateEmbedding(ctx, "text")
		assert.ErrorIs(t, err, providerErr)
	})

	t.Run("rejects wrong dimensions", func(t *testing.T) {
		client := NewClientWithAPI(&fakeAPI{embedding: []float32{0.1, 0.2}}, 3)

		_, err := client.GenerateEmbedding(ctx, "text")
		assert.ErrorIs(t, err, ErrWrongDimensions)
	})

	t.Run("defaults dimensions when unset", func(t *testing.T) {
		vec := make([]float32, DefaultEmbeddingDimensions)
		client := NewClientWithAPI(&fakeAPI{embedding: vec}, 0)

		embedding, err := client.GenerateEmbedding(ctx, "text")
		require.NoError(t, err)
		assert.Len(t, embedding, DefaultEmbeddingDimensions)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("accepts a plain string model name", func(t *testing.T) {
		client := NewClient(Config{
			APIKey:     "sk-test",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		})

		require.NotNil(t, client)
		adapter, ok := client.api.(*apiAdapter)
		require.True(t, ok)
		assert.Equal(t, "text-embedding-3-small", string(adapter.model))
	})

	t.Run("defaults model and dimensions when unset", func(t *testing.T) {
		client := NewClient(Config{APIKey: "sk-test"})

		require.NotNil(t, client)
		adapter, ok := client.api.(*apiAdapter)
		require.True(t, ok)
		assert.Equal(t, DefaultEmbeddingModel, adapter.model)
		assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
	})
}
