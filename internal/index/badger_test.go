package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := Open("", true, NewMockEmbedder())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenRequiresEmbedder(t *testing.T) {
	_, err := Open("", true, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestAddAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	docs := []Document{
		{Content: "the earth orbits the sun once a year"},
		{Content: "water boils at 100 degrees celsius at sea level"},
		{Content: "the great wall of china is visible from low orbit"},
	}
	require.NoError(t, store.Add(ctx, docs))

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAddAssignsIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, []Document{{Content: "vaccines reduce disease transmission"}}))

	matches, err := store.Search(ctx, "vaccines reduce disease transmission", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.NotEmpty(t, matches[0].Doc.ID)
	assert.False(t, matches[0].Doc.AddedAt.IsZero())
}

func TestSearchRanksExactMatchFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{ID: "a", Content: "coffee consumption and heart health"},
		{ID: "b", Content: "the moon landing happened in 1969"},
		{ID: "c", Content: "antarctic ice sheets are melting"},
	}
	require.NoError(t, store.Add(ctx, docs))

	matches, err := store.Search(ctx, "the moon landing happened in 1969", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "b", matches[0].Doc.ID)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Distance, matches[i-1].Distance)
	}
}

func TestSearchHonorsK(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []Document{
		{Content: "doc one"}, {Content: "doc two"},
		{Content: "doc three"}, {Content: "doc four"},
	}
	require.NoError(t, store.Add(ctx, docs))

	matches, err := store.Search(ctx, "doc", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = store.Search(ctx, "doc", 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchEmptyQuery(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchEmptyIndex(t *testing.T) {
	store := newTestStore(t)

	matches, err := store.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 0.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 2.0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 2.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineDistance(tt.a, tt.b), 1e-6)
		})
	}
}
