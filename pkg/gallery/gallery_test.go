package gallery

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/matzehuels/genposter/pkg/errors"
	"github.com/matzehuels/genposter/pkg/poster"
)

func entryAt(id string, seed int64, at time.Time) Entry {
	cfg := poster.Default()
	cfg.Seed = seed
	return Entry{ID: id, Hash: fmt.Sprintf("hash-%d", seed), Config: cfg, Width: 2100, Height: 3000, Blobs: 32, CreatedAt: at}
}

func TestNewEntry(t *testing.T) {
	e := NewEntry(poster.Default(), "abc", 10, 20, 3)
	assert.Len(t, e.ID, 36)
	assert.Equal(t, "abc", e.Hash)
	assert.WithinDuration(t, time.Now(), e.CreatedAt, time.Minute)

	other := NewEntry(poster.Default(), "abc", 10, 20, 3)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		require.NoError(t, s.Save(ctx, entryAt(fmt.Sprintf("id-%d", i), int64(i), base.Add(time.Duration(i)*time.Minute))))
	}

	got, err := s.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Config.Seed)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "id-2", list[0].ID, "newest first")
	assert.Equal(t, "id-0", list[2].ID)

	list, err = s.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = s.Get(ctx, "nope")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))

	assert.Error(t, s.Save(ctx, Entry{}), "entries need an id")
	assert.NoError(t, s.Close(ctx))
}

func TestMemoryStoreResaveMovesToFront(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	now := time.Now()
	require.NoError(t, s.Save(ctx, entryAt("a", 1, now)))
	require.NoError(t, s.Save(ctx, entryAt("b", 2, now)))
	require.NoError(t, s.Save(ctx, entryAt("a", 3, now)))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, int64(3), list[0].Config.Seed)
}

func TestMemoryStoreCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)
	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Save(ctx, entryAt(id, 0, now)))
	}

	_, err := s.Get(ctx, "a")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "oldest entry should be evicted")
	list, _ := s.List(ctx, 10)
	assert.Len(t, list, 2)
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(50)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, entryAt(fmt.Sprintf("id-%d", i), int64(i), time.Now()))
			_, _ = s.List(ctx, 5)
		}()
	}
	wg.Wait()

	list, err := s.List(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func toDoc(t *testing.T, e Entry) bson.D {
	t.Helper()
	raw, err := bson.Marshal(e)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("save", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, s.Save(context.Background(), entryAt("a", 1, at)))
		assert.Error(mt, s.Save(context.Background(), Entry{}))
	})

	mt.Run("get", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		want := entryAt("a", 7, at)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(t, want)))

		got, err := s.Get(context.Background(), "a")
		require.NoError(mt, err)
		assert.Equal(mt, want.ID, got.ID)
		assert.Equal(mt, want.Config, got.Config)
		assert.True(mt, want.CreatedAt.Equal(got.CreatedAt))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.Get(context.Background(), "nope")
		assert.True(mt, errors.Is(err, errors.ErrCodeNotFound))
	})

	mt.Run("list", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			toDoc(t, entryAt("b", 2, at.Add(time.Minute))),
			toDoc(t, entryAt("a", 1, at)),
		))

		list, err := s.List(context.Background(), 10)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		assert.Equal(mt, "b", list[0].ID)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		s := NewMongoStoreFromCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "duplicate key",
		}))
		err := s.Save(context.Background(), entryAt("a", 1, at))
		assert.True(mt, errors.Is(err, errors.ErrCodeStorage))
	})
}
