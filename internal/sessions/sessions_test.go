package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rorical/CircuiTech/internal/models"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr(), opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func sampleSession(id string) *DesignSession {
	return &DesignSession{
		SessionID: id,
		ChatHistory: []models.ChatMessage{
			models.NewUserMessage("weather station"),
			models.NewAssistantMessage("Here is a BOM."),
		},
		Bom: []models.BomItem{
			{PartNumber: "BME280", Manufacturer: "Bosch", Description: "Sensor", Quantity: 1, EstimatedCost: 4.5},
		},
		UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// storeContract runs the behavior every Store must share.
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	want := sampleSession("a")
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.ChatHistory, got.ChatHistory)
	assert.Equal(t, want.Bom, got.Bom)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))

	// Overwrite replaces the record.
	want.Bom = []models.BomItem{{PartNumber: "SHT40", Quantity: 1, EstimatedCost: 2}}
	require.NoError(t, store.Save(ctx, want))
	got, err = store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, want.Bom, got.Bom)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Load(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.NoError(t, store.Delete(ctx, "never-saved"))
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))
	storeContract(t, store)
}

func TestMemoryStore_CopiesOnSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	sess := sampleSession("a")
	require.NoError(t, store.Save(ctx, sess))

	sess.Bom[0].PartNumber = "CHANGED"
	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "BME280", loaded.Bom[0].PartNumber)

	loaded.ChatHistory[0].Content = "CHANGED"
	again, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "weather station", again.ChatHistory[0].Content)
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	store, mr := newRedisStore(t, WithTTL(time.Hour), WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession("abc")))

	assert.True(t, mr.Exists("test:abc"))
	assert.Equal(t, time.Hour, mr.TTL("test:abc"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_DefaultPrefixNoTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), sampleSession("xyz")))
	assert.True(t, mr.Exists("circuitech:session:xyz"))
	assert.Zero(t, mr.TTL("circuitech:session:xyz"))
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set("circuitech:session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisStore(mr.Addr())
	defer store.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, store.Ping(ctx))
}
