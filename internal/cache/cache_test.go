package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string]()
	c.Set("a", "hello", time.Minute)

	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected cached value to be present")
	}
	if v != "hello" {
		t.Errorf("expected 'hello', got '%s'", v)
	}

	_, ok = c.Get("missing")
	if ok {
		t.Error("expected missing key to be absent")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[int]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", 42, time.Minute)

	// Still valid just before expiry
	now = now.Add(59 * time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	// Expired entries read as absent and are evicted lazily
	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	c.mu.Lock()
	_, stillStored := c.entries["k"]
	c.mu.Unlock()
	assert.False(t, stillStored, "expired entry should be deleted on access")
}

func TestCache_DefaultTTL(t *testing.T) {
	c := New[int]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("k", 1, 0) // zero ttl falls back to DefaultTTL

	now = now.Add(DefaultTTL - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCache_DeleteClear(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))

	c.Clear()
	assert.False(t, c.Has("b"))
}

func TestCache_Cleanup(t *testing.T) {
	c := New[int]()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("live", 1, time.Hour)
	c.Set("dead", 2, time.Minute)

	now = now.Add(2 * time.Minute)
	c.Cleanup()

	c.mu.Lock()
	_, liveOK := c.entries["live"]
	_, deadOK := c.entries["dead"]
	c.mu.Unlock()

	assert.True(t, liveOK)
	assert.False(t, deadOK)
}

func TestFetch_UsesCacheThenProducer(t *testing.T) {
	c := New[string]()
	calls := 0
	producer := func() (string, error) {
		calls++
		return "fresh", nil
	}

	v, err := Fetch(c, "k", producer, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls)

	// Second call served from cache, producer not invoked again
	v, err = Fetch(c, "k", producer, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, "fresh", v)
	assert.Equal(t, 1, calls)
}

func TestFetch_ProducerFailureUncached(t *testing.T) {
	c := New[string]()
	boom := errors.New("upstream down")

	_, err := Fetch(c, "k", func() (string, error) { return "", boom }, time.Minute)
	assert.ErrorIs(t, err, boom)

	// Failure was not cached; next call invokes the producer again
	v, err := Fetch(c, "k", func() (string, error) { return "ok", nil }, time.Minute)
	assert.NoError(t, err)
	assert.Equal(t, "ok", v)
}
