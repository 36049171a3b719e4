package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-schedule-proxy/internal/models"
)

func classesNamed(titles ...string) []models.SanitizedClass {
	classes := make([]models.SanitizedClass, 0, len(titles))
	for _, title := range titles {
		classes = append(classes, models.SanitizedClass{Title: title})
	}
	return classes
}

func TestCache_RoundTrip(t *testing.T) {
	classesCache := New(30*time.Second, 256)
	key := NewKey("2025-01-01 00:00", "2025-01-07 23:59", "")
	value := classesNamed("Yoga", "Pilates")

	classesCache.Put(key, value)

	got, ok := classesCache.Get(key)
	require.True(t, ok, "expected a hit before TTL elapsed")
	assert.Equal(t, value, got)
}

func TestCache_MissWhenAbsent(t *testing.T) {
	classesCache := New(30*time.Second, 256)

	_, ok := classesCache.Get(NewKey("2025-01-01 00:00", "2025-01-07 23:59", ""))
	assert.False(t, ok)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	classesCache := New(30*time.Second, 256)
	current := time.Unix(1000, 0)
	classesCache.now = func() time.Time { return current }

	key := NewKey("2025-01-01 00:00", "2025-01-07 23:59", "")
	classesCache.Put(key, classesNamed("Yoga"))

	current = current.Add(29 * time.Second)
	_, ok := classesCache.Get(key)
	require.True(t, ok, "entry expired early")

	current = current.Add(2 * time.Second)
	_, ok = classesCache.Get(key)
	assert.False(t, ok, "entry survived past TTL")

	// the expired entry is purged on access, not merely hidden
	assert.Equal(t, 0, classesCache.Len())
}

func TestCache_PutResetsExpiry(t *testing.T) {
	classesCache := New(30*time.Second, 256)
	current := time.Unix(1000, 0)
	classesCache.now = func() time.Time { return current }

	key := NewKey("2025-01-01 00:00", "2025-01-07 23:59", "")
	classesCache.Put(key, classesNamed("Yoga"))

	current = current.Add(25 * time.Second)
	classesCache.Put(key, classesNamed("Pilates"))

	current = current.Add(20 * time.Second)
	got, ok := classesCache.Get(key)
	require.True(t, ok, "overwrite did not reset the expiry clock")
	assert.Equal(t, classesNamed("Pilates"), got)
}

func TestCache_ClubIDDistinguishesKeys(t *testing.T) {
	classesCache := New(30*time.Second, 256)

	withClub := NewKey("2025-01-01 00:00", "2025-01-07 23:59", "club-1")
	withoutClub := NewKey("2025-01-01 00:00", "2025-01-07 23:59", "")

	classesCache.Put(withClub, classesNamed("Yoga"))

	_, ok := classesCache.Get(withoutClub)
	require.False(t, ok, "keys differing only in club id collided")

	got, ok := classesCache.Get(withClub)
	require.True(t, ok)
	assert.Equal(t, classesNamed("Yoga"), got)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	classesCache := New(time.Hour, 3)

	keys := make([]Key, 4)
	for i := range keys {
		keys[i] = NewKey("2025-01-01 00:00", "2025-01-07 23:59", fmt.Sprintf("club-%d", i))
	}

	classesCache.Put(keys[0], classesNamed("a"))
	classesCache.Put(keys[1], classesNamed("b"))
	classesCache.Put(keys[2], classesNamed("c"))

	// touch keys[0] so keys[1] becomes the eviction candidate
	_, ok := classesCache.Get(keys[0])
	require.True(t, ok)

	classesCache.Put(keys[3], classesNamed("d"))

	_, ok = classesCache.Get(keys[1])
	assert.False(t, ok, "least recently used entry survived eviction")

	for _, key := range []Key{keys[0], keys[2], keys[3]} {
		_, ok := classesCache.Get(key)
		assert.True(t, ok, "recently used entry was evicted")
	}
	assert.Equal(t, 3, classesCache.Len())
}
