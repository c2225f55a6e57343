package irctk

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylef/irctk/store"
)

func TestSeenCache(t *testing.T) {
	c := newSeenCache(nil)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := c.lookup(ctx, "kylef")
	require.NoError(t, err)
	assert.False(t, ok)

	c.record(seenEntry{Nick: "Kyle[f]", Channel: "#test", Text: "hi", Time: at})
	e, ok, err := c.lookup(ctx, "kyle{F}")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hi", e.Text)

	c.forget("KYLE[F]")
	_, ok, err = c.lookup(ctx, "kyle[f]")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSeenCacheStoreFallback(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "irctk.db"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.AddMessage(ctx, store.Message{Channel: "#test", Nick: "doe", Text: "bye", Time: at}))

	c := newSeenCache(st)
	e, ok, err := c.lookup(ctx, "Doe")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "#test", e.Channel)
	assert.Equal(t, "bye", e.Text)
	assert.True(t, e.Time.Equal(at))

	_, ok, err = c.lookup(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}
