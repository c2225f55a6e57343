package irctk

import (
	"context"
	"errors"
	"time"

	"github.com/maypok86/otter/v2"

	"github.com/kylef/irctk/irc"
	"github.com/kylef/irctk/store"
)

const (
	seenCacheSize = 10_000
	seenCacheTTL  = 24 * time.Hour
)

type seenEntry struct {
	Nick    string
	Channel string
	Text    string
	Time    time.Time
}

// seenCache remembers the last message of every nick. Entries that fell out
// of the cache are looked up in the store, when there is one.
type seenCache struct {
	cache *otter.Cache[string, seenEntry]
	store *store.Store
}

func newSeenCache(st *store.Store) *seenCache {
	return &seenCache{
		cache: otter.Must(&otter.Options[string, seenEntry]{
			MaximumSize:      seenCacheSize,
			ExpiryCalculator: otter.ExpiryWriting[string, seenEntry](seenCacheTTL),
		}),
		store: st,
	}
}

func seenKey(nick string) string {
	return irc.CasemapRFC1459(nick)
}

func (c *seenCache) record(e seenEntry) {
	c.cache.Set(seenKey(e.Nick), e)
}

func (c *seenCache) forget(nick string) {
	c.cache.Invalidate(seenKey(nick))
}

func (c *seenCache) lookup(ctx context.Context, nick string) (seenEntry, bool, error) {
	if e, ok := c.cache.GetIfPresent(seenKey(nick)); ok {
		return e, true, nil
	}
	if c.store == nil {
		return seenEntry{}, false, nil
	}

	msg, err := c.store.LastMessageFrom(ctx, nick)
	if errors.Is(err, store.ErrNotFound) {
		return seenEntry{}, false, nil
	} else if err != nil {
		return seenEntry{}, false, err
	}
	e := seenEntry{
		Nick:    msg.Nick,
		Channel: msg.Channel,
		Text:    msg.Text,
		Time:    msg.Time,
	}
	c.record(e)
	return e, true, nil
}
