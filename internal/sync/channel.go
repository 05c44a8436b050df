package sync

import (
	"bytes"
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"daykeep/internal/store"
)

// Channel wires a Store to a Remote. Local→remote runs through Publish,
// installed as the store's publisher; remote→local runs through a polling
// subscription that hands divergent payloads to the store's absorb path.
type Channel struct {
	store  *store.Store
	remote Remote
	writer string
	// notify signals collaborators to re-render after an absorb.
	notify func()

	mu      sync.Mutex
	lastRev int64

	cancel context.CancelFunc
}

func NewChannel(s *store.Store, r Remote, notify func()) *Channel {
	return &Channel{
		store:  s,
		remote: r,
		writer: uuid.NewString(),
		notify: notify,
	}
}

// Start launches the subscription goroutine polling the remote document at
// the given cadence. It returns immediately.
func (c *Channel) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ctx, c.cancel = context.WithCancel(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			c.poll(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop tears down the subscription; no further remote reads or writes occur
// until a new channel is started.
func (c *Channel) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if err := c.remote.Close(); err != nil {
		log.Printf("sync: close remote: %v", err)
	}
}

// Publish pushes the snapshot to the remote document. Failures are logged
// and not retried; local state remains authoritative.
func (c *Channel) Publish(state store.AppState) {
	payload, err := store.Encode(state)
	if err != nil {
		log.Printf("sync: encode snapshot: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rev, err := c.remote.Save(ctx, payload, c.writer)
	if err != nil {
		log.Printf("sync: publish failed: %v", err)
		return
	}
	c.mu.Lock()
	c.lastRev = rev
	c.mu.Unlock()
}

// poll performs one remote→local pass: skip our own writes and already-seen
// revisions, then absorb any payload that differs from the local snapshot.
func (c *Channel) poll(ctx context.Context) {
	doc, err := c.remote.Load(ctx)
	if err != nil {
		log.Printf("sync: subscription read failed: %v", err)
		return
	}
	if doc == nil {
		return
	}

	c.mu.Lock()
	seen := doc.Revision <= c.lastRev
	c.mu.Unlock()
	if seen {
		return
	}

	if doc.Writer == c.writer {
		c.markSeen(doc.Revision)
		return
	}

	incoming, err := store.Decode(doc.Payload)
	if err != nil {
		log.Printf("sync: remote payload rejected: %v", err)
		c.markSeen(doc.Revision)
		return
	}

	local, err := store.Encode(c.store.Snapshot())
	if err != nil {
		log.Printf("sync: encode local snapshot: %v", err)
		return
	}
	canonical, _ := store.Encode(incoming)
	if bytes.Equal(local, canonical) {
		c.markSeen(doc.Revision)
		return
	}

	// Document-granularity last-writer-wins: replace wholesale through the
	// absorb path, which persists locally and never re-publishes.
	if err := c.store.Absorb(incoming); err != nil {
		log.Printf("sync: absorb failed: %v", err)
		return
	}
	c.markSeen(doc.Revision)
	if c.notify != nil {
		c.notify()
	}
}

func (c *Channel) markSeen(rev int64) {
	c.mu.Lock()
	if rev > c.lastRev {
		c.lastRev = rev
	}
	c.mu.Unlock()
}
