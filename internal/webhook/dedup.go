package webhook

import (
	"encoding/hex"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/zeebo/blake3"
)

const dedupCacheSize = 4096

// deliveryCache remembers recently seen deliveries so GitLab retries of the
// same hook run the operations once. A delivery whose processing failed is
// forgotten, so a redelivery runs again.
type deliveryCache struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newDeliveryCache(ttl time.Duration) *deliveryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &deliveryCache{seen: expirable.NewLRU[string, struct{}](dedupCacheSize, nil, ttl)}
}

// deliveryID prefers the GitLab delivery uuid and falls back to a hash of the
// event type and body.
func deliveryID(uuid, eventType string, body []byte) string {
	if uuid != "" {
		return uuid
	}
	h := blake3.New()
	_, _ = h.Write([]byte(eventType))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(body)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// firstSeen records id and reports whether it was new.
func (d *deliveryCache) firstSeen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(id) {
		return false
	}
	d.seen.Add(id, struct{}{})
	return true
}

// forget drops id so the next delivery with it is processed.
func (d *deliveryCache) forget(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen.Remove(id)
}
