package service

import (
	"sync"
	"time"
)

// TokenDenylist tracks revoked token ids until their natural expiry. It is
// process-wide in-memory state, cleared on restart; entries that outlive the
// process would have expired anyway once their exp passes.
type TokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewTokenDenylist creates an empty denylist.
func NewTokenDenylist() *TokenDenylist {
	return &TokenDenylist{revoked: make(map[string]time.Time)}
}

// Revoke marks a token id as revoked until expiresAt. Revoking the same id
// twice is a no-op.
func (d *TokenDenylist) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = expiresAt
}

// IsRevoked reports whether the token id is currently revoked. Expired
// entries are swept out lazily on each call.
func (d *TokenDenylist) IsRevoked(tokenID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, exp := range d.revoked {
		if now.After(exp) {
			delete(d.revoked, id)
		}
	}

	_, revoked := d.revoked[tokenID]
	return revoked
}

// Len returns the number of live denylist entries.
func (d *TokenDenylist) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.revoked)
}
