// Package cart owns the engine's view of the external cart snapshot. The
// store is the single source the engine and coupon validator read from; the
// external cart pushes replacements in and subscribers are told whenever the
// content hash changes.
package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dukerupert/gersemi/internal/domain"
)

// Subscriber is notified synchronously after a snapshot change. The items
// slice is a copy; subscribers may retain it.
type Subscriber func(items []domain.CartItem, hash string)

// Store holds the current cart snapshot.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartItem
	hash  string
	subs  []Subscriber
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{hash: ContentHash(nil)}
}

// Subscribe registers a change observer. Subscribers are invoked in
// registration order, synchronously, outside the store lock.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Replace swaps in a new snapshot and notifies subscribers if the content
// hash changed.
func (s *Store) Replace(items []domain.CartItem) {
	copied := make([]domain.CartItem, len(items))
	copy(copied, items)

	s.mu.Lock()
	s.items = copied
	oldHash := s.hash
	s.hash = ContentHash(copied)
	changed := s.hash != oldHash
	subs := make([]Subscriber, len(s.subs))
	copy(subs, s.subs)
	newHash := s.hash
	s.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(copied, newHash)
	}
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]domain.CartItem, len(s.items))
	copy(copied, s.items)
	return copied
}

// Hash returns the current content hash.
func (s *Store) Hash() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hash
}

// SubtotalCents returns the pre-discount subtotal of the snapshot.
func (s *Store) SubtotalCents() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SubtotalCents(s.items)
}

// HasCombo reports whether the snapshot contains any combo item.
func (s *Store) HasCombo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.HasComboItem(s.items)
}

// ContentHash derives the idempotence guard for a snapshot: one token per
// item (product id, variant id, size, quantity), sorted so line order does
// not matter, joined and hashed. Price changes alone do not alter the hash,
// matching the recomputation trigger of the storefront.
func ContentHash(items []domain.CartItem) string {
	tokens := make([]string, 0, len(items))
	for _, it := range items {
		tokens = append(tokens, fmt.Sprintf("%s|%s|%s|%d", it.ProductID, it.VariantID, it.Size, it.Quantity))
	}
	sort.Strings(tokens)

	sum := sha256.Sum256([]byte(strings.Join(tokens, ";")))
	return hex.EncodeToString(sum[:])
}
