// Package cache remembers recently seen keys so at-least-once deliveries
// can be processed once.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// RecentSet is a bounded set of keys. Keys expire after ttl and the oldest
// claim is evicted once the set holds maxSize keys.
type RecentSet struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	order   *list.List
}

type entry struct {
	key       string
	expiresAt time.Time
}

func NewRecentSet(maxSize int, ttl time.Duration) *RecentSet {
	if maxSize < 1 {
		maxSize = 1
	}
	return &RecentSet{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Claim records key and reports true, unless key is already held and has
// not expired, in which case it reports false and leaves the set alone.
// Concurrent claims of one key see exactly one winner.
func (s *RecentSet) Claim(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if elem, ok := s.items[key]; ok {
		if !now.After(elem.Value.(*entry).expiresAt) {
			return false
		}
		s.remove(elem)
	}

	s.items[key] = s.order.PushFront(&entry{key: key, expiresAt: now.Add(s.ttl)})
	if s.order.Len() > s.maxSize {
		s.remove(s.order.Back())
	}
	return true
}

// Forget releases key so the next Claim succeeds.
func (s *RecentSet) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[key]; ok {
		s.remove(elem)
	}
}

func (s *RecentSet) remove(elem *list.Element) {
	delete(s.items, elem.Value.(*entry).key)
	s.order.Remove(elem)
}

// Prune drops expired keys and returns how many were dropped.
func (s *RecentSet) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for elem := s.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*entry).expiresAt) {
			s.remove(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// Len returns the number of keys held, expired or not.
func (s *RecentSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
