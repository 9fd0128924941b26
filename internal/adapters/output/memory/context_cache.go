package memory

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/internal/ports/output"
)

// Compile-time check to ensure ConversationContextCache implements ContextCache interface
var _ output.ContextCache = (*ConversationContextCache)(nil)

// conversationRecord holds one (user, conversation) pair's cached history.
// Owned exclusively by the cache and only touched under its lock; the
// original identifiers are kept alongside the hashed key so two pairs can
// never silently share a record.
type conversationRecord struct {
	key            string
	userID         string
	conversationID string
	turns          []domain.Turn
	context        string
	lastAccess     time.Time
	createdAt      time.Time
}

// ConversationContextCache struct - Output adapter for in-process context storage.
// Combines a hash index with a doubly linked recency list: front of the
// list is most recently used, back is the eviction candidate. Because
// every access moves a record to the front, expired records always form a
// contiguous suffix at the back, so the lazy purge walks from the back and
// stops at the first live record.
//
// A single mutex guards the whole structure. No operation does I/O under
// the lock, so contention is bounded by in-memory work.
type ConversationContextCache struct {
	mu               sync.Mutex
	index            map[string]*list.Element
	order            *list.List
	maxSize          int
	ttl              time.Duration
	maxContextLength int
}

// NewConversationContextCache creates a cache with fixed limits.
// maxSize: maximum number of distinct conversation records
// ttl: idle duration after which a record is considered expired
// maxContextLength: maximum characters retained in the derived context
func NewConversationContextCache(maxSize int, ttl time.Duration, maxContextLength int) *ConversationContextCache {
	return &ConversationContextCache{
		index:            make(map[string]*list.Element),
		order:            list.New(),
		maxSize:          maxSize,
		ttl:              ttl,
		maxContextLength: maxContextLength,
	}
}

// cacheKey derives the lookup key from the identifier pair. The NUL
// separator cannot appear in an identifier, so two distinct pairs never
// hash to the same key. The hash is never reversed.
func cacheKey(userID, conversationID string) string {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(conversationID))
	return hex.EncodeToString(h.Sum(nil))
}

// AddMessage appends a turn to the record for the pair, creating the
// record on first use. Expired records are purged before the capacity
// check, so a not-yet-purged expired record never forces an eviction.
// A no-op content is still appended; the operation cannot fail.
func (c *ConversationContextCache) AddMessage(userID, conversationID string, role domain.ChatRole, content string) {
	key := cacheKey(userID, conversationID)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked(now)

	turn := domain.Turn{Role: role, Content: content, Timestamp: now}

	if elem, exists := c.index[key]; exists {
		rec := elem.Value.(*conversationRecord)
		rec.turns = append(rec.turns, turn)
		rec.context = trimContext(renderContext(rec.turns), c.maxContextLength)
		rec.lastAccess = now
		c.order.MoveToFront(elem)
		return
	}

	rec := &conversationRecord{
		key:            key,
		userID:         userID,
		conversationID: conversationID,
		turns:          []domain.Turn{turn},
		lastAccess:     now,
		createdAt:      now,
	}
	rec.context = trimContext(renderContext(rec.turns), c.maxContextLength)
	c.index[key] = c.order.PushFront(rec)

	if c.order.Len() > c.maxSize {
		c.evictOldestLocked()
	}
}

// GetContext returns the trimmed context for the pair. A missing record
// and an expired one are indistinguishable to the caller; expired records
// are deleted as a side effect of the check. A hit refreshes the record's
// recency, so a read counts as an access for both LRU and TTL purposes.
func (c *ConversationContextCache) GetContext(userID, conversationID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.lookupLocked(cacheKey(userID, conversationID), time.Now())
	if rec == nil {
		return "", false
	}
	return rec.context, true
}

// GetMessages returns a copy of the raw turn sequence, with the same
// presence, expiry and refresh semantics as GetContext. The copy keeps
// callers from observing a concurrent AddMessage.
func (c *ConversationContextCache) GetMessages(userID, conversationID string) ([]domain.Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.lookupLocked(cacheKey(userID, conversationID), time.Now())
	if rec == nil {
		return nil, false
	}
	turns := make([]domain.Turn, len(rec.turns))
	copy(turns, rec.turns)
	return turns, true
}

// ClearConversation removes the record if present and reports whether
// anything was removed. Idempotent; no expiry check needed.
func (c *ConversationContextCache) ClearConversation(userID, conversationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.index[cacheKey(userID, conversationID)]
	if !exists {
		return false
	}
	c.removeLocked(elem)
	return true
}

// ClearExpired removes every record whose idle time exceeds the TTL.
// Provided for proactive cleanup (e.g. a background sweeper); the lazy
// per-access purge already keeps the cache correct without it.
func (c *ConversationContextCache) ClearExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked(time.Now())
}

// Stats returns point-in-time counters. TotalConversations counts every
// stored record including expired-but-unpurged ones; the message and
// character totals are summed over active records only.
func (c *ConversationContextCache) Stats() domain.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	stats := domain.CacheStats{TotalConversations: c.order.Len()}
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		rec := elem.Value.(*conversationRecord)
		if now.Sub(rec.lastAccess) <= c.ttl {
			stats.ActiveConversations++
			stats.TotalMessages += len(rec.turns)
			stats.TotalChars += utf8.RuneCountInString(rec.context)
		}
	}
	return stats
}

// lookupLocked finds a live record, deleting it instead when expired.
// Hits are moved to the most-recently-used end.
func (c *ConversationContextCache) lookupLocked(key string, now time.Time) *conversationRecord {
	elem, exists := c.index[key]
	if !exists {
		return nil
	}
	rec := elem.Value.(*conversationRecord)
	if now.Sub(rec.lastAccess) > c.ttl {
		c.removeLocked(elem)
		return nil
	}
	rec.lastAccess = now
	c.order.MoveToFront(elem)
	return rec
}

// purgeExpiredLocked removes the contiguous run of expired records at the
// least-recently-used end. Amortized O(k) in the number expired.
func (c *ConversationContextCache) purgeExpiredLocked(now time.Time) {
	for {
		elem := c.order.Back()
		if elem == nil {
			return
		}
		rec := elem.Value.(*conversationRecord)
		if now.Sub(rec.lastAccess) <= c.ttl {
			return
		}
		c.removeLocked(elem)
	}
}

func (c *ConversationContextCache) evictOldestLocked() {
	if elem := c.order.Back(); elem != nil {
		c.removeLocked(elem)
	}
}

func (c *ConversationContextCache) removeLocked(elem *list.Element) {
	rec := c.order.Remove(elem).(*conversationRecord)
	delete(c.index, rec.key)
}

// renderContext concatenates the turns as "{role}: {content}" lines in
// chronological order.
func renderContext(turns []domain.Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(turn.Role))
		b.WriteString(": ")
		b.WriteString(turn.Content)
	}
	return b.String()
}

// trimContext keeps the last max characters, dropping the oldest text
// first. Counting is rune-based so multibyte content is never split.
func trimContext(context string, max int) string {
	runes := []rune(context)
	if len(runes) <= max {
		return context
	}
	return string(runes[len(runes)-max:])
}
