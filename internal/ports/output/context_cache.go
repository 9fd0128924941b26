package output

import "ai-chat-backend/internal/domain"

// ContextCache interface - Output port
// Bounded in-process store mapping a (user, conversation) pair to a
// recency-ordered, length-capped textual context used as LLM prompt
// history. Implementations must be safe for concurrent use; "absent"
// covers both never-stored and expired records.
type ContextCache interface {
	// AddMessage appends a turn to the conversation's history, creating
	// the record on first use. Always succeeds.
	AddMessage(userID, conversationID string, role domain.ChatRole, content string)

	// GetContext returns the trimmed context for the pair, or false when
	// the record is missing or expired. A hit counts as an access.
	GetContext(userID, conversationID string) (string, bool)

	// GetMessages returns a copy of the raw turn sequence, with the same
	// presence and refresh semantics as GetContext.
	GetMessages(userID, conversationID string) ([]domain.Turn, bool)

	// ClearConversation removes the record if present and reports whether
	// anything was removed.
	ClearConversation(userID, conversationID string) bool

	// ClearExpired proactively removes every expired record. Not needed
	// for correctness; expiry is also enforced lazily on access.
	ClearExpired()

	// Stats returns point-in-time cache counters
	Stats() domain.CacheStats
}
