package presentation

import (
	"context"
	"sync"
	"time"

	coreport "github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/core"
	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/port/messenger"
)

// trackedDeposit remembers the chat messages shown for one pending deposit so
// they can be cleaned up when the deposit reaches a terminal state.
type trackedDeposit struct {
	userID    int64
	chatID    int64
	messages  []messenger.MessageRef
	createdAt time.Time
}

// MessageTracker is an in-memory registry of deposit UI messages, keyed by
// deposit id. Entries survive only for the life of the process; a restart
// merely leaves stale QR messages behind, it never affects the ledger.
type MessageTracker struct {
	messenger    messenger.Messenger
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu      sync.Mutex
	entries map[string]*trackedDeposit
}

// NewMessageTracker creates a new message tracker
func NewMessageTracker(m messenger.Messenger, timeProvider coreport.TimeProvider, logger coreport.Logger) *MessageTracker {
	return &MessageTracker{
		messenger:    m,
		timeProvider: timeProvider,
		logger:       logger,
		entries:      make(map[string]*trackedDeposit),
	}
}

// Track registers a message belonging to the deposit's UI
func (t *MessageTracker) Track(depositID string, userID int64, ref messenger.MessageRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[depositID]
	if !exists {
		entry = &trackedDeposit{
			userID:    userID,
			chatID:    ref.ChatID,
			createdAt: t.timeProvider.Now(),
		}
		t.entries[depositID] = entry
	}
	entry.messages = append(entry.messages, ref)
}

// ChatFor returns the chat the deposit UI lives in, or false when untracked
func (t *MessageTracker) ChatFor(depositID string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, exists := t.entries[depositID]
	if !exists {
		return 0, false
	}
	return entry.chatID, true
}

// Cleanup deletes every tracked message for the deposit and drops the entry.
// Deletion failures are swallowed; the messages just stay visible.
func (t *MessageTracker) Cleanup(ctx context.Context, depositID string) {
	t.mu.Lock()
	entry, exists := t.entries[depositID]
	if exists {
		delete(t.entries, depositID)
	}
	t.mu.Unlock()

	if !exists {
		return
	}

	for _, ref := range entry.messages {
		if err := t.messenger.DeleteMessage(ctx, ref); err != nil {
			t.logger.Debug("Failed to delete tracked message", map[string]any{
				"deposit_id": depositID,
				"chat_id":    ref.ChatID,
				"message_id": ref.MessageID,
				"error":      err.Error(),
			})
		}
	}

	t.logger.Debug("Deposit messages cleaned up", map[string]any{
		"deposit_id": depositID,
		"messages":   len(entry.messages),
	})
}

// Prune drops entries older than the retention period without touching the
// chat. Covers deposits whose terminal transition was never observed here.
func (t *MessageTracker) Prune(retention time.Duration) int {
	now := t.timeProvider.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	pruned := 0
	for id, entry := range t.entries {
		if now.Sub(entry.createdAt) > retention {
			delete(t.entries, id)
			pruned++
		}
	}

	if pruned > 0 {
		t.logger.Debug("Pruned stale tracked deposits", map[string]any{"count": pruned})
	}
	return pruned
}

// Size returns the number of tracked deposits
func (t *MessageTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// RunPruner prunes on an interval until the context is cancelled
func (t *MessageTracker) RunPruner(ctx context.Context, interval, retention time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.timeProvider.After(interval):
			t.Prune(retention)
		}
	}
}
