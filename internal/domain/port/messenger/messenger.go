package messenger

import (
	"context"

	"github.com/ardiansyah-dev/gamestore-bot/internal/domain/entity"
)

// Button is one inline keyboard button. Either Data (callback payload) or URL
// is set, never both.
type Button struct {
	Label string
	Data  string
	URL   string
}

// Keyboard is an inline keyboard laid out as rows of buttons
type Keyboard [][]Button

// MessageRef identifies a chat message so it can be edited or deleted later
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Messenger exposes the send/edit/delete primitives of the chat transport.
// The deposit core renders its lifecycle messages through this port only.
type Messenger interface {
	// SendText sends a Markdown-formatted text message
	SendText(ctx context.Context, chatID int64, text string, keyboard Keyboard) (MessageRef, error)

	// SendPhoto sends a PNG image with a caption
	SendPhoto(ctx context.Context, chatID int64, photo []byte, caption string, keyboard Keyboard) (MessageRef, error)

	// EditText replaces the text of an existing message
	EditText(ctx context.Context, ref MessageRef, text string, keyboard Keyboard) error

	// DeleteMessage removes a message. Implementations swallow "already
	// deleted" style failures and return nil for them.
	DeleteMessage(ctx context.Context, ref MessageRef) error
}

// Notifier delivers the user-visible deposit lifecycle outcomes and cleans up
// stale deposit UI. Implementations are best effort: a failed notification
// never rolls back a ledger transition.
type Notifier interface {
	// DepositApproved tells the user their balance was credited
	DepositApproved(ctx context.Context, deposit *entity.Deposit, newBalance int64)

	// DepositExpired tells the user the payment window closed
	DepositExpired(ctx context.Context, deposit *entity.Deposit)

	// DepositCancelled confirms a user-initiated cancellation
	DepositCancelled(ctx context.Context, deposit *entity.Deposit)
}
