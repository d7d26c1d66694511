package bot

import (
	"context"
	"strconv"
)

// Button is one inline affordance; Data is a command payload (see
// internal/command).
type Button struct {
	Text string
	Data string
}

// Update is one inbound event, already flattened by the transport adapter.
// For button presses, ChatID/MessageID identify the message the button was
// attached to.
type Update struct {
	ID       int64
	UserID   int64
	Username string
	ChatID   int64

	MessageID int
	Text      string
	PhotoRef  string

	CallbackID   string
	CallbackData string

	// set when the message is a forward of a channel post
	ForwardChannelID string
	ForwardMessageID int
}

// Transport is the narrow chat-transport surface the bot consumes. Chat ids
// are strings so private chats and channels go through the same methods.
type Transport interface {
	SendMessage(ctx context.Context, chat, text string, keyboard [][]Button) (int, error)
	SendPhoto(ctx context.Context, chat, photoRef, caption string, keyboard [][]Button) (int, error)
	EditButtons(ctx context.Context, chat string, messageID int, keyboard [][]Button) error
	DeleteMessage(ctx context.Context, chat string, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	CopyMessage(ctx context.Context, toChat, fromChat string, messageID int) (int, error)
	React(ctx context.Context, chat string, messageID int, emoji string) error
	Username() string
}

// Chat renders a private-chat id for Transport calls.
func Chat(userID int64) string { return strconv.FormatInt(userID, 10) }
