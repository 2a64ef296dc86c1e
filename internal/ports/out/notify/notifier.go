package notify

import (
	"context"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// MessageHandle identifies a sent message so later interactions
// (reactions, quick replies) can be tied back to it.
type MessageHandle string

// Field is one labeled section of a rich message.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is a platform-neutral rich message ("embed" on most chat
// platforms).
type Message struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
}

// ResponseOption is a quick-reply option attached to a direct message.
type ResponseOption string

const (
	OptionConfirmSafe ResponseOption = "confirm_safe"
	OptionRequestHelp ResponseOption = "request_help"

	OptionSaveTrip   ResponseOption = "save_trip"
	OptionQuickStart ResponseOption = "quick_start"
	OptionStartTrip  ResponseOption = "start_trip"
	OptionStopTrip   ResponseOption = "stop_trip"
	OptionCheckIn    ResponseOption = "check_in"
)

// Notifier is the outbound notification sink. The core only requires
// at-least-one-shot delivery attempts: delivery failures are logged by
// callers, not retried.
type Notifier interface {
	// SendDirect delivers a direct message to a user, optionally
	// offering quick-reply response options.
	SendDirect(ctx context.Context, user domain.UserID, msg Message, options ...ResponseOption) (MessageHandle, error)

	// SendChannel delivers a message to a channel.
	SendChannel(ctx context.Context, channel domain.ChannelID, msg Message) (MessageHandle, error)
}
