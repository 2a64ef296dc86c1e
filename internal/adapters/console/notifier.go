// Package console is a Notifier that writes messages to the structured
// log. It stands in for a chat platform in development and in tests of
// the full wiring.
package console

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

// Notifier logs every message and hands back a fresh handle, so the
// reaction plumbing stays exercisable without a platform connection.
type Notifier struct {
	log *slog.Logger
}

func NewNotifier(log *slog.Logger) *Notifier {
	return &Notifier{log: log}
}

func (n *Notifier) SendDirect(ctx context.Context, user domain.UserID, msg notify.Message, options ...notify.ResponseOption) (notify.MessageHandle, error) {
	handle := notify.MessageHandle(uuid.NewString())
	n.log.Info("direct message",
		"to", user, "handle", handle, "title", msg.Title,
		"description", msg.Description, "options", len(options))
	logFields(n.log, msg)
	return handle, nil
}

func (n *Notifier) SendChannel(ctx context.Context, channel domain.ChannelID, msg notify.Message) (notify.MessageHandle, error) {
	handle := notify.MessageHandle(uuid.NewString())
	n.log.Info("channel message",
		"channel", channel, "handle", handle, "title", msg.Title,
		"description", msg.Description)
	logFields(n.log, msg)
	return handle, nil
}

func logFields(log *slog.Logger, msg notify.Message) {
	for _, f := range msg.Fields {
		log.Info("message field", "title", msg.Title, "name", f.Name, "value", f.Value)
	}
}
