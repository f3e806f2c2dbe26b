package handlers

import (
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/events"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
)

func onThreadCreate(b *atelier.Bot) func(e *events.ThreadCreate) {
	return func(e *events.ThreadCreate) {
		if !isTicketThread(b, e) {
			return
		}
		opener := e.ThreadMember.UserID
		b.State.TrackTicket(e.ThreadID, opener)
		slog.Info("Tracking ticket thread",
			slog.String("type", "mod"),
			slog.String("thread_id", e.ThreadID.String()),
			slog.String("opener_id", opener.String()))
	}
}

func onThreadDelete(b *atelier.Bot) func(e *events.ThreadDelete) {
	return func(e *events.ThreadDelete) {
		b.State.ForgetTicket(e.ThreadID)
	}
}

func isTicketThread(b *atelier.Bot, e *events.ThreadCreate) bool {
	if e.ParentID == b.Cfg.Channels.TicketParent {
		return true
	}
	return strings.HasPrefix(e.Thread.Name(), config.TicketPrefix)
}
