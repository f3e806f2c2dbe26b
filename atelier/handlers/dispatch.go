package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/atelier-bot/atelier/atelier"
	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/moderation"
)

// dispatch runs one event handler as an independent unit of work. Panics and
// errors stop at this boundary and go to the operator reporter; they never
// reach the gateway loop or other in-flight events.
func dispatch(reporter *moderation.Reporter, name string, fn func(ctx context.Context) error, eventContext ...any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.EventHandlerTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				reporter.ReportPanic(name, r, eventContext...)
			}
		}()

		if err := fn(ctx); err != nil {
			if errors.Is(err, atelier.ErrUnknownCommand) {
				slog.Debug("Unknown command ignored", slog.String("handler", name))
				return
			}
			reporter.ReportError(name, err, eventContext...)
		}
	}()
}
