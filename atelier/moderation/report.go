package moderation

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/atelier-bot/atelier/atelier/config"
	"github.com/atelier-bot/atelier/atelier/logger"
)

// Reporter forwards unhandled faults to the operator channel. It is the sink
// for every event handler's error boundary; a failure to report must never
// take anything else down, so its own REST errors are only logged.
type Reporter struct {
	rest            Rest
	operatorChannel snowflake.ID
}

func NewReporter(r Rest, operatorChannel snowflake.ID) *Reporter {
	return &Reporter{rest: r, operatorChannel: operatorChannel}
}

// ReportError posts a fault with the context it was processing.
func (r *Reporter) ReportError(source string, err error, context ...any) {
	logger.LogError("Handler fault",
		err,
		append([]any{slog.String("source", source)}, context...)...)

	embed := discord.NewEmbedBuilder().
		SetTitle("Handler fault").
		SetDescription(truncate(err.Error(), 2000)).
		SetColor(config.ErrorColor).
		AddField("Source", source, true).
		SetTimestamp(time.Now())
	for i := 0; i+1 < len(context); i += 2 {
		embed.AddField(fmt.Sprint(context[i]), truncate(fmt.Sprint(context[i+1]), 1024), true)
	}

	if _, postErr := r.rest.CreateMessage(r.operatorChannel, discord.NewMessageCreateBuilder().
		SetEmbeds(embed.Build()).
		Build()); postErr != nil {
		slog.Error("Failed to deliver fault report",
			slog.String("type", "error"),
			slog.Any("error", postErr))
	}
}

// ReportPanic posts a recovered panic with a trimmed stack trace.
func (r *Reporter) ReportPanic(source string, recovered any, context ...any) {
	stack := truncate(string(debug.Stack()), 1500)
	r.ReportError(source, fmt.Errorf("panic: %v", recovered), append(context, "stack", stack)...)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
