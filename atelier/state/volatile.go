// Package state holds the bot's process-lifetime in-memory state. Nothing in
// here survives a restart.
package state

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/puzpuzpuz/xsync/v3"
)

// Volatile is shared by all event handlers and must tolerate concurrent access.
type Volatile struct {
	// Message ids deleted by the bot itself, so the delete-event handler can
	// tell self-initiated deletions apart from external ones. Entries that are
	// never consumed stay for the process lifetime; the volume is bounded by
	// the delete rate.
	selfDeleted *xsync.MapOf[snowflake.ID, struct{}]

	// Ticket thread id -> id of the user who opened it.
	tickets *xsync.MapOf[snowflake.ID, snowflake.ID]
}

func NewVolatile() *Volatile {
	return &Volatile{
		selfDeleted: xsync.NewMapOf[snowflake.ID, struct{}](),
		tickets:     xsync.NewMapOf[snowflake.ID, snowflake.ID](),
	}
}

// MarkSelfDeleted records a message id the bot is about to delete. Call this
// before the REST delete, otherwise the gateway delete event can race ahead of
// the record.
func (v *Volatile) MarkSelfDeleted(messageID snowflake.ID) {
	v.selfDeleted.Store(messageID, struct{}{})
}

// ConsumeSelfDeleted reports whether the id was marked as a self deletion and
// removes it. Each mark is consumed at most once; a second delete event for
// the same id counts as external.
func (v *Volatile) ConsumeSelfDeleted(messageID snowflake.ID) bool {
	_, ok := v.selfDeleted.LoadAndDelete(messageID)
	return ok
}

// TrackTicket associates a ticket thread with the user who opened it.
func (v *Volatile) TrackTicket(threadID snowflake.ID, openerID snowflake.ID) {
	v.tickets.Store(threadID, openerID)
}

// TicketOpener returns the opener of a tracked ticket thread.
func (v *Volatile) TicketOpener(threadID snowflake.ID) (snowflake.ID, bool) {
	return v.tickets.Load(threadID)
}

func (v *Volatile) ForgetTicket(threadID snowflake.ID) {
	v.tickets.Delete(threadID)
}
