package config

import "time"

// UI constants
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00

	EmbedDefaultColor = 0x2B2D31
)

// Moderation policy constants
const (
	// Minimum pixel dimensions for an attachment posted in the art channel.
	MinArtImageWidth  = 40
	MinArtImageHeight = 40

	// Reaction added to accepted art posts.
	AcceptReaction = "\U0001F4CC" // 📌

	// Badge granted for an accepted art post and revoked when the post is removed.
	CreativeBadge = "Creative"

	// Threads whose name starts with this prefix are treated as support tickets.
	TicketPrefix = "ticket-"
)

// Database and performance constants
const (
	DefaultQueryTimeout = 30 * time.Second
	EventHandlerTimeout = 2 * time.Minute
	NetworkDialTimeout  = 5 * time.Second

	// Recent messages kept for reconstructing audit entries of deleted messages.
	MessageCacheSize = 2048
)
