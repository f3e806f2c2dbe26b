// Package migration imports profile data from the predecessor bot's BSON
// dumps into the badge store. It runs once, before the gateway opens.
package migration

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/atelier-bot/atelier/atelier/database/repositories"
)

const maxDocumentSize = 16 * 1024 * 1024

// LegacyUser mirrors the predecessor bot's user document shape.
type LegacyUser struct {
	DiscordID    string   `bson:"discordid"`
	Username     string   `bson:"username"`
	Achievements []string `bson:"achievements"`
}

// legacyBadges maps the old achievement keys to catalog badge names. Unknown
// achievements are skipped.
var legacyBadges = map[string]string{
	"creative":  "Creative",
	"artpost":   "Creative",
	"curator":   "Curator",
	"gallery":   "Curator",
	"helper":    "Helper",
	"supporter": "Helper",
	"reporter":  "Reporter",
}

// BadgeForAchievement resolves a legacy achievement key to a badge name.
func BadgeForAchievement(achievement string) (string, bool) {
	name, ok := legacyBadges[strings.ToLower(strings.TrimSpace(achievement))]
	return name, ok
}

type ImportStats struct {
	Users   int
	Grants  int
	Skipped int
}

type Importer struct {
	badges  repositories.BadgeRepository
	dataDir string
}

func NewImporter(badges repositories.BadgeRepository, dataDir string) *Importer {
	return &Importer{badges: badges, dataDir: dataDir}
}

// ImportAll replays the users dump through the normal grant path, so re-runs
// add up the same way repeated grants do.
func (i *Importer) ImportAll(ctx context.Context) (ImportStats, error) {
	path := filepath.Join(i.dataDir, "users.bson")
	f, err := os.Open(path)
	if err != nil {
		return ImportStats{}, fmt.Errorf("failed to open legacy dump: %w", err)
	}
	defer f.Close()

	stats, err := i.importUsers(ctx, bufio.NewReader(f))
	if err != nil {
		return stats, err
	}

	slog.Info("Legacy import finished",
		slog.String("type", "db"),
		slog.Int("users", stats.Users),
		slog.Int("grants", stats.Grants),
		slog.Int("skipped", stats.Skipped))
	return stats, nil
}

func (i *Importer) importUsers(ctx context.Context, r *bufio.Reader) (ImportStats, error) {
	var stats ImportStats
	for {
		doc, err := readDocument(r)
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		var user LegacyUser
		if err := bson.Unmarshal(doc, &user); err != nil {
			return stats, fmt.Errorf("failed to decode legacy user: %w", err)
		}
		if user.DiscordID == "" {
			stats.Skipped++
			continue
		}

		stats.Users++
		for _, achievement := range user.Achievements {
			badge, ok := BadgeForAchievement(achievement)
			if !ok {
				stats.Skipped++
				continue
			}
			if err := i.badges.Grant(ctx, user.DiscordID, user.Username, badge); err != nil {
				return stats, fmt.Errorf("failed to grant %s to %s: %w", badge, user.DiscordID, err)
			}
			stats.Grants++
		}
	}
}

// readDocument reads one BSON document from a dump stream. The first four
// bytes of a document carry its total length, little endian, including the
// length itself.
func readDocument(r *bufio.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("truncated document header: %w", err)
		}
		return nil, err
	}

	docLen := int(int32(binary.LittleEndian.Uint32(lenBuf[:])))
	if docLen < 5 || docLen > maxDocumentSize {
		return nil, fmt.Errorf("invalid document length %d", docLen)
	}

	doc := make([]byte, docLen)
	copy(doc, lenBuf[:])
	if _, err := io.ReadFull(r, doc[4:]); err != nil {
		return nil, fmt.Errorf("truncated document: %w", err)
	}
	return doc, nil
}
