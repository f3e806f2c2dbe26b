package migration

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/atelier-bot/atelier/atelier/database/repositories"
)

type recordedGrant struct {
	DiscordID string
	Username  string
	Badge     string
}

type fakeBadgeRepo struct {
	grants []recordedGrant
}

func (f *fakeBadgeRepo) Grant(_ context.Context, discordID, username, badgeName string) error {
	f.grants = append(f.grants, recordedGrant{discordID, username, badgeName})
	return nil
}

func (f *fakeBadgeRepo) Revoke(context.Context, string, string) error { return nil }

func (f *fakeBadgeRepo) ListBadges(context.Context, string) ([]repositories.OwnedBadge, error) {
	return nil, nil
}

func dumpBytes(t *testing.T, users ...LegacyUser) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, u := range users {
		doc, err := bson.Marshal(u)
		require.NoError(t, err)
		buf.Write(doc)
	}
	return buf.Bytes()
}

func TestImportUsers(t *testing.T) {
	dump := dumpBytes(t,
		LegacyUser{DiscordID: "111", Username: "ana", Achievements: []string{"creative", "creative", "helper"}},
		LegacyUser{DiscordID: "222", Username: "bo", Achievements: []string{"unknown-thing", "REPORTER"}},
		LegacyUser{Username: "ghost"}, // no id, skipped entirely
	)

	repo := &fakeBadgeRepo{}
	imp := NewImporter(repo, t.TempDir())
	stats, err := imp.importUsers(context.Background(), bufio.NewReader(bytes.NewReader(dump)))
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 4, stats.Grants)
	assert.Equal(t, 2, stats.Skipped)

	assert.Equal(t, []recordedGrant{
		{"111", "ana", "Creative"},
		{"111", "ana", "Creative"},
		{"111", "ana", "Helper"},
		{"222", "bo", "Reporter"},
	}, repo.grants)
}

func TestImportAllReadsDumpFile(t *testing.T) {
	dir := t.TempDir()
	dump := dumpBytes(t, LegacyUser{DiscordID: "9", Username: "cleo", Achievements: []string{"gallery"}})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.bson"), dump, 0o644))

	repo := &fakeBadgeRepo{}
	stats, err := NewImporter(repo, dir).ImportAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Grants)
	assert.Equal(t, []recordedGrant{{"9", "cleo", "Curator"}}, repo.grants)
}

func TestReadDocumentRejectsGarbage(t *testing.T) {
	// A length smaller than the minimum document size is corrupt.
	_, err := readDocument(bufio.NewReader(bytes.NewReader([]byte{1, 0, 0, 0, 0})))
	assert.Error(t, err)
}

func TestBadgeForAchievement(t *testing.T) {
	name, ok := BadgeForAchievement("  Creative ")
	assert.True(t, ok)
	assert.Equal(t, "Creative", name)

	_, ok = BadgeForAchievement("does-not-exist")
	assert.False(t, ok)
}
