package moderation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func imageAttachment(w, h int) discord.Attachment {
	return discord.Attachment{
		ContentType: strPtr("image/png"),
		Width:       intPtr(w),
		Height:      intPtr(h),
	}
}

func TestEvaluateNoAttachments(t *testing.T) {
	policy := NewPolicy(NewAllowlist("https://trusted-site.example", "artstation.com"))

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"allowlisted link", "check out https://trusted-site.example/art123", true},
		{"second domain", "new piece on artstation.com/artwork/xyz", true},
		{"no link", "look at my art!", false},
		{"unknown domain", "https://random.example/pic", false},
		{"case sensitive", "HTTPS://TRUSTED-SITE.EXAMPLE/art", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := policy.Evaluate(discord.Message{Content: tt.content})
			assert.Equal(t, tt.want, v.Accepted)
			if !tt.want {
				assert.Equal(t, ReasonNoSource, v.Reason)
			}
		})
	}
}

func TestEvaluateAttachments(t *testing.T) {
	policy := NewPolicy(NewAllowlist())

	tests := []struct {
		name        string
		attachments []discord.Attachment
		want        bool
	}{
		{"large image", []discord.Attachment{imageAttachment(400, 300)}, true},
		{"exactly at minimum", []discord.Attachment{imageAttachment(40, 40)}, true},
		{"too narrow", []discord.Attachment{imageAttachment(39, 100)}, false},
		{"too short", []discord.Attachment{imageAttachment(100, 20)}, false},
		{"tiny", []discord.Attachment{imageAttachment(20, 20)}, false},
		{"not an image", []discord.Attachment{{ContentType: strPtr("video/mp4")}}, false},
		{"no metadata at all", []discord.Attachment{{}}, false},
		{
			// Only the first attachment counts.
			"small first, large second",
			[]discord.Attachment{imageAttachment(20, 20), imageAttachment(800, 600)},
			false,
		},
		{
			"large first, tiny second",
			[]discord.Attachment{imageAttachment(800, 600), imageAttachment(1, 1)},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := policy.Evaluate(discord.Message{Attachments: tt.attachments})
			assert.Equal(t, tt.want, v.Accepted)
			if !tt.want {
				assert.Equal(t, ReasonImageTooSmall, v.Reason)
			}
		})
	}
}

func TestEvaluateAttachmentIgnoresContent(t *testing.T) {
	policy := NewPolicy(NewAllowlist("trusted.example"))

	// An allow-listed link does not rescue an undersized attachment.
	v := policy.Evaluate(discord.Message{
		Content:     "trusted.example/post",
		Attachments: []discord.Attachment{imageAttachment(10, 10)},
	})
	assert.False(t, v.Accepted)
}

func TestLoadAllowlist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"# trusted art hosts\n"+
			"https://trusted-site.example\n"+
			"\n"+
			"  artstation.com  \n"), 0o644))

	allowlist, err := LoadAllowlist(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://trusted-site.example", "artstation.com"}, allowlist.Domains())
	assert.True(t, allowlist.Matches("see https://trusted-site.example/a"))
	assert.False(t, allowlist.Matches("# trusted art hosts"))
}

func TestLoadAllowlistMissingFile(t *testing.T) {
	_, err := LoadAllowlist(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
