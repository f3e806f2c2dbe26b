// Package moderation holds the art-channel policy, the audit notifier and the
// moderator paging logic.
package moderation

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/atelier-bot/atelier/atelier/config"
)

// Rejection reasons shown to the author and in audit entries.
const (
	ReasonNoSource      = "no recognized art source"
	ReasonImageTooSmall = "image too small"
)

// Allowlist is the set of trusted site domains a link-only art post must
// reference. Matching is a case-sensitive substring check.
type Allowlist struct {
	domains []string
}

// LoadAllowlist reads one domain per line; blank lines and lines starting
// with '#' are skipped.
func LoadAllowlist(path string) (*Allowlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open allowlist: %w", err)
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains = append(domains, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read allowlist: %w", err)
	}
	return &Allowlist{domains: domains}, nil
}

func NewAllowlist(domains ...string) *Allowlist {
	return &Allowlist{domains: domains}
}

func (a *Allowlist) Matches(content string) bool {
	for _, domain := range a.domains {
		if strings.Contains(content, domain) {
			return true
		}
	}
	return false
}

func (a *Allowlist) Domains() []string {
	return a.domains
}

// Verdict is the outcome of evaluating a message against the art policy.
type Verdict struct {
	Accepted bool
	Reason   string
}

// Policy decides whether a message satisfies the art-channel posting rules.
type Policy struct {
	allowlist *Allowlist
	minWidth  int
	minHeight int
}

func NewPolicy(allowlist *Allowlist) *Policy {
	return &Policy{
		allowlist: allowlist,
		minWidth:  config.MinArtImageWidth,
		minHeight: config.MinArtImageHeight,
	}
}

func (p *Policy) Allowlist() *Allowlist {
	return p.allowlist
}

// Evaluate applies the policy to a message. Messages without attachments must
// reference an allow-listed domain. Messages with attachments are judged by
// the first attachment alone; later attachments are assumed to piggyback on a
// valid first one.
func (p *Policy) Evaluate(msg discord.Message) Verdict {
	if len(msg.Attachments) == 0 {
		if p.allowlist.Matches(msg.Content) {
			return Verdict{Accepted: true}
		}
		return Verdict{Reason: ReasonNoSource}
	}

	first := msg.Attachments[0]
	if !isImage(first) || deref(first.Width) < p.minWidth || deref(first.Height) < p.minHeight {
		return Verdict{Reason: ReasonImageTooSmall}
	}
	return Verdict{Accepted: true}
}

func isImage(att discord.Attachment) bool {
	if att.ContentType != nil {
		return strings.HasPrefix(*att.ContentType, "image/")
	}
	// Fall back to dimension metadata when the content type is missing.
	return att.Width != nil && att.Height != nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
