package citation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// MaxExcerptLen bounds excerpt length inside the prompt block. The full
// excerpt stays on the normalized entry for downstream use.
const MaxExcerptLen = 600

// Evidence is one raw evidence item as attached to a generation run. The
// same item can arrive multiple times (repeated auto-retrieval), so packs
// are deduplicated by content fingerprint.
type Evidence struct {
	Excerpt   string
	SourceRef string
	Title     string
	URL       string
}

// Entry is a normalized, deduplicated citation with its stable 1-based
// index. Indices live only for one generation call and are never persisted.
type Entry struct {
	Index       int    `json:"n"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	SourceRef   string `json:"source_ref"`
	Excerpt     string `json:"excerpt"`
	Fingerprint string `json:"-"`
}

// Pack is the prompt-ready citation block plus its display form.
type Pack struct {
	PromptBlock     string
	SourcesMarkdown string
	Entries         []Entry
}

// Fingerprint identifies evidence by content: same source reference plus
// same excerpt means the same citation.
func Fingerprint(sourceRef, excerpt string) string {
	sum := sha256.Sum256([]byte(sourceRef + "\n" + excerpt))
	return hex.EncodeToString(sum[:])
}

// BuildPack deduplicates evidence (first occurrence wins, order preserved),
// assigns 1-based indices and renders both the prompt block and the Sources
// section.
func BuildPack(evidence []Evidence) Pack {
	var entries []Entry
	seen := make(map[string]bool)

	for _, ev := range evidence {
		excerpt := strings.TrimSpace(ev.Excerpt)
		sourceRef := strings.TrimSpace(ev.SourceRef)

		fp := Fingerprint(sourceRef, excerpt)
		if seen[fp] {
			continue
		}
		seen[fp] = true

		title := strings.TrimSpace(ev.Title)
		if title == "" {
			title = "Source"
		}

		entries = append(entries, Entry{
			Index:       len(entries) + 1,
			Title:       title,
			URL:         strings.TrimSpace(ev.URL),
			SourceRef:   sourceRef,
			Excerpt:     excerpt,
			Fingerprint: fp,
		})
	}

	return Pack{
		PromptBlock:     renderPromptBlock(entries),
		SourcesMarkdown: renderSourcesSection(entries),
		Entries:         entries,
	}
}

func renderPromptBlock(entries []Entry) string {
	var lines []string
	for _, e := range entries {
		lines = append(lines, citationHead(e))
		if e.Excerpt != "" {
			lines = append(lines, truncateExcerpt(e.Excerpt))
		}
		lines = append(lines, "") // spacer
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func renderSourcesSection(entries []Entry) string {
	lines := []string{SourcesHeading}
	for _, e := range entries {
		lines = append(lines, "- "+citationHead(e))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func citationHead(e Entry) string {
	head := fmt.Sprintf("[%d] %s", e.Index, e.Title)
	if e.URL != "" {
		head += " - " + e.URL
	}
	if e.SourceRef != "" {
		head += " - " + e.SourceRef
	}
	return head
}

func truncateExcerpt(excerpt string) string {
	runes := []rune(excerpt)
	if len(runes) <= MaxExcerptLen {
		return excerpt
	}
	return string(runes[:MaxExcerptLen]) + "…"
}
