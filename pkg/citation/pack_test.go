package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPackDeduplicates(t *testing.T) {
	evidence := []Evidence{
		{Excerpt: "Churn rose 4% in Q2.", SourceRef: "doc-1#chunk-3", Title: "Q2 Health Report"},
		{Excerpt: "Churn rose 4% in Q2.", SourceRef: "doc-1#chunk-3", Title: "Q2 Health Report"},
		{Excerpt: "NPS dropped to 31.", SourceRef: "doc-2#chunk-0", Title: "Survey Summary"},
	}

	pack := BuildPack(evidence)

	assert.Len(t, pack.Entries, 2)
	assert.Equal(t, 1, pack.Entries[0].Index)
	assert.Equal(t, "Q2 Health Report", pack.Entries[0].Title)
	assert.Equal(t, 2, pack.Entries[1].Index)
	assert.Equal(t, "Survey Summary", pack.Entries[1].Title)
}

func TestBuildPackIdempotentCounts(t *testing.T) {
	evidence := []Evidence{
		{Excerpt: "a", SourceRef: "r1"},
		{Excerpt: "b", SourceRef: "r2"},
	}

	once := BuildPack(evidence)
	twice := BuildPack(append(append([]Evidence{}, evidence...), evidence...))

	assert.Equal(t, len(once.Entries), len(twice.Entries))
}

func TestBuildPackDistinguishesBySourceRef(t *testing.T) {
	evidence := []Evidence{
		{Excerpt: "same text", SourceRef: "doc-1"},
		{Excerpt: "same text", SourceRef: "doc-2"},
	}

	pack := BuildPack(evidence)
	assert.Len(t, pack.Entries, 2)
}

func TestBuildPackDeduplicatesPaddedSourceRef(t *testing.T) {
	evidence := []Evidence{
		{Excerpt: "same text", SourceRef: "doc-1#chunk-3"},
		{Excerpt: "  same text  ", SourceRef: "  doc-1#chunk-3 "},
	}

	pack := BuildPack(evidence)

	// Whitespace-only differences are the same citation.
	assert.Len(t, pack.Entries, 1)
	assert.Equal(t, "doc-1#chunk-3", pack.Entries[0].SourceRef)
}

func TestBuildPackTruncatesPromptExcerpt(t *testing.T) {
	long := strings.Repeat("x", MaxExcerptLen+50)
	pack := BuildPack([]Evidence{{Excerpt: long, SourceRef: "r", Title: "Long"}})

	// Prompt block is truncated with an ellipsis...
	assert.Contains(t, pack.PromptBlock, strings.Repeat("x", MaxExcerptLen)+"…")
	assert.NotContains(t, pack.PromptBlock, long)

	// ...but the normalized entry keeps the full excerpt.
	assert.Equal(t, long, pack.Entries[0].Excerpt)
}

func TestBuildPackRendering(t *testing.T) {
	pack := BuildPack([]Evidence{
		{Excerpt: "excerpt one", SourceRef: "doc-1#0", Title: "Doc One", URL: "https://example.com/doc1"},
		{Excerpt: "excerpt two", SourceRef: "doc-2#4"},
	})

	assert.Contains(t, pack.PromptBlock, "[1] Doc One - https://example.com/doc1 - doc-1#0")
	assert.Contains(t, pack.PromptBlock, "excerpt one")
	assert.Contains(t, pack.PromptBlock, "[2] Source - doc-2#4")

	assert.True(t, strings.HasPrefix(pack.SourcesMarkdown, SourcesHeading))
	assert.Contains(t, pack.SourcesMarkdown, "- [1] Doc One")
	assert.Contains(t, pack.SourcesMarkdown, "- [2] Source")
}

func TestBuildPackEmptyEvidence(t *testing.T) {
	pack := BuildPack(nil)

	assert.Empty(t, pack.Entries)
	assert.Empty(t, pack.PromptBlock)
	assert.Equal(t, SourcesHeading, pack.SourcesMarkdown)
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("ref", "excerpt")
	b := Fingerprint("ref", "excerpt")
	c := Fingerprint("ref2", "excerpt")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
