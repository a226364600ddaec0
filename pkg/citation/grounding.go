package citation

import (
	"fmt"
	"regexp"
	"strings"
)

// SourcesHeading is the boundary between the narrative body and the
// trailing citation list.
const SourcesHeading = "## Sources"

// fallbackHeading marks the deterministic patch appended when a narrative
// cites nothing in its body. Its presence makes EnforceGrounding idempotent.
const fallbackHeading = "## Evidence-backed notes"

var citationMarker = regexp.MustCompile(`\[[0-9]+\]`)

// HasAnyCitation reports whether the text contains at least one bracketed
// integer marker anywhere, including the Sources section.
func HasAnyCitation(text string) bool {
	return citationMarker.MatchString(text)
}

// BodyHasCitation checks only the portion before the first Sources heading.
// A model that dumps citations exclusively into the trailing list grounds
// nothing, and this is the check that catches it.
func BodyHasCitation(text string) bool {
	body := text
	if idx := strings.Index(text, SourcesHeading); idx >= 0 {
		body = text[:idx]
	}
	return citationMarker.MatchString(body)
}

// EnforceGrounding returns the text unchanged when there is no evidence or
// the body already carries a citation. Otherwise it appends a templated
// "Evidence-backed notes" block listing every entry with its marker. The
// patch is deterministic and applying the function to its own output is a
// no-op.
func EnforceGrounding(text string, entries []Entry) string {
	if len(entries) == 0 {
		return text
	}
	if BodyHasCitation(text) {
		return text
	}
	if strings.Contains(text, fallbackHeading) {
		return text
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(text, "\n"))
	b.WriteString("\n\n")
	b.WriteString(fallbackHeading)
	b.WriteString("\n")
	b.WriteString("The draft above did not ground its claims. Each retrieved source is listed here with its citation marker:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "- [%d] %s\n", e.Index, e.Title)
	}
	b.WriteString("\nChecklist:\n")
	b.WriteString("- Attach a [n] marker to every claim that relies on a source above.\n")
	b.WriteString("- Keep the Sources section at the end; markers belong in the body.\n")
	b.WriteString("- Mark anything no source supports as an open question.\n")

	return b.String()
}
