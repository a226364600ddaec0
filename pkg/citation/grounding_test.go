package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testEntries() []Entry {
	return []Entry{
		{Index: 1, Title: "Q2 Health Report"},
		{Index: 2, Title: "Survey Summary"},
	}
}

func TestHasAnyCitation(t *testing.T) {
	assert.True(t, HasAnyCitation("Retention dipped [1] last quarter."))
	assert.True(t, HasAnyCitation("## Sources\n- [1] Report"))
	assert.False(t, HasAnyCitation("No markers here."))
	assert.False(t, HasAnyCitation("[not-a-number]"))
	assert.False(t, HasAnyCitation(""))
}

func TestBodyHasCitation(t *testing.T) {
	grounded := "Retention dipped [1].\n\n## Sources\n- [1] Report"
	assert.True(t, BodyHasCitation(grounded))

	// Citations only in the trailing list do not ground the body.
	ungrounded := "Retention dipped.\n\n## Sources\n- [1] Report"
	assert.False(t, BodyHasCitation(ungrounded))
	assert.True(t, HasAnyCitation(ungrounded))
}

func TestEnforceGroundingPatchesUngroundedText(t *testing.T) {
	text := "Retention dipped last quarter.\n\n## Sources\n- nothing cited"

	out := EnforceGrounding(text, testEntries())

	assert.NotEqual(t, text, out)
	assert.Contains(t, out, "## Evidence-backed notes")
	assert.Contains(t, out, "- [1] Q2 Health Report")
	assert.Contains(t, out, "- [2] Survey Summary")
}

func TestEnforceGroundingIdentityCases(t *testing.T) {
	grounded := "Retention dipped [1].\n\n## Sources\n- [1] Report"
	assert.Equal(t, grounded, EnforceGrounding(grounded, testEntries()))

	ungrounded := "Retention dipped."
	assert.Equal(t, ungrounded, EnforceGrounding(ungrounded, nil))
}

func TestEnforceGroundingIdempotent(t *testing.T) {
	text := "Retention dipped last quarter."

	once := EnforceGrounding(text, testEntries())
	twice := EnforceGrounding(once, testEntries())

	assert.Equal(t, once, twice)
}

func TestEnforceGroundingDeterministic(t *testing.T) {
	text := "Retention dipped last quarter."

	a := EnforceGrounding(text, testEntries())
	b := EnforceGrounding(text, testEntries())
	assert.Equal(t, a, b)
}
