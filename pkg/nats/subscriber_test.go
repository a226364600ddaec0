package nats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventFromMessage(t *testing.T) {
	event, err := eventFromMessage("events.DOCUMENT_INGESTED", []byte(`{"document_id":"abc","chunk_count":3}`))

	assert.NoError(t, err)
	assert.Equal(t, "DOCUMENT_INGESTED", event.EventType())
	assert.Equal(t, "abc", event.Payload()["document_id"])
	assert.EqualValues(t, 3, event.Payload()["chunk_count"])
	assert.False(t, event.Timestamp().IsZero())
}

func TestEventFromMessageBareSubject(t *testing.T) {
	// A subject without the stream prefix is used as the type verbatim.
	event, err := eventFromMessage("DOCUMENT_INGESTED", []byte(`{}`))

	assert.NoError(t, err)
	assert.Equal(t, "DOCUMENT_INGESTED", event.EventType())
}

func TestEventFromMessageMalformedPayload(t *testing.T) {
	_, err := eventFromMessage("events.DOCUMENT_INGESTED", []byte(`not json`))

	assert.Error(t, err)
}
