package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientMessage_TextPayload(t *testing.T) {
	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"w","payload":"hello"}`), &msg))
	assert.Equal(t, MsgWord, msg.Type)
	assert.Equal(t, "hello", msg.TextPayload())

	// Non-string payloads degrade to empty, never error.
	require.NoError(t, json.Unmarshal([]byte(`{"type":"w","payload":{"bogus":1}}`), &msg))
	assert.Equal(t, "", msg.TextPayload())

	require.NoError(t, json.Unmarshal([]byte(`{"type":"w"}`), &msg))
	assert.Equal(t, "", msg.TextPayload())
}

func TestClientMessage_IndexPayload(t *testing.T) {
	var msg ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"i","payload":3}`), &msg))
	assert.Equal(t, 3, msg.IndexPayload())

	require.NoError(t, json.Unmarshal([]byte(`{"type":"i","payload":"three"}`), &msg))
	assert.Equal(t, -1, msg.IndexPayload())
}
