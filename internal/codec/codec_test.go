package codec_test

import (
	"testing"

	"github.com/Mycelium-Node-1/UCST-AI/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID      string `json:"id" msgpack:"id"`
	Content string `json:"content" msgpack:"content"`
	Depth   int    `json:"depth" msgpack:"depth"`
}

func TestJSONCodec(t *testing.T) {
	c := codec.JSON{}
	orig := record{ID: "e1", Content: "10-7-6-6-9", Depth: 3}
	b, err := c.Marshal(orig)
	require.NoError(t, err)

	var got record
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "json", c.Name())
}

func TestMsgPackCodec(t *testing.T) {
	c := codec.MsgPack{}
	orig := record{ID: "e2", Content: "0-1-2", Depth: 7}
	b, err := c.Marshal(orig)
	require.NoError(t, err)

	var got record
	require.NoError(t, c.Unmarshal(b, &got))
	assert.Equal(t, orig, got)
	assert.Equal(t, "msgpack", c.Name())
}

func TestDefaultIsMsgPack(t *testing.T) {
	assert.Equal(t, "msgpack", codec.Default.Name())
}
