package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-server/game"
)

func TestDecodeCommandInput(t *testing.T) {
	raw := []byte(`{"t":"input","d":{"keys":{"w":true,"a":false,"s":false,"d":true},"mouse":{"x":10,"y":20},"camera":{"x":1,"y":2}}}`)
	cmd, err := DecodeCommand("p1", raw)
	require.NoError(t, err)

	assert.Equal(t, game.CmdInput, cmd.Type)
	assert.Equal(t, "p1", cmd.PlayerID)
	assert.Equal(t, game.Keys{W: true, D: true}, cmd.Input.Keys)
	assert.Equal(t, game.Point{X: 10, Y: 20}, cmd.Input.Mouse)
	assert.Equal(t, game.Point{X: 1, Y: 2}, cmd.Input.Camera)
}

func TestDecodeCommandInputMissingField(t *testing.T) {
	for name, raw := range map[string]string{
		"no keys":   `{"t":"input","d":{"mouse":{"x":1,"y":1},"camera":{"x":0,"y":0}}}`,
		"no mouse":  `{"t":"input","d":{"keys":{},"camera":{"x":0,"y":0}}}`,
		"no camera": `{"t":"input","d":{"keys":{},"mouse":{"x":1,"y":1}}}`,
		"no data":   `{"t":"input"}`,
		"bad type":  `{"t":"input","d":{"keys":{"w":"yes"},"mouse":{"x":1,"y":1},"camera":{"x":0,"y":0}}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCommand("p1", []byte(raw))
			assert.ErrorIs(t, err, errMalformed)
		})
	}
}

func TestDecodeCommandSwitchPath(t *testing.T) {
	cmd, err := DecodeCommand("p1", []byte(`{"t":"switchPath","d":"drone"}`))
	require.NoError(t, err)
	assert.Equal(t, game.CmdSwitchPath, cmd.Type)
	assert.Equal(t, game.PathDrone, cmd.Path)

	_, err = DecodeCommand("p1", []byte(`{"t":"switchPath","d":"laser"}`))
	assert.ErrorIs(t, err, errMalformed)
	_, err = DecodeCommand("p1", []byte(`{"t":"switchPath","d":""}`))
	assert.ErrorIs(t, err, errMalformed)
	_, err = DecodeCommand("p1", []byte(`{"t":"switchPath","d":3}`))
	assert.ErrorIs(t, err, errMalformed)
}

func TestDecodeCommandApplyUpgrade(t *testing.T) {
	cmd, err := DecodeCommand("p1", []byte(`{"t":"applyUpgrade","d":"trapSentry"}`))
	require.NoError(t, err)
	assert.Equal(t, game.CmdApplyUpgrade, cmd.Type)
	assert.Equal(t, game.TrapSentry, cmd.Upgrade)

	_, err = DecodeCommand("p1", []byte(`{"t":"applyUpgrade","d":"nope"}`))
	assert.ErrorIs(t, err, errMalformed)
}

func TestDecodeCommandNoPayload(t *testing.T) {
	cmd, err := DecodeCommand("p1", []byte(`{"t":"tryPlaceTrap"}`))
	require.NoError(t, err)
	assert.Equal(t, game.CmdPlaceTrap, cmd.Type)

	cmd, err = DecodeCommand("p1", []byte(`{"t":"respawn"}`))
	require.NoError(t, err)
	assert.Equal(t, game.CmdRespawn, cmd.Type)
}

func TestDecodeCommandRejectsGarbage(t *testing.T) {
	_, err := DecodeCommand("p1", []byte(`not json`))
	assert.ErrorIs(t, err, errMalformed)

	_, err = DecodeCommand("p1", []byte(`{"t":"teleport","d":{}}`))
	assert.ErrorIs(t, err, errMalformed)
}

func TestParseCodec(t *testing.T) {
	c, ok := ParseCodec("")
	assert.True(t, ok)
	assert.Equal(t, CodecMsgpack, c)

	c, ok = ParseCodec("json")
	assert.True(t, ok)
	assert.Equal(t, CodecJSON, c)
	assert.Equal(t, "json", c.String())

	_, ok = ParseCodec("xml")
	assert.False(t, ok)
}

func TestEncodeStateCodecsAgree(t *testing.T) {
	w := game.NewWorld(game.DefaultTuning(), 7, game.WithEmptyArena())
	w.AddPlayer("p1")
	snap := game.BuildSnapshot(w).Personalize(w, "p1")

	text, binary, err := EncodeState(CodecJSON, snap)
	require.NoError(t, err)
	assert.False(t, binary)
	var env struct {
		T string         `json:"t"`
		D map[string]any `json:"d"`
	}
	require.NoError(t, json.Unmarshal(text, &env))
	assert.Equal(t, MsgState, env.T)
	assert.Equal(t, "p1", env.D["you"])

	packed, binary, err := EncodeState(CodecMsgpack, snap)
	require.NoError(t, err)
	assert.True(t, binary)
	var m map[string]any
	require.NoError(t, unmarshalMsgpack(packed, &m))
	assert.Equal(t, "p1", m["you"])
	for key := range env.D {
		assert.Contains(t, m, key)
	}
}
