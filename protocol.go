package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"arena-server/game"
)

// Client -> Server message types
const (
	MsgInput        = "input"
	MsgSwitchPath   = "switchPath"
	MsgApplyUpgrade = "applyUpgrade"
	MsgPlaceTrap    = "tryPlaceTrap"
	MsgRespawn      = "respawn"
)

// Server -> Client message types
const (
	MsgState   = "state"
	MsgWelcome = "welcome"
	MsgError   = "error"
)

// errMalformed marks inbound payloads that fail validation; they are dropped.
var errMalformed = errors.New("malformed message")

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string `json:"t"`
	Data any    `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages. json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg is the client's held keys and aim. Every field is required.
type InputMsg struct {
	Keys   *game.Keys  `json:"keys"`
	Mouse  *game.Point `json:"mouse"`
	Camera *game.Point `json:"camera"`
}

// WelcomeMsg is sent to a player once, right after joining
type WelcomeMsg struct {
	ID   string `json:"id"`
	Room string `json:"room"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

// DecodeCommand turns one inbound text frame into a queued game command for
// playerID. Unknown types and payloads with missing fields are rejected.
func DecodeCommand(playerID string, raw []byte) (game.Command, error) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return game.Command{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	cmd := game.Command{PlayerID: playerID}

	switch env.T {
	case MsgInput:
		var in InputMsg
		if err := json.Unmarshal(env.D, &in); err != nil {
			return game.Command{}, fmt.Errorf("%w: input: %v", errMalformed, err)
		}
		if in.Keys == nil || in.Mouse == nil || in.Camera == nil {
			return game.Command{}, fmt.Errorf("%w: input is missing a field", errMalformed)
		}
		cmd.Type = game.CmdInput
		cmd.Input = game.Input{Keys: *in.Keys, Mouse: *in.Mouse, Camera: *in.Camera}
	case MsgSwitchPath:
		s, err := stringPayload(env.D)
		if err != nil {
			return game.Command{}, err
		}
		path, ok := game.ParsePath(s)
		if !ok {
			return game.Command{}, fmt.Errorf("%w: unknown path %q", errMalformed, s)
		}
		cmd.Type = game.CmdSwitchPath
		cmd.Path = path
	case MsgApplyUpgrade:
		s, err := stringPayload(env.D)
		if err != nil {
			return game.Command{}, err
		}
		key, ok := game.ParseUpgradeKey(s)
		if !ok {
			return game.Command{}, fmt.Errorf("%w: unknown upgrade %q", errMalformed, s)
		}
		cmd.Type = game.CmdApplyUpgrade
		cmd.Upgrade = key
	case MsgPlaceTrap:
		cmd.Type = game.CmdPlaceTrap
	case MsgRespawn:
		cmd.Type = game.CmdRespawn
	default:
		return game.Command{}, fmt.Errorf("%w: unknown type %q", errMalformed, env.T)
	}
	return cmd, nil
}

func stringPayload(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", fmt.Errorf("%w: expected a string payload", errMalformed)
	}
	return s, nil
}

// Codec selects how state snapshots are framed for one connection
type Codec uint8

const (
	CodecMsgpack Codec = iota // binary frame carrying the bare snapshot
	CodecJSON                 // text frame carrying {"t":"state","d":snapshot}
)

// ParseCodec reads the ?codec= query value. Empty selects msgpack.
func ParseCodec(s string) (Codec, bool) {
	switch s {
	case "", "msgpack":
		return CodecMsgpack, true
	case "json":
		return CodecJSON, true
	}
	return 0, false
}

func (c Codec) String() string {
	if c == CodecJSON {
		return "json"
	}
	return "msgpack"
}

// EncodeState frames a personalized snapshot for the given codec. The
// returned flag reports whether it must go out as a binary message.
func EncodeState(c Codec, s game.Snapshot) ([]byte, bool, error) {
	if c == CodecJSON {
		data, err := json.Marshal(Envelope{T: MsgState, Data: s})
		return data, false, err
	}
	data, err := marshalMsgpack(s)
	return data, true, err
}

// marshalMsgpack encodes v reusing the json tags, so both codecs agree on field names
func marshalMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unmarshalMsgpack is the inverse of marshalMsgpack
func unmarshalMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
