package proto

import (
	"encoding/json"
	"fmt"

	"game-interactor/effects/contract"
	"game-interactor/internal/interactor"
	"game-interactor/internal/sim"
)

const (
	// Version tracks the wire-protocol revision expected by clients.
	Version = 1

	// Type identifiers for websocket payloads.
	typeCommandAck    = "commandAck"
	typeCommandReject = "commandReject"
	typeHeartbeat     = "heartbeat"
	typeHello         = "hello"
)

// Client message type identifiers.
const (
	TypeApply     = "apply"
	TypeQuery     = "query"
	TypeRemove    = "remove"
	TypeReset     = "reset"
	TypeHeartbeat = "heartbeat"
)

// Exported aliases for outbound message type identifiers.
const (
	TypeHello         = typeHello
	TypeCommandAck    = typeCommandAck
	TypeCommandReject = typeCommandReject
)

// ClientMessage captures an inbound websocket message from the client.
type ClientMessage struct {
	Ver           int     `json:"ver,omitempty"`
	Type          string  `json:"type"`
	ID            string  `json:"id,omitempty"`
	Entry         string  `json:"entry,omitempty"`
	Kind          string  `json:"kind,omitempty"`
	Params        []int32 `json:"params,omitempty"`
	DurationTicks int     `json:"durationTicks,omitempty"`
	SentAt        int64   `json:"sentAt"`
	CommandSeq    *uint64 `json:"seq,omitempty"`
}

// Seq returns the command sequence number, or zero when the client did not
// ask for acknowledgements.
func (m ClientMessage) Seq() uint64 {
	if m.CommandSeq == nil {
		return 0
	}
	return *m.CommandSeq
}

// DecodeClientMessage converts raw websocket payloads into a structured message.
func DecodeClientMessage(payload []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	if msg.Ver == 0 {
		msg.Ver = Version
	}
	if msg.Ver != Version {
		return msg, fmt.Errorf("unsupported client protocol version %d", msg.Ver)
	}
	return msg, nil
}

// ClientCommand captures the structured simulation command carried by a
// websocket message. Origin metadata is populated by intake when the command
// is accepted for processing.
func ClientCommand(msg ClientMessage) (sim.Command, bool) {
	switch msg.Type {
	case TypeApply, TypeQuery:
		if msg.Entry == "" && msg.Kind == "" {
			return sim.Command{}, false
		}
		cmdType := sim.CommandApply
		if msg.Type == TypeQuery {
			cmdType = sim.CommandQuery
		}
		return sim.Command{
			Type: cmdType,
			Request: &interactor.Request{
				ID:            msg.ID,
				Entry:         msg.Entry,
				Kind:          contract.Kind(msg.Kind),
				Params:        append([]int32(nil), msg.Params...),
				DurationTicks: msg.DurationTicks,
			},
		}, true
	case TypeRemove:
		if msg.ID == "" {
			return sim.Command{}, false
		}
		return sim.Command{Type: sim.CommandRemove, RequestID: msg.ID}, true
	case TypeReset:
		return sim.Command{Type: sim.CommandReset}, true
	default:
		return sim.Command{}, false
	}
}

// CommandAck describes an acknowledgement of a processed command.
type CommandAck struct {
	Seq     uint64
	Tick    uint64
	Outcome interactor.Outcome
	Removed int
}

// EncodeCommandAck renders a command acknowledgement response.
func EncodeCommandAck(msg CommandAck) ([]byte, error) {
	frame := struct {
		Ver     int                `json:"ver"`
		Type    string             `json:"type"`
		Seq     uint64             `json:"seq"`
		Tick    uint64             `json:"tick,omitempty"`
		Outcome interactor.Outcome `json:"outcome"`
		Removed int                `json:"removed,omitempty"`
	}{
		Ver:     Version,
		Type:    typeCommandAck,
		Seq:     msg.Seq,
		Tick:    msg.Tick,
		Outcome: msg.Outcome,
		Removed: msg.Removed,
	}
	return json.Marshal(frame)
}

// CommandReject notifies the client that a command was refused. Retry is set
// when resubmitting later may succeed.
type CommandReject struct {
	Seq     uint64
	Reason  string
	Retry   bool
	Tick    uint64
	Outcome *interactor.Outcome
}

// EncodeCommandReject renders a command rejection response.
func EncodeCommandReject(msg CommandReject) ([]byte, error) {
	frame := struct {
		Ver     int                 `json:"ver"`
		Type    string              `json:"type"`
		Seq     uint64              `json:"seq"`
		Reason  string              `json:"reason"`
		Retry   bool                `json:"retry,omitempty"`
		Tick    uint64              `json:"tick,omitempty"`
		Outcome *interactor.Outcome `json:"outcome,omitempty"`
	}{
		Ver:     Version,
		Type:    typeCommandReject,
		Seq:     msg.Seq,
		Reason:  msg.Reason,
		Retry:   msg.Retry,
		Tick:    msg.Tick,
		Outcome: msg.Outcome,
	}
	return json.Marshal(frame)
}

// EncodeReply maps a simulation reply onto the wire: Possible becomes an ack,
// TemporarilyNotPossible a retryable reject and NotPossible a final reject.
func EncodeReply(seq uint64, reply sim.Reply) ([]byte, error) {
	outcome := reply.Outcome
	if outcome.Result == contract.Possible {
		return EncodeCommandAck(CommandAck{Seq: seq, Tick: reply.Tick, Outcome: outcome, Removed: reply.Removed})
	}
	reason := outcome.Reason
	if reason == "" {
		reason = outcome.Result.String()
	}
	return EncodeCommandReject(CommandReject{
		Seq:     seq,
		Reason:  reason,
		Retry:   outcome.Result.Retryable(),
		Tick:    reply.Tick,
		Outcome: &outcome,
	})
}

// Heartbeat echoes timing metadata back to the client.
type Heartbeat struct {
	ServerTime int64
	ClientTime int64
	RTTMillis  int64
}

// EncodeHeartbeat renders a heartbeat acknowledgement payload.
func EncodeHeartbeat(msg Heartbeat) ([]byte, error) {
	frame := struct {
		Ver        int    `json:"ver"`
		Type       string `json:"type"`
		ServerTime int64  `json:"serverTime"`
		ClientTime int64  `json:"clientTime"`
		RTTMillis  int64  `json:"rtt"`
	}{
		Ver:        Version,
		Type:       typeHeartbeat,
		ServerTime: msg.ServerTime,
		ClientTime: msg.ClientTime,
		RTTMillis:  msg.RTTMillis,
	}
	return json.Marshal(frame)
}

// Hello greets a new client with its id and the interactions on offer.
type Hello struct {
	ClientID string
	Tick     uint64
	Entries  []string
}

// EncodeHello renders the initial session payload.
func EncodeHello(msg Hello) ([]byte, error) {
	frame := struct {
		Ver      int      `json:"ver"`
		Type     string   `json:"type"`
		ClientID string   `json:"clientId"`
		Tick     uint64   `json:"tick"`
		Entries  []string `json:"entries"`
	}{
		Ver:      Version,
		Type:     typeHello,
		ClientID: msg.ClientID,
		Tick:     msg.Tick,
		Entries:  msg.Entries,
	}
	if frame.Entries == nil {
		frame.Entries = []string{}
	}
	return json.Marshal(frame)
}
