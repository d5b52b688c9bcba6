// Package ws serves the remote interaction protocol over websockets.
package ws

import (
	"context"
	"log"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"game-interactor/internal/net/intake"
	"game-interactor/internal/net/proto"
	"game-interactor/internal/sim"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	"game-interactor/logging/lifecycle"
	"game-interactor/logging/network"
)

const (
	// RejectReplyTimeout is sent when the loop did not answer in time. The
	// command may still run, so it is never marked retryable.
	RejectReplyTimeout = "reply_timeout"
	// RejectStaleSequence is sent for a seq lower than one already answered.
	RejectStaleSequence = "stale_sequence"

	defaultReplyTimeout = 5 * time.Second
)

// Loop is the simulation surface the handler stages commands on.
type Loop interface {
	intake.Enqueuer
	Tick() uint64
}

type HandlerConfig struct {
	Logger       telemetry.Logger
	Publisher    logging.Publisher
	Metrics      telemetry.Metrics
	ReplyTimeout time.Duration
	// Entries lists the catalog ids announced in the hello frame.
	Entries func() []string
	Clock   logging.Clock
}

type Handler struct {
	loop         Loop
	logger       telemetry.Logger
	publisher    logging.Publisher
	metrics      telemetry.Metrics
	replyTimeout time.Duration
	entries      func() []string
	clock        logging.Clock
	upgrader     websocket.Upgrader
	connected    atomic.Int64
}

func NewHandler(loop Loop, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	timeout := cfg.ReplyTimeout
	if timeout <= 0 {
		timeout = defaultReplyTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		loop:         loop,
		logger:       logger,
		publisher:    publisher,
		metrics:      cfg.Metrics,
		replyTimeout: timeout,
		entries:      cfg.Entries,
		clock:        clock,
		upgrader:     upgrader,
	}
}

// Connected reports the number of open sessions.
func (h *Handler) Connected() int64 {
	return h.connected.Load()
}

type session struct {
	conn      *websocket.Conn
	clientID  string
	actor     logging.EntityRef
	publisher logging.Publisher
	lastSeq   uint64
	lastReply []byte
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.loop == nil {
		nethttp.Error(w, "simulation unavailable", nethttp.StatusServiceUnavailable)
		return
	}
	clientID := r.URL.Query().Get("id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", clientID, err)
		return
	}
	defer conn.Close()

	s := &session{
		conn:     conn,
		clientID: clientID,
		actor:    logging.EntityRef{ID: clientID, Kind: logging.EntityKindClient},
		publisher: logging.WithFields(h.publisher, map[string]any{
			"transport":  "ws",
			"remoteAddr": r.RemoteAddr,
		}),
	}
	ctx := r.Context()

	h.trackConnected(1)
	lifecycle.ClientConnected(ctx, s.publisher, h.loop.Tick(), s.actor, lifecycle.ClientConnectedPayload{RemoteAddr: r.RemoteAddr}, nil)
	reason := "closed"
	defer func() {
		h.trackConnected(-1)
		lifecycle.ClientDisconnected(context.WithoutCancel(ctx), s.publisher, h.loop.Tick(), s.actor, lifecycle.ClientDisconnectedPayload{Reason: reason}, nil)
	}()

	var entries []string
	if h.entries != nil {
		entries = h.entries()
	}
	hello, err := proto.EncodeHello(proto.Hello{ClientID: clientID, Tick: h.loop.Tick(), Entries: entries})
	if err != nil {
		h.logger.Printf("failed to marshal hello for %s: %v", clientID, err)
		reason = "hello_failed"
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, hello); err != nil {
		reason = "write_failed"
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if !h.handleMessage(ctx, s, payload) {
			reason = "write_failed"
			return
		}
	}
}

// handleMessage answers one client frame. It returns false once the
// connection can no longer be written to.
func (h *Handler) handleMessage(ctx context.Context, s *session, payload []byte) bool {
	msg, err := proto.DecodeClientMessage(payload)
	if err != nil {
		network.MalformedMessage(ctx, s.publisher, h.loop.Tick(), s.actor, network.MalformedMessagePayload{Error: err.Error(), Bytes: len(payload)}, nil)
		h.logger.Printf("discarding malformed message from %s: %v", s.clientID, err)
		return true
	}

	if msg.Type == proto.TypeHeartbeat {
		return h.writeHeartbeat(s, msg)
	}

	seq := msg.Seq()
	if seq > 0 && s.lastSeq > 0 {
		if seq == s.lastSeq {
			return s.write(s.lastReply)
		}
		if seq < s.lastSeq {
			return h.writeReject(ctx, s, msg, proto.CommandReject{Seq: seq, Reason: RejectStaleSequence}, false)
		}
	}

	replies := make(chan sim.Reply, 1)
	cmdCtx := intake.CommandContext{Engine: h.loop, Tick: h.loop.Tick, Now: h.clock.Now}
	if _, ok, reason := intake.StageClientCommand(cmdCtx, s.clientID, msg, replies); !ok {
		if reason == intake.CommandRejectInvalid {
			h.logger.Printf("unknown message type %q from %s", msg.Type, s.clientID)
		}
		return h.writeReject(ctx, s, msg, proto.CommandReject{Seq: seq, Reason: reason, Retry: intake.Retryable(reason)}, false)
	}

	timer := time.NewTimer(h.replyTimeout)
	defer timer.Stop()

	var reply sim.Reply
	select {
	case reply = <-replies:
	case <-timer.C:
		return h.writeReject(ctx, s, msg, proto.CommandReject{Seq: seq, Reason: RejectReplyTimeout, Tick: h.loop.Tick()}, true)
	case <-ctx.Done():
		return false
	}

	data, err := proto.EncodeReply(seq, reply)
	if err != nil {
		h.logger.Printf("failed to marshal reply for %s: %v", s.clientID, err)
		return true
	}
	s.remember(seq, data)
	return s.write(data)
}

func (h *Handler) writeReject(ctx context.Context, s *session, msg proto.ClientMessage, reject proto.CommandReject, remember bool) bool {
	network.CommandRejected(ctx, s.publisher, h.loop.Tick(), s.actor, network.CommandRejectedPayload{
		RequestID: msg.ID,
		Reason:    reject.Reason,
		Retry:     reject.Retry,
	}, map[string]any{"type": msg.Type})

	data, err := proto.EncodeCommandReject(reject)
	if err != nil {
		h.logger.Printf("failed to marshal reject for %s: %v", s.clientID, err)
		return true
	}
	if remember {
		s.remember(reject.Seq, data)
	}
	return s.write(data)
}

func (h *Handler) writeHeartbeat(s *session, msg proto.ClientMessage) bool {
	now := h.clock.Now()
	var rtt int64
	if msg.SentAt > 0 {
		rtt = now.UnixMilli() - msg.SentAt
		if rtt < 0 {
			rtt = 0
		}
	}
	data, err := proto.EncodeHeartbeat(proto.Heartbeat{
		ServerTime: now.UnixMilli(),
		ClientTime: msg.SentAt,
		RTTMillis:  rtt,
	})
	if err != nil {
		h.logger.Printf("failed to marshal heartbeat ack for %s: %v", s.clientID, err)
		return true
	}
	return s.write(data)
}

func (h *Handler) trackConnected(delta int64) {
	count := h.connected.Add(delta)
	if h.metrics != nil && count >= 0 {
		h.metrics.Store(telemetry.KeyClientsConnected, uint64(count))
	}
}

func (s *session) remember(seq uint64, data []byte) {
	if seq == 0 {
		return
	}
	s.lastSeq = seq
	s.lastReply = data
}

func (s *session) write(data []byte) bool {
	return s.conn.WriteMessage(websocket.TextMessage, data) == nil
}
