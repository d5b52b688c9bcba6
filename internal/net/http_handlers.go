package net

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	nethttp "net/http"
	"sort"
	"strconv"
	"time"

	"game-interactor/effects/catalog"
	"game-interactor/internal/interactor"
	"game-interactor/internal/observability"
	"game-interactor/internal/randomizer/fishsanity"
	"game-interactor/internal/sim"
	"game-interactor/internal/storage"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
)

const (
	defaultLedgerLimit = 50
	maxLedgerLimit     = 500
	defaultSubmitWait  = 5 * time.Second
)

// Simulation is the loop surface served over HTTP.
type Simulation interface {
	Submit(ctx context.Context, cmd sim.Command) (sim.Reply, error)
	Snapshot() sim.Snapshot
	Tick() uint64
}

// Catalog lists the interactions callers may request by id.
type Catalog interface {
	Entries() map[string]catalog.Entry
}

// Fishsanity reports which fish are randomizer checks.
type Fishsanity interface {
	Options(source fishsanity.Source) fishsanity.PondOptions
	Locations(source fishsanity.Source) (active, inactive []fishsanity.Check)
	Report() fishsanity.PondReport
}

type HTTPHandlerConfig struct {
	Logger      telemetry.Logger
	Catalog     Catalog
	Fishsanity  Fishsanity
	Ledger      storage.Ledger
	Metrics     *logging.Metrics
	RouterStats func() logging.RouterStats
	TickRate    int
	// SubmitTimeout bounds how long a request waits for the loop.
	SubmitTimeout time.Duration
	WebSocket     nethttp.Handler
	Observability observability.Config
}

type handlers struct {
	sim     Simulation
	cfg     HTTPHandlerConfig
	logger  telemetry.Logger
	timeout time.Duration
}

func NewHTTPHandler(simulation Simulation, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	timeout := cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = defaultSubmitWait
	}
	h := &handlers{sim: simulation, cfg: cfg, logger: logger, timeout: timeout}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/diagnostics", h.diagnostics)
	mux.HandleFunc("/effects", h.effects)
	mux.HandleFunc("/interactions", h.interactions)
	mux.HandleFunc("/interactions/apply", h.submitRequest(sim.CommandApply))
	mux.HandleFunc("/interactions/query", h.submitRequest(sim.CommandQuery))
	mux.HandleFunc("/interactions/remove", h.remove)
	mux.HandleFunc("/interactions/reset", h.reset)
	mux.HandleFunc("/fishsanity", h.fishsanity)

	if cfg.WebSocket != nil {
		mux.Handle("/ws", cfg.WebSocket)
	}
	cfg.Observability.Mount(mux)

	return mux
}

func (h *handlers) diagnostics(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	payload := struct {
		Status     string               `json:"status"`
		ServerTime int64                `json:"serverTime"`
		TickRate   int                  `json:"tickRate"`
		Simulation sim.Snapshot         `json:"simulation"`
		Telemetry  map[string]uint64    `json:"telemetry"`
		Logging    *logging.RouterStats `json:"logging,omitempty"`
	}{
		Status:     "ok",
		ServerTime: time.Now().UnixMilli(),
		TickRate:   h.cfg.TickRate,
		Simulation: h.sim.Snapshot(),
		Telemetry:  h.cfg.Metrics.Snapshot(),
	}
	if h.cfg.RouterStats != nil {
		stats := h.cfg.RouterStats()
		payload.Logging = &stats
	}
	if payload.Telemetry == nil {
		payload.Telemetry = map[string]uint64{}
	}
	writeJSON(w, nethttp.StatusOK, payload)
}

type catalogEntry struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Removable  bool               `json:"removable"`
	Definition catalog.Definition `json:"definition"`
}

func (h *handlers) effects(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	entries := []catalogEntry{}
	if h.cfg.Catalog != nil {
		for _, entry := range h.cfg.Catalog.Entries() {
			entries = append(entries, catalogEntry{
				ID:         entry.ID,
				Kind:       string(entry.Kind),
				Removable:  entry.Removable,
				Definition: entry.Definition,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	writeJSON(w, nethttp.StatusOK, struct {
		Entries []catalogEntry `json:"entries"`
	}{Entries: entries})
}

func (h *handlers) interactions(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	if h.cfg.Ledger == nil {
		httpError(w, "interaction ledger disabled", nethttp.StatusNotFound)
		return
	}

	query := r.URL.Query()
	if requestID := query.Get("request"); requestID != "" {
		records, err := h.cfg.Ledger.ByRequest(r.Context(), requestID)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, "unknown request", nethttp.StatusNotFound)
			return
		}
		if err != nil {
			h.logger.Printf("ledger lookup %s failed: %v", requestID, err)
			httpError(w, "ledger unavailable", nethttp.StatusInternalServerError)
			return
		}
		writeJSON(w, nethttp.StatusOK, struct {
			Records []storage.Record `json:"records"`
		}{Records: records})
		return
	}

	limit := defaultLedgerLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpError(w, "invalid limit", nethttp.StatusBadRequest)
			return
		}
		limit = min(parsed, maxLedgerLimit)
	}
	records, err := h.cfg.Ledger.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Printf("ledger listing failed: %v", err)
		httpError(w, "ledger unavailable", nethttp.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.Record{}
	}
	writeJSON(w, nethttp.StatusOK, struct {
		Records []storage.Record `json:"records"`
	}{Records: records})
}

func (h *handlers) fishsanity(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	if h.cfg.Fishsanity == nil {
		httpError(w, "fishsanity disabled", nethttp.StatusNotFound)
		return
	}
	source, ok := fishsanity.ParseSource(r.URL.Query().Get("source"))
	if !ok {
		httpError(w, "invalid source", nethttp.StatusBadRequest)
		return
	}
	opts := h.cfg.Fishsanity.Options(source)
	active, inactive := h.cfg.Fishsanity.Locations(source)
	report := h.cfg.Fishsanity.Report()
	writeJSON(w, nethttp.StatusOK, struct {
		Source   string                `json:"source"`
		Mode     string                `json:"mode"`
		NumFish  uint8                 `json:"numFish"`
		AgeSplit bool                  `json:"ageSplit"`
		Active   []string              `json:"active"`
		Inactive []string              `json:"inactive"`
		Pond     fishsanity.PondReport `json:"pond"`
	}{
		Source:   source.String(),
		Mode:     opts.Mode.String(),
		NumFish:  opts.NumFish,
		AgeSplit: opts.AgeSplit,
		Active:   checkNames(active),
		Inactive: checkNames(inactive),
		Pond:     report,
	})
}

func checkNames(checks []fishsanity.Check) []string {
	names := make([]string, 0, len(checks))
	for _, check := range checks {
		names = append(names, check.String())
	}
	return names
}

func (h *handlers) submitRequest(cmdType sim.CommandType) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		var req interactor.Request
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Entry == "" && req.Kind == "" {
			httpError(w, "entry or kind is required", nethttp.StatusBadRequest)
			return
		}
		h.submit(w, r, sim.Command{Type: cmdType, ActorID: actorID(r), Request: &req})
	}
}

func (h *handlers) remove(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	var body struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.ID == "" {
		httpError(w, "id is required", nethttp.StatusBadRequest)
		return
	}
	h.submit(w, r, sim.Command{Type: sim.CommandRemove, ActorID: actorID(r), RequestID: body.ID})
}

func (h *handlers) reset(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
		return
	}
	h.submit(w, r, sim.Command{Type: sim.CommandReset, ActorID: actorID(r)})
}

func (h *handlers) submit(w nethttp.ResponseWriter, r *nethttp.Request, cmd sim.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	reply, err := h.sim.Submit(ctx, cmd)
	switch {
	case errors.Is(err, sim.ErrCommandDropped):
		w.Header().Set("Retry-After", "1")
		httpError(w, err.Error(), nethttp.StatusServiceUnavailable)
		return
	case errors.Is(err, context.DeadlineExceeded):
		httpError(w, "simulation did not answer in time", nethttp.StatusGatewayTimeout)
		return
	case err != nil:
		httpError(w, err.Error(), nethttp.StatusInternalServerError)
		return
	}

	status := nethttp.StatusOK
	if cmd.Type != sim.CommandReset {
		status = StatusForOutcome(reply.Outcome)
		if reply.Outcome.Retry() {
			w.Header().Set("Retry-After", "1")
		}
	}
	writeJSON(w, status, reply)
}

// StatusForOutcome maps an interaction result onto an HTTP status code.
func StatusForOutcome(outcome interactor.Outcome) int {
	switch {
	case outcome.Result.OK():
		return nethttp.StatusOK
	case outcome.Result.Retryable():
		return nethttp.StatusConflict
	default:
		return nethttp.StatusUnprocessableEntity
	}
}

func actorID(r *nethttp.Request) string {
	if id := r.Header.Get("X-Client-ID"); id != "" {
		return id
	}
	return "http"
}

func decodeBody(w nethttp.ResponseWriter, r *nethttp.Request, dst any) bool {
	if r.Body == nil {
		httpError(w, "invalid payload", nethttp.StatusBadRequest)
		return false
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		httpError(w, "invalid payload", nethttp.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w nethttp.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	data, _ := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}
