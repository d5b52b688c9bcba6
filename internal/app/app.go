// Package app assembles the interaction server from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"game-interactor/effects/catalog"
	"game-interactor/internal/config"
	"game-interactor/internal/effects"
	"game-interactor/internal/game"
	"game-interactor/internal/interactor"
	servernet "game-interactor/internal/net"
	"game-interactor/internal/net/ws"
	"game-interactor/internal/randomizer/fishsanity"
	"game-interactor/internal/sim"
	"game-interactor/internal/storage"
	"game-interactor/internal/storage/sqlite"
	"game-interactor/internal/telemetry"
	"game-interactor/logging"
	loggingSinks "game-interactor/logging/sinks"
)

const shutdownGrace = 5 * time.Second

// Server is a fully wired interaction server that has not started ticking.
type Server struct {
	Handler http.Handler
	Loop    *sim.Loop
	Router  *logging.Router
	Ledger  *sqlite.Store
	Logger  telemetry.Logger

	// Fishsanity is refreshed after every host step; other goroutines read
	// it through Report and the static option queries.
	Fishsanity *fishsanity.Tracker

	cfg     config.Config
	closers []func(context.Context) error
}

// Option adjusts Build beyond what the environment configures.
type Option func(*buildOptions)

type buildOptions struct {
	sinks []logging.NamedSink
}

// WithSink attaches an extra router sink, such as an in-memory recorder.
func WithSink(named logging.NamedSink) Option {
	return func(o *buildOptions) {
		o.sinks = append(o.sinks, named)
	}
}

// Build constructs every component described by cfg.
func Build(cfg config.Config, logger telemetry.Logger, opts ...Option) (*Server, error) {
	var options buildOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	cfg = cfg.Normalized()
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	s := &Server{cfg: cfg, Logger: logger}
	metrics := &logging.Metrics{}
	telemetryMetrics := telemetry.WrapMetrics(metrics)

	logCfg := cfg.Logging()
	if err := logCfg.Validate(); err != nil {
		return nil, fmt.Errorf("logging config: %w", err)
	}
	var sinks []logging.NamedSink
	if logCfg.HasSink(logging.SinkConsole) {
		sinks = append(sinks, logging.NamedSink{Name: logging.SinkConsole, Sink: loggingSinks.NewConsoleSink(os.Stdout, logCfg.Console)})
	}
	if logCfg.HasSink(logging.SinkJSON) {
		file, err := os.OpenFile(logCfg.JSON.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log %s: %w", logCfg.JSON.FilePath, err)
		}
		sinks = append(sinks, logging.NamedSink{Name: logging.SinkJSON, Sink: loggingSinks.NewJSON(file, logCfg.JSON)})
	}

	var ledger storage.Ledger
	if cfg.LedgerPath != "" {
		store, err := sqlite.Open(cfg.LedgerPath)
		if err != nil {
			s.closeSinks(sinks)
			return nil, fmt.Errorf("open interaction ledger: %w", err)
		}
		s.Ledger = store
		ledger = store
		sinks = append(sinks, logging.NamedSink{
			Name:       logging.SinkLedger,
			Sink:       storage.NewSink(store, telemetryMetrics),
			Categories: []string{logging.CategoryInteractions},
		})
	}

	sinks = append(sinks, options.sinks...)
	router, err := logging.NewRouter(logging.SystemClock{}, logCfg, sinks)
	if err != nil {
		s.closeSinks(sinks)
		s.closeLedger()
		return nil, fmt.Errorf("failed to construct logging router: %w", err)
	}
	s.Router = router
	s.closers = append(s.closers, router.Close)
	if s.Ledger != nil {
		s.closers = append(s.closers, func(context.Context) error { return s.Ledger.Close() })
	}

	fail := func(err error) (*Server, error) {
		_ = s.Close(context.Background())
		return nil, err
	}

	registry := effects.Registry()
	resolver, err := catalog.Load(registry, cfg.CatalogPaths...)
	if err != nil {
		return fail(fmt.Errorf("load interaction catalog: %w", err))
	}

	world := game.NewMemory(cfg.Seed)
	it, err := interactor.New(world, registry, resolver, interactor.Options{
		Publisher: router,
		Metrics:   telemetryMetrics,
	})
	if err != nil {
		return fail(fmt.Errorf("construct interactor: %w", err))
	}

	deps := sim.Deps{
		Logger:    logger,
		Metrics:   telemetryMetrics,
		Clock:     logging.SystemClock{},
		Publisher: router,
	}
	host, err := sim.NewHost(world, it, deps)
	if err != nil {
		return fail(fmt.Errorf("construct simulation host: %w", err))
	}
	loop, err := sim.NewEngine(host, sim.WithLoopConfig(sim.LoopConfig{
		TickRate:        cfg.TickRate,
		CatchupMaxTicks: cfg.CatchupMaxTicks,
		CommandCapacity: cfg.CommandCapacity,
		PerActorLimit:   cfg.PerClientLimit,
	}))
	if err != nil {
		return fail(fmt.Errorf("construct simulation loop: %w", err))
	}
	s.Loop = loop

	pondOptions := cfg.Fishsanity()
	tracker, err := fishsanity.New(world, fishsanity.StaticOptions{fishsanity.SourceRando: pondOptions},
		fishsanity.WithPublisher(router),
		fishsanity.WithTick(loop.Tick),
	)
	if err != nil {
		return fail(fmt.Errorf("construct fishsanity tracker: %w", err))
	}
	tracker.InitializeFromSave()
	tracker.Refresh()
	host.OnStep(tracker.Refresh)
	s.Fishsanity = tracker

	wsHandler := ws.NewHandler(loop, ws.HandlerConfig{
		Logger:       logger,
		Publisher:    router,
		Metrics:      telemetryMetrics,
		ReplyTimeout: cfg.ReplyTimeout,
		Entries:      resolver.IDs,
	})

	s.Handler = servernet.NewHTTPHandler(loop, servernet.HTTPHandlerConfig{
		Logger:        logger,
		Catalog:       resolver,
		Fishsanity:    tracker,
		Ledger:        ledger,
		Metrics:       metrics,
		RouterStats:   router.Stats,
		TickRate:      cfg.TickRate,
		SubmitTimeout: cfg.ReplyTimeout,
		WebSocket:     http.HandlerFunc(wsHandler.Handle),
		Observability: cfg.Observability(),
	})
	return s, nil
}

// Close flushes the logging router and releases the ledger.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for _, closer := range s.closers {
		if err := closer(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Server) closeSinks(sinks []logging.NamedSink) {
	for _, named := range sinks {
		_ = named.Sink.Close(context.Background())
	}
}

func (s *Server) closeLedger() {
	if s.Ledger != nil {
		_ = s.Ledger.Close()
	}
}

// Run ticks the simulation and serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	stop := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		s.Loop.Run(stop)
	}()

	srv := &http.Server{Addr: s.cfg.ListenAddr, Handler: s.Handler}
	serveErr := make(chan error, 1)
	go func() {
		s.Logger.Printf("server listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("server shutdown: %w", err)
		}
		cancel()
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	close(stop)
	<-loopDone

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
	defer cancel()
	if err := s.Close(closeCtx); err != nil {
		s.Logger.Printf("failed to close server resources: %v", err)
	}
	return runErr
}

// Run builds the server from cfg and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	server, err := Build(cfg, nil)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}
