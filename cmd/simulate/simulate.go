// Package simulate contains the command to simulate users paging through
// live inboxes while the store underneath them changes.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/livelist/livelist/internal/concurrency"
	"github.com/livelist/livelist/internal/config"
	"github.com/livelist/livelist/pkg/invalidation"
	"github.com/livelist/livelist/pkg/logger"
	"github.com/livelist/livelist/pkg/paging"
	"github.com/livelist/livelist/pkg/storage/memory"
	"github.com/livelist/livelist/pkg/telemetry"
)

var errInjected = errors.New("injected page load failure")

var subjects = []string{
	"weekly report",
	"lunch on friday?",
	"invoice #%d",
	"build failed",
	"re: quarterly report",
	"team offsite",
}

func NewSimulateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate users paging through live inboxes",
		Long: `Simulate users paging through live inboxes.

Seeds an in-memory message store, then runs concurrent readers that page
through their inbox with a request coordinator each, while a writer inserts
and deletes messages underneath them.`,
		RunE: run,
		Args: cobra.NoArgs,
	}

	bindSimulateFlags(cmd)

	return cmd
}

// ReadConfig returns the livelist configuration based on the values provided in the 'config.yaml' file.
// The 'config.yaml' file is loaded from '/etc/livelist', '$HOME/.livelist', or the current working directory. If no configuration
// file is present, the default values are returned.
func ReadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	viper.SetTypeByDefaultValue(true)
	err := viper.ReadInConfig()
	if err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}

	if err := cfg.Verify(); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := startTracing(cfg.Trace)
	defer func() {
		if err := shutdownTracing(); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	report, err := Run(ctx, cfg, log)
	if err != nil {
		return err
	}

	log.Info("simulation finished", report.fields()...)
	return nil
}

// Report summarizes a simulation run.
type Report struct {
	Pages         int64
	Items         int64
	Retries       int64
	Failures      int64
	Writes        int64
	Invalidations int64
}

func (r Report) fields() []zap.Field {
	return []zap.Field{
		zap.Int64("pages", r.Pages),
		zap.Int64("items", r.Items),
		zap.Int64("retries", r.Retries),
		zap.Int64("failures", r.Failures),
		zap.Int64("writes", r.Writes),
		zap.Int64("invalidations", r.Invalidations),
	}
}

type stats struct {
	pages         atomic.Int64
	items         atomic.Int64
	retries       atomic.Int64
	failures      atomic.Int64
	writes        atomic.Int64
	invalidations atomic.Int64
}

func (s *stats) report() Report {
	return Report{
		Pages:         s.pages.Load(),
		Items:         s.items.Load(),
		Retries:       s.retries.Load(),
		Failures:      s.failures.Load(),
		Writes:        s.writes.Load(),
		Invalidations: s.invalidations.Load(),
	}
}

// Run executes the simulation described by cfg until its duration elapses
// or ctx is done.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) (Report, error) {
	sim := cfg.Simulation

	ctx, cancel := context.WithTimeout(ctx, sim.Duration)
	defer cancel()

	backend := memory.New(memory.WithPageSize(sim.PageSize), memory.WithLogger(log.Named("memory")))
	defer backend.Close()

	now := time.Now()
	w := &writer{backend: backend, log: log.Named("writer"), failEvery: sim.FailEvery, now: now}
	if err := w.seed(ctx, sim.Messages); err != nil {
		return Report{}, err
	}

	var st stats
	w.stats = &st

	broadcaster := invalidation.NewBroadcaster(invalidation.WithLogger(log.Named("invalidation")))
	defer broadcaster.Close()

	events, unsubscribe := broadcaster.Subscribe(ctx)
	drained := concurrency.Drain(events, func(e paging.InvalidationEvent) {
		st.invalidations.Add(1)
		log.Debug("view invalidated",
			zap.Stringer("descriptor", e.Descriptor),
			zap.String("reason", string(e.Reason)),
		)
	})
	defer func() {
		unsubscribe()
		drained.Wait()
	}()

	if cfg.Metrics.Enabled {
		shutdown := serveMetrics(cfg.Metrics.Addr, log)
		defer shutdown()
	}

	sessions := memory.NewSessionStore()

	g, gctx := errgroup.WithContext(ctx)
	if sim.WriteInterval > 0 {
		g.Go(func() error {
			return w.run(gctx, sim.WriteInterval)
		})
	}
	g.Go(func() error {
		pool := concurrency.NewPool(gctx, sim.Readers)
		for i := range sim.Readers {
			userID := fmt.Sprintf("user-%d", i+1)
			sessions.Login(userID)

			userLog := log.With(zap.String("user_id", userID))
			r := &reader{
				userID: userID,
				pages:  sim.Pages,
				stats:  &st,
				log:    userLog.Named("reader"),
				coordinator: paging.NewCoordinator[memory.Message](backend, sessions,
					paging.WithLogger(userLog.Named("coordinator")),
					paging.WithGraceWindow(cfg.Paging.GraceWindow),
					paging.WithInvalidationNotifier(broadcaster),
				),
			}
			pool.Go(r.run)
		}
		return pool.Wait()
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return st.report(), err
	}
	return st.report(), nil
}

func startTracing(cfg config.TraceConfig) func() error {
	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error {
			return nil
		}
	}

	options := []telemetry.TracerOption{
		telemetry.WithOTLPEndpoint(cfg.OTLP.Endpoint),
		telemetry.WithServiceName(cfg.ServiceName),
		telemetry.WithSamplingRatio(cfg.SampleRatio),
	}
	if !cfg.OTLP.TLS.Enabled {
		options = append(options, telemetry.WithOTLPInsecure())
	}

	tp := telemetry.MustNewTracerProvider(options...)
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()
		return errors.Join(tp.ForceFlush(ctx), tp.Shutdown(ctx))
	}
}

func serveMetrics(addr string, log logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info(fmt.Sprintf("📈 starting prometheus metrics server on '%s'", addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start prometheus metrics server", zap.Error(err))
		}
		log.Info("metrics server shut down.")
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(ctx)
		<-done
	}
}

// reader pages through the inbox of one user, alternating between the
// views of a mail client.
type reader struct {
	userID      string
	pages       int
	coordinator *paging.Coordinator[memory.Message]
	stats       *stats
	log         logger.Logger
}

func (r *reader) descriptors() []paging.Descriptor {
	return []paging.Descriptor{
		paging.ListingDescriptor(r.userID, memory.FilterLabel, "inbox", false),
		paging.ListingDescriptor(r.userID, memory.FilterLabel, "inbox", true),
		paging.SearchDescriptor(r.userID, "report"),
	}
}

func (r *reader) run(ctx context.Context) error {
	defer func() {
		r.coordinator.Terminate(r.userID)
		r.coordinator.Close()
	}()

	views := r.descriptors()
	for pass := 0; ; pass++ {
		d := views[pass%len(views)]

		if err := r.load(ctx, d, paging.PageFirst); err != nil {
			return err
		}
		for range r.pages - 1 {
			if err := r.load(ctx, d, paging.PageNext); err != nil {
				return err
			}
		}
		if err := r.load(ctx, d, paging.PageAll); err != nil {
			return err
		}
	}
}

// load requests one page, retrying upstream failures. A page that still
// fails after the retries is logged and skipped.
func (r *reader) load(ctx context.Context, d paging.Descriptor, page paging.PageToLoad) error {
	ctx = logger.ContextWithRequestID(ctx, ulid.Make().String())

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 10 * time.Millisecond
	policy.MaxInterval = 100 * time.Millisecond

	err := backoff.RetryNotify(
		func() error {
			items, err := r.coordinator.GetItems(ctx, r.userID, paging.PageSpec{Descriptor: d, Page: page})
			if err == nil {
				r.stats.pages.Add(1)
				r.stats.items.Add(int64(len(items)))
				return nil
			}

			var upstream *paging.UpstreamError
			if errors.As(err, &upstream) {
				r.stats.failures.Add(1)
				return err
			}
			return backoff.Permanent(err)
		},
		backoff.WithContext(backoff.WithMaxRetries(policy, 3), ctx),
		func(err error, next time.Duration) {
			r.stats.retries.Add(1)
			r.log.DebugWithContext(ctx, "retrying page load",
				zap.Stringer("page", page),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		},
	)

	var upstream *paging.UpstreamError
	if errors.As(err, &upstream) {
		r.log.WarnWithContext(ctx, "giving up on page", zap.Stringer("page", page), zap.Error(err))
		return nil
	}
	return err
}

// writer mutates the store while the readers page through it.
type writer struct {
	backend   *memory.MemoryBackend
	log       logger.Logger
	stats     *stats
	failEvery int
	now       time.Time

	seq int
	ids []string
}

func (w *writer) message() memory.Message {
	w.seq++

	subject := subjects[rand.IntN(len(subjects))]
	if subject == "invoice #%d" {
		subject = fmt.Sprintf(subject, w.seq)
	}

	labels := []string{"inbox"}
	if rand.IntN(4) == 0 {
		labels = []string{"archive"}
	}

	return memory.Message{
		ID:      fmt.Sprintf("msg-%06d", w.seq),
		Subject: subject,
		Labels:  labels,
		Unread:  rand.IntN(2) == 0,
		Time:    w.now.Add(time.Duration(w.seq) * time.Second),
	}
}

func (w *writer) seed(ctx context.Context, n int) error {
	msgs := make([]memory.Message, 0, n)
	for range n {
		msg := w.message()
		msgs = append(msgs, msg)
		w.ids = append(w.ids, msg.ID)
	}
	if err := w.backend.Insert(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	return nil
}

func (w *writer) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := w.write(ctx, n); err != nil {
			return err
		}
		w.stats.writes.Add(1)

		if w.failEvery > 0 && n%w.failEvery == 0 {
			w.backend.FailNext(errInjected)
		}
	}
}

// write inserts a new message on top of the store. Every fourth write deletes
// a random message instead and every sixth one marks a random message read.
func (w *writer) write(ctx context.Context, n int) error {
	if n%6 == 0 && len(w.ids) > 0 {
		id := w.ids[rand.IntN(len(w.ids))]
		w.log.Debug("marking message read", zap.String("message_id", id))
		return w.backend.MarkRead(ctx, id, true)
	}
	if n%4 == 0 && len(w.ids) > 0 {
		i := rand.IntN(len(w.ids))
		id := w.ids[i]
		w.ids = append(w.ids[:i], w.ids[i+1:]...)
		w.log.Debug("deleting message", zap.String("message_id", id))
		return w.backend.Delete(ctx, id)
	}

	msg := w.message()
	w.ids = append(w.ids, msg.ID)
	w.log.Debug("inserting message", zap.String("message_id", msg.ID))
	return w.backend.Insert(ctx, msg)
}
