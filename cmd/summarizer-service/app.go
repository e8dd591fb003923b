package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"mrsummarizer/internal/codehost"
	"mrsummarizer/internal/config"
	"mrsummarizer/internal/constants"
	"mrsummarizer/internal/dedupe"
	"mrsummarizer/internal/logger"
	"mrsummarizer/internal/mailbox"
	"mrsummarizer/internal/orchestrator"
	"mrsummarizer/internal/poller"
	"mrsummarizer/internal/queue"
	"mrsummarizer/internal/summarize"
	"mrsummarizer/pkg/bootstrap"
	"mrsummarizer/pkg/health"
	"mrsummarizer/pkg/logging"
	"mrsummarizer/pkg/metrics"
	"mrsummarizer/pkg/models"
)

const serviceName = "summarizer-service"

type App struct {
	*bootstrap.Base
	redis        *redis.Client
	store        dedupe.Store
	queue        *queue.Queue
	poller       *poller.Poller
	orchestrator *orchestrator.Orchestrator
	server       *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(serviceName)
	}
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize dedupe store: %w", err)
	}

	if err := a.InitializePipeline(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	a.queue = queue.New(a.Config.Pipeline.QueueCapacity)

	mailboxClient := mailbox.NewIMAPClient(a.Config.Mailbox, a.Logger)
	a.poller = poller.New(mailboxClient, a.store, a.queue, a.Config.Mailbox, a.Config.Poller, a.Logger)

	metrics.RegisterPollerMetrics()
	metrics.RegisterPipelineMetrics()
	if a.Config.CircuitBreaker.Enabled {
		metrics.RegisterCircuitBreakerMetrics()
	}

	a.initHTTPServer()

	return nil
}

// InitializePipeline wires only the orchestrator and its downstream clients.
// The serve path calls it as part of Initialize; the one-shot process command
// calls it alone.
func (a *App) InitializePipeline() error {
	host := codehost.NewGitLabClient(a.Config.CodeHost, a.Config.Retry, a.Logger)

	provider, err := summarize.NewProvider(a.Config.Summarizer, a.Config.Retry, a.Logger)
	if err != nil {
		return err
	}
	a.Logger.Infow("Summarizer provider ready", "provider", provider.Name())

	a.orchestrator = orchestrator.New(host, provider, a.Config.Pipeline.AllowedStates, a.Logger)
	return nil
}

func (a *App) initStore(ctx context.Context) error {
	store, rdb, err := dedupe.NewStore(ctx, a.Config.Dedupe, a.Logger)
	if err != nil {
		return err
	}

	if a.Config.CircuitBreaker.Enabled {
		store = dedupe.NewCircuitBreakerStore(store, a.Config.CircuitBreaker)
		initCtx := logging.WithServiceName(context.Background(), serviceName)
		a.Logger.InfowCtx(initCtx, "Circuit breaker enabled for dedupe store")
	}

	a.store = store
	a.redis = rdb
	return nil
}

func (a *App) initHTTPServer() {
	mux := http.NewServeMux()

	healthRegistry := health.NewCheckerRegistry()
	if a.redis != nil {
		healthRegistry.Register(health.NewRedisChecker(a.redis))
	}
	healthRegistry.Register(health.NewFuncChecker("dedupe", func(ctx context.Context) error {
		_, err := a.store.Count(ctx)
		return err
	}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		h := healthRegistry.Check(r.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprintf(w, `{"status":"%s","timestamp":"%s"}`, h.Status, h.Timestamp.Format(time.RFC3339))
	})

	mux.Handle("/metrics", promhttp.Handler())

	a.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler: mux,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.poller.Run(gCtx)
	})

	g.Go(func() error {
		return a.consumeEvents(gCtx)
	})

	// The HTTP server has no context of its own; close it when the group
	// context ends so g.Wait can return.
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// consumeEvents is the single queue consumer. After cancellation no new runs
// start, but a run already handed to the orchestrator finishes; the detached
// context keeps downstream calls alive through shutdown.
func (a *App) consumeEvents(ctx context.Context) error {
	for {
		ev, ok := a.queue.Dequeue(ctx, time.Second)
		if !ok {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}

		a.orchestrator.Process(context.WithoutCancel(ctx), ev)
	}
}

// ProcessOnce runs the pipeline for a single work item reference without
// touching the mailbox or the dedupe store.
func (a *App) ProcessOnce(ctx context.Context, reference string) orchestrator.Result {
	ev := models.NewAssignmentEvent("", reference, "manual invocation", time.Now())
	return a.orchestrator.Process(ctx, ev)
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx := logging.WithServiceName(ctx, serviceName)
	a.Logger.InfowCtx(shutdownCtx, "Shutting down summarizer service")

	additionalShutdown := func(ctx context.Context) []error {
		var errs []error

		if a.store != nil {
			persistCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := a.store.Persist(persistCtx); err != nil {
				errs = append(errs, fmt.Errorf("dedupe store persist error: %w", err))
			}
		}

		if a.redis != nil {
			if err := a.redis.Close(); err != nil {
				errs = append(errs, fmt.Errorf("redis close error: %w", err))
			}
		}

		return errs
	}

	return a.Base.Shutdown(ctx, additionalShutdown)
}
