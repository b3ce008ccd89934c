package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/poster-outreach/internal/common"
	"github.com/joseph-ayodele/poster-outreach/internal/contacts"
	"github.com/joseph-ayodele/poster-outreach/internal/events"
	"github.com/joseph-ayodele/poster-outreach/internal/extract"
	"github.com/joseph-ayodele/poster-outreach/internal/llm"
	"github.com/joseph-ayodele/poster-outreach/internal/llm/cache"
	"github.com/joseph-ayodele/poster-outreach/internal/llm/gemini"
	"github.com/joseph-ayodele/poster-outreach/internal/llm/openai"
	"github.com/joseph-ayodele/poster-outreach/internal/mailer"
	"github.com/joseph-ayodele/poster-outreach/internal/ocr"
	"github.com/joseph-ayodele/poster-outreach/internal/pipeline"
	"github.com/joseph-ayodele/poster-outreach/internal/store"
	"github.com/joseph-ayodele/poster-outreach/internal/store/memory"
	"github.com/joseph-ayodele/poster-outreach/internal/store/postgres"
	"github.com/joseph-ayodele/poster-outreach/internal/store/sqlite"
	"github.com/joseph-ayodele/poster-outreach/internal/store/xlsx"
	"github.com/joseph-ayodele/poster-outreach/internal/templates"
)

// app holds every long-lived collaborator built from config.
type app struct {
	completer llm.Completer
	backend   store.Backend
	recorder  *store.Recorder
	publisher events.Publisher
	processor *pipeline.Processor
	registry  *templates.Registry
	sender    *mailer.Sender

	logger  *slog.Logger
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("posterd.close.failed", "error", err)
		}
	}
}

// buildApp wires the full pipeline. Callers must Close the result.
func buildApp(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &app{logger: logger}
	fail := func(err error) (*app, error) {
		a.Close()
		return nil, err
	}

	completer, closeCache, err := newCompleter(ctx, cfg, logger)
	if err != nil {
		return fail(err)
	}
	a.completer = completer
	a.closers = append(a.closers, closeCache)

	backend, err := openBackend(ctx, cfg.Store, logger)
	if err != nil {
		return fail(err)
	}
	a.backend = backend
	a.closers = append(a.closers, backend.Close)
	a.recorder = store.NewRecorder(backend, cfg.Store.Name, logger)

	pub, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return fail(err)
	}
	a.publisher = pub
	a.closers = append(a.closers, pub.Close)

	reg, err := newRegistry(cfg.Templates)
	if err != nil {
		return fail(err)
	}
	a.registry = reg

	engine := newEngine(cfg.OCR, logger)
	extractor := extract.NewExtractor(engine, completer, logger)
	a.processor = pipeline.NewProcessor(extractor, contacts.PlaceholderResolver{}, a.recorder, logger).WithPublisher(pub)
	a.sender = newSender(cfg.Mail, logger).WithPublisher(pub)
	return a, nil
}

// newCompleter selects the model provider and wraps it in the Redis cache when configured.
func newCompleter(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.Completer, func() error, error) {
	noop := func() error { return nil }

	var base llm.Completer
	switch cfg.LLM.Provider {
	case "openai":
		base = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	case "gemini":
		base = gemini.NewClient(gemini.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	default:
		return nil, noop, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	if cfg.Cache.RedisAddr == "" {
		return base, noop, nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx, rc); err != nil {
		_ = rc.Close()
		return nil, noop, fmt.Errorf("connect redis at %s: %w", cfg.Cache.RedisAddr, err)
	}
	logger.Info("posterd.cache.enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.TTL.String())
	return cache.New(base, rc, cfg.Cache.TTL, logger), rc.Close, nil
}

func openBackend(ctx context.Context, sc common.StoreConfig, logger *slog.Logger) (store.Backend, error) {
	switch sc.Backend {
	case "xlsx":
		return xlsx.Open(sc.Path, logger)
	case "sqlite":
		return sqlite.Open(ctx, sc.Path, logger)
	case "postgres":
		return postgres.Open(ctx, postgres.Config{
			DSN:             sc.DSN,
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: 30 * time.Minute,
			MaxConnIdleTime: 5 * time.Minute,
			DialTimeout:     3 * time.Second,
		}, logger)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}

func newEngine(oc common.OCRConfig, logger *slog.Logger) *ocr.Engine {
	return ocr.NewEngine(ocr.Config{
		Tesseract:   oc.Tesseract,
		Lang:        oc.Lang,
		TessdataDir: oc.TessdataDir,
		OEM:         oc.OEM,
		PSM:         oc.PSM,
	}, logger)
}

func newPublisher(ec common.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	if ec.NATSURL == "" {
		return events.NewLogPublisher(ec.SubjectPrefix, logger), nil
	}
	return events.NewNATSPublisher(ec.NATSURL, ec.SubjectPrefix, logger)
}

func newRegistry(tc common.TemplatesConfig) (*templates.Registry, error) {
	if tc.Path == "" {
		return templates.Default(), nil
	}
	extra, err := templates.LoadFile(tc.Path)
	if err != nil {
		return nil, err
	}
	return templates.NewRegistry(extra...)
}

func newSender(mc common.MailConfig, logger *slog.Logger) *mailer.Sender {
	return mailer.NewSender(mailer.Config{
		Host:     mc.Host,
		Port:     mc.Port,
		Username: mc.Username,
		Password: mc.Password,
		From:     mc.From,
		Timeout:  mc.Timeout,
	}, logger)
}
