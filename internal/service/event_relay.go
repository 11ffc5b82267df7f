package service

import (
	"context"
	"fmt"
	"log/slog"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/kafka"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/storage/postgres"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// EventRelay публикует события журнала в kafka. Событие помечается
// опубликованным в той же транзакции, в которой было выбрано.
type EventRelay struct {
	eventRepo postgres.EventRepository
	txManager TxManager
	producer  kafka.Producer
	cfg       config.RelayConfig
	metrics   *metrics.Metrics
	log       *slog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewEventRelay(
	eventRepo postgres.EventRepository,
	txManager TxManager,
	producer kafka.Producer,
	cfg config.RelayConfig,
	m *metrics.Metrics,
	log *slog.Logger,
) *EventRelay {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &EventRelay{
		eventRepo: eventRepo,
		txManager: txManager,
		producer:  producer,
		cfg:       cfg,
		metrics:   m,
		log:       log,
		stopCh:    make(chan struct{}),
	}
}

func (r *EventRelay) Start() {
	r.wg.Add(1)
	go r.loop()
}

func (r *EventRelay) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Interval*10)
			if _, err := r.RunOnce(ctx); err != nil {
				r.log.Error("event relay iteration failed", slog.String("error", err.Error()))
			}
			cancel()
		case <-r.stopCh:
			return
		}
	}
}

// RunOnce одна пачка; при ошибке публикации уже отправленные события
// остаются помеченными, остальные уйдут в следующий раз
func (r *EventRelay) RunOnce(ctx context.Context) (int, error) {
	const op = "service.EventRelay.RunOnce"

	published := 0
	var publishErr error

	err := r.txManager.WithTx(ctx, func(tx pgx.Tx) error {
		events, err := r.eventRepo.FetchUnpublishedTx(ctx, tx, r.cfg.BatchSize)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, e := range events {
			if err := r.producer.PublishPaymentEvent(ctx, e); err != nil {
				publishErr = err
				break
			}
			if err := r.eventRepo.MarkPublishedTx(ctx, tx, e.ID, now); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if published > 0 {
		r.metrics.EventsPublished(published)
		r.log.Debug("события опубликованы", slog.Int("count", published))
	}
	if publishErr != nil {
		return published, fmt.Errorf("%s: %w", op, publishErr)
	}
	return published, nil
}

func (r *EventRelay) Shutdown(ctx context.Context) error {
	r.log.Info("shutting down event relay")
	r.stopOnce.Do(func() { close(r.stopCh) })

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		r.log.Warn("event relay shutdown timeout exceeded")
		return ctx.Err()
	}
}
