package callback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/models"
	"sync"
	"time"
)

// Delivery статус-отчет для доставки на endpoint участника
type Delivery struct {
	URL         string
	UETR        string
	MessageType models.MessageType
	Status      string
	Body        string
}

// EventRecorder журнал, куда пишется итог доставки
type EventRecorder interface {
	Append(ctx context.Context, event *models.PaymentEvent) error
}

type Scheduler interface {
	Schedule(d Delivery)
}

// Dispatcher доставляет callback в фоне: задержка, затем до MaxAttempts
// попыток с backoff 1x, 2x, 4x ... между ними. Ошибки наружу не поднимаются.
type Dispatcher struct {
	client  *http.Client
	cfg     config.CallbackConfig
	signer  *Signer
	events  EventRecorder
	metrics *metrics.Metrics
	log     *slog.Logger

	queue  chan Delivery
	stopCh chan struct{}
	wg     sync.WaitGroup

	// mu связывает проверку stopped с pending.Add, чтобы Add не шел параллельно Wait
	mu      sync.Mutex
	stopped bool
	pending sync.WaitGroup
}

func NewDispatcher(
	client *http.Client,
	cfg config.CallbackConfig,
	events EventRecorder,
	m *metrics.Metrics,
	log *slog.Logger,
) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	d := &Dispatcher{
		client:  client,
		cfg:     cfg,
		events:  events,
		metrics: m,
		log:     log,
		queue:   make(chan Delivery, cfg.QueueSize),
		stopCh:  make(chan struct{}),
	}
	if cfg.SigningSecret != "" {
		d.signer = NewSigner(cfg.SigningSecret, 5*time.Minute)
	}

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	return d
}

// Schedule ставит доставку после задержки CALLBACK_DELAY
func (d *Dispatcher) Schedule(delivery Delivery) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		d.drop(delivery)
		return
	}
	d.pending.Add(1)
	d.mu.Unlock()

	time.AfterFunc(d.cfg.Delay, func() {
		defer d.pending.Done()
		d.enqueue(delivery)
	})
}

func (d *Dispatcher) enqueue(delivery Delivery) {
	select {
	case <-d.stopCh:
		d.drop(delivery)
		return
	default:
	}

	select {
	case d.queue <- delivery:
	default:
		d.log.Error("callback queue full",
			slog.String("uetr", delivery.UETR),
			slog.String("url", delivery.URL))
		d.recordFailure(delivery, 0, "callback queue full")
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	d.log.Debug("callback worker started", slog.Int("worker_id", id))

	for {
		// после остановки оставшаяся очередь разбирается в Shutdown
		select {
		case <-d.stopCh:
			d.log.Debug("callback worker stopping", slog.Int("worker_id", id))
			return
		default:
		}

		select {
		case delivery := <-d.queue:
			_ = d.deliver(delivery)
		case <-d.stopCh:
			d.log.Debug("callback worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

// deliver последовательность попыток; ошибка только для логов и тестов
func (d *Dispatcher) deliver(delivery Delivery) error {
	const op = "callback.deliver"

	var lastErr error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := d.cfg.Backoff * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(wait):
			case <-d.stopCh:
				d.recordFailure(delivery, attempt-1, "dispatcher stopped: "+errString(lastErr))
				return fmt.Errorf("%s: stopped after %d attempts: %w", op, attempt-1, custom_err.ErrTransportFailure)
			}
		}

		statusCode, err := d.attempt(delivery)
		if err == nil {
			d.metrics.CallbackAttempt("delivered")
			d.log.Info("callback delivered",
				slog.String("uetr", delivery.UETR),
				slog.String("url", delivery.URL),
				slog.Int("attempt", attempt),
				slog.Int("status_code", statusCode))
			d.record(models.NewPaymentEvent(delivery.UETR, models.EventCallbackDelivered, models.ActorNexus, map[string]any{
				"url":         delivery.URL,
				"messageType": delivery.MessageType,
				"attempts":    attempt,
				"statusCode":  statusCode,
			}))
			return nil
		}

		lastErr = err
		d.metrics.CallbackAttempt("retry")
		d.log.Warn("callback attempt failed",
			slog.String("uetr", delivery.UETR),
			slog.String("url", delivery.URL),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", d.cfg.MaxAttempts),
			slog.String("error", err.Error()))
	}

	d.metrics.CallbackAttempt("failed")
	d.log.Error("callback delivery failed",
		slog.String("uetr", delivery.UETR),
		slog.String("url", delivery.URL),
		slog.Int("attempts", d.cfg.MaxAttempts))
	d.recordFailure(delivery, d.cfg.MaxAttempts, errString(lastErr))

	return fmt.Errorf("%s: %w", op, lastErr)
}

func (d *Dispatcher) attempt(delivery Delivery) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	body := []byte(delivery.Body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w: %w", custom_err.ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("X-UETR", delivery.UETR)
	req.Header.Set("X-Message-Type", string(delivery.MessageType))
	req.Header.Set("X-Transaction-Status", delivery.Status)

	if d.signer != nil {
		token, err := d.signer.Sign(delivery.UETR, body, time.Now())
		if err != nil {
			return 0, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("X-Signature", BodyDigest(body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", custom_err.ErrTransportFailure, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return resp.StatusCode, nil
	}
	return resp.StatusCode, fmt.Errorf("unexpected status %d: %w", resp.StatusCode, custom_err.ErrTransportFailure)
}

// drop доставка не состоится: очередь остановлена
func (d *Dispatcher) drop(delivery Delivery) {
	d.metrics.CallbackAttempt("failed")
	d.log.Warn("callback dispatcher stopped, delivery dropped",
		slog.String("uetr", delivery.UETR),
		slog.String("url", delivery.URL))
	d.recordFailure(delivery, 0, "dispatcher stopped")
}

// drainQueue фиксирует отказ по каждой доставке, не взятой воркерами
func (d *Dispatcher) drainQueue() int {
	n := 0
	for {
		select {
		case delivery := <-d.queue:
			d.drop(delivery)
			n++
		default:
			return n
		}
	}
}

func (d *Dispatcher) recordFailure(delivery Delivery, attempts int, reason string) {
	d.record(models.NewPaymentEvent(delivery.UETR, models.EventCallbackFailed, models.ActorNexus, map[string]any{
		"url":         delivery.URL,
		"messageType": delivery.MessageType,
		"attempts":    attempts,
		"error":       reason,
	}))
}

func (d *Dispatcher) record(event *models.PaymentEvent) {
	if d.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.events.Append(ctx, event); err != nil {
		d.log.Error("failed to record callback event",
			slog.String("uetr", event.UETR),
			slog.String("event_type", string(event.Type)),
			slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.log.Info("shutting down callback dispatcher")

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	d.mu.Unlock()

	// отложенные доставки еще успевают встать в очередь
	waitPending := make(chan struct{})
	go func() {
		d.pending.Wait()
		close(waitPending)
	}()
	select {
	case <-waitPending:
	case <-ctx.Done():
	}

	close(d.stopCh)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if n := d.drainQueue(); n > 0 {
			d.log.Warn("queued callbacks dropped on shutdown", slog.Int("count", n))
		}
		d.log.Info("all callback workers stopped")
		return nil
	case <-ctx.Done():
		d.drainQueue()
		d.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
