package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"nexus-gateway/internal/api/handlers"
	"nexus-gateway/internal/api/middlew"
	"nexus-gateway/internal/callback"
	"nexus-gateway/internal/config"
	"nexus-gateway/internal/db"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/kafka"
	"nexus-gateway/internal/metrics"
	"nexus-gateway/internal/server"
	"nexus-gateway/internal/service"
	"nexus-gateway/internal/storage/postgres"
	"nexus-gateway/pkg/logger"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const apiPrefix = "/api/v1"

type App struct {
	log           *slog.Logger
	server        *server.Server
	api           *chi.Mux
	pool          *pgxpool.Pool
	logFile       *os.File
	cfg           *config.Config
	metrics       *metrics.Metrics
	kafkaProducer kafka.Producer
	txManager     service.TxManager
	validator     iso20022.SchemaValidator

	refRepo     postgres.ReferenceRepository
	quoteRepo   postgres.QuoteRepository
	paymentRepo postgres.PaymentRepository
	eventRepo   postgres.EventRepository
	recallRepo  postgres.RecallRepository

	quoteService   service.Quotes
	paymentService service.Payments
	dispatcher     *callback.Dispatcher
	relay          *service.EventRelay
}

func NewApp() (*App, error) {
	loggerWithFile := logger.NewLoggerWithFile("gateway.log")
	log := loggerWithFile.Logger
	log.Info("инициализация приложения")

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации конфига: %w", err)
	}
	log.Info("конфигурация загружена",
		slog.String("port", cfg.HTTPPort),
		slog.String("charge_bearer", cfg.Scheme.ChargeBearer),
		slog.Bool("demo_triggers", cfg.Scheme.DemoTriggers))

	log.Info("выполнение миграций базы данных")
	if err := db.RunMigrations(cfg.DB.MigrationURL(), cfg.DB.MigrationsPath, log); err != nil {
		return nil, fmt.Errorf("ошибка выполнения миграций: %w", err)
	}

	pool, err := db.NewPool(context.Background(), cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	log.Info("подключение к базе данных установлено")

	var kafkaProducer kafka.Producer
	if cfg.Kafka.Enabled {
		log.Info("инициализация kafka producer", slog.Any("brokers", cfg.Kafka.Brokers))
		kafkaProducer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка инициализации kafka: %w", err)
		}
	} else {
		log.Info("kafka отключен в конфигурации")
		kafkaProducer = kafka.NewNoOpProducer(log)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	srv := server.NewServer(cfg.HTTPPort)
	log.Info("сервер инициализирован", slog.String("port", cfg.HTTPPort))
	srv.Router.Use(middleware.RequestID)
	srv.Router.Use(middlew.WithLogger(log))
	srv.Router.Use(middleware.RealIP)
	srv.Router.Use(middleware.Recoverer)
	srv.RegisterSwagger()
	srv.RegisterMetrics(m.Handler())
	srv.RegisterHealth()

	api := chi.NewRouter()
	api.Use(middlew.WithParticipant)
	srv.Router.Mount(apiPrefix, api)

	return &App{
		log:           log,
		server:        srv,
		api:           api,
		pool:          pool,
		logFile:       loggerWithFile.LogFile,
		cfg:           cfg,
		metrics:       m,
		kafkaProducer: kafkaProducer,
		txManager:     service.NewPgxTxManager(pool),
		validator:     iso20022.NewBasicValidator(),
		refRepo:       postgres.NewReferenceRepository(pool),
		quoteRepo:     postgres.NewQuoteRepository(pool),
		paymentRepo:   postgres.NewPaymentRepository(pool),
		eventRepo:     postgres.NewEventRepository(pool),
		recallRepo:    postgres.NewRecallRepository(pool),
	}, nil
}

func (a *App) BuildQuoteLayer() {
	a.quoteService = service.NewQuoteService(a.refRepo, a.quoteRepo, a.txManager, a.cfg.Quote, a.metrics, a.log)
	quoteHandler := handlers.NewQuoteHandler(a.quoteService)

	a.api.Get("/quotes", quoteHandler.GetQuotes)
	a.api.Get("/quotes/{quoteId}", quoteHandler.GetQuote)
	a.api.Get("/quotes/{quoteId}/intermediary-agents", quoteHandler.GetIntermediaryAgents)

	a.log.Info("слой 'quotes' собран и маршруты зарегистрированы")
}

func (a *App) BuildFeeLayer() error {
	if a.quoteService == nil {
		err := errors.New("quoteService not initialized, call BuildQuoteLayer first")
		a.log.Error(err.Error())
		return err
	}

	feeService := service.NewFeeService(a.quoteService, a.refRepo, a.log)
	feeHandler := handlers.NewFeeHandler(feeService)

	a.api.Get("/fees-and-amounts", feeHandler.FeesAndAmounts)
	a.api.Get("/pre-transaction-disclosure", feeHandler.PreTransactionDisclosure)

	a.log.Info("слой 'fees' собран и маршруты зарегистрированы")
	return nil
}

func (a *App) BuildPaymentLayer() {
	a.dispatcher = callback.NewDispatcher(
		&http.Client{Timeout: a.cfg.Callback.Timeout},
		a.cfg.Callback,
		a.eventRepo,
		a.metrics,
		a.log,
	)

	a.paymentService = service.NewPaymentService(
		a.quoteRepo,
		a.paymentRepo,
		a.eventRepo,
		a.refRepo,
		a.txManager,
		a.validator,
		a.dispatcher,
		a.cfg.Scheme,
		a.metrics,
		a.log,
	)
	paymentHandler := handlers.NewPaymentHandler(a.paymentService)

	a.api.Get("/payments/{uetr}/events", paymentHandler.ListEvents)

	a.log.Info("слой 'payments' собран и маршруты зарегистрированы",
		slog.Int("callback_workers", a.cfg.Callback.Workers))
}

func (a *App) BuildRecallLayer() error {
	if a.paymentService == nil {
		err := errors.New("paymentService not initialized, call BuildPaymentLayer first")
		a.log.Error(err.Error())
		return err
	}

	recallService := service.NewRecallService(
		a.recallRepo,
		a.paymentRepo,
		a.eventRepo,
		a.txManager,
		a.validator,
		a.metrics,
		a.log,
	)
	recallHandler := handlers.NewRecallHandler(recallService)
	messageService := service.NewMessageService(a.eventRepo, a.validator, a.log)
	isoHandler := handlers.NewISO20022Handler(a.paymentService, recallService, messageService)

	a.api.Route("/recall", func(r chi.Router) {
		r.Post("/", recallHandler.SubmitRecall)
		r.Post("/{uetr}/respond", recallHandler.RespondRecall)
	})
	a.api.Post("/investigation-resolution", recallHandler.ResolveInvestigation)
	a.api.Post("/payment-return", recallHandler.ReturnPayment)
	a.api.Post("/payment-status-query", recallHandler.QueryStatus)
	a.api.Get("/recalls", recallHandler.ListRecalls)
	a.api.Get("/recalls/{uetr}", recallHandler.GetRecall)
	a.api.Get("/returns", recallHandler.ListReturns)

	a.api.Route("/iso20022", func(r chi.Router) {
		r.Post("/pacs008", isoHandler.Pacs008)
		r.Post("/pacs002", isoHandler.Pacs002)
		r.Post("/camt056", isoHandler.Camt056)
		r.Post("/camt029", isoHandler.Camt029)
		r.Post("/pacs004", isoHandler.Pacs004)
		r.Post("/pacs028", isoHandler.Pacs028)
		r.Post("/acmt023", isoHandler.Acmt023)
		r.Post("/acmt024", isoHandler.Acmt024)
		r.Post("/pain001", isoHandler.Pain001)
		r.Post("/camt103", isoHandler.Camt103)
	})

	a.log.Info("слой 'recalls' собран и маршруты зарегистрированы")
	return nil
}

// BuildEventLayer запускает relay журнала в kafka
func (a *App) BuildEventLayer() {
	a.relay = service.NewEventRelay(a.eventRepo, a.txManager, a.kafkaProducer, a.cfg.Relay, a.metrics, a.log)
	a.relay.Start()

	a.log.Info("event relay запущен",
		slog.Duration("interval", a.cfg.Relay.Interval),
		slog.Int("batch", a.cfg.Relay.BatchSize))
}

func (a *App) Run() error {
	a.log.Info("сервер запускается")

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка запуска сервера: %w", err)
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdownChan:
		a.log.Info("получен сигнал завершения", slog.String("signal", sig.String()))
	}

	a.log.Info("приложение останавливается")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// сервер до dispatcher: Schedule после остановки теряет доставку
	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("ошибка при остановке http сервера", slog.String("error", err.Error()))
	}

	if a.dispatcher != nil {
		a.log.Info("остановка callback dispatcher")
		if err := a.dispatcher.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке callback dispatcher", slog.String("error", err.Error()))
		}
	}

	if a.relay != nil {
		a.log.Info("остановка event relay")
		if err := a.relay.Shutdown(ctx); err != nil {
			a.log.Error("ошибка при остановке event relay", slog.String("error", err.Error()))
		}
	}

	if a.kafkaProducer != nil {
		a.log.Info("закрытие kafka producer")
		if err := a.kafkaProducer.Close(); err != nil {
			a.log.Error("ошибка при закрытии kafka producer", slog.String("error", err.Error()))
		}
	}

	a.log.Info("закрытие соединения с базой данных")
	a.pool.Close()

	a.log.Info("закрытие файла логов")
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			a.log.Error("ошибка при закрытии файла логов", slog.String("error", err.Error()))
		}
	}

	a.log.Info("приложение остановлено")
	return nil
}
