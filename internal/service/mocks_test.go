package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"nexus-gateway/internal/callback"
	"nexus-gateway/internal/models"
)

type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockReferenceRepository) GetFXP(ctx context.Context, id string) (*models.FXP, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FXP), args.Error(1)
}

func (m *MockReferenceRepository) ListRatesForPair(ctx context.Context, source, destination models.Currency) ([]models.ProvidedRate, error) {
	args := m.Called(ctx, source, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProvidedRate), args.Error(1)
}

func (m *MockReferenceRepository) ListPivotLegs(ctx context.Context, pivot models.Currency, currencies []models.Currency) ([]models.ProvidedRate, error) {
	args := m.Called(ctx, pivot, currencies)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ProvidedRate), args.Error(1)
}

func (m *MockReferenceRepository) ListTiers(ctx context.Context, fxpID string, source, destination models.Currency) ([]models.Tier, error) {
	args := m.Called(ctx, fxpID, source, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Tier), args.Error(1)
}

func (m *MockReferenceRepository) GetPSPImprovement(ctx context.Context, fxpID, pspBIC string) (int, error) {
	args := m.Called(ctx, fxpID, pspBIC)
	return args.Int(0), args.Error(1)
}

func (m *MockReferenceRepository) GetSAPAccount(ctx context.Context, fxpID string, currency models.Currency) (*models.SAPAccount, error) {
	args := m.Called(ctx, fxpID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SAPAccount), args.Error(1)
}

func (m *MockReferenceRepository) GetFeeFormula(ctx context.Context, currency models.Currency) (*models.FeeFormula, error) {
	args := m.Called(ctx, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeFormula), args.Error(1)
}

type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) CreateTx(ctx context.Context, tx pgx.Tx, quote *models.Quote) error {
	args := m.Called(ctx, tx, quote)
	return args.Error(0)
}

func (m *MockQuoteRepository) ConsumeTx(ctx context.Context, tx pgx.Tx, quoteID string) error {
	args := m.Called(ctx, tx, quoteID)
	return args.Error(0)
}

func (m *MockQuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreateTx(ctx context.Context, tx pgx.Tx, payment *models.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) TransitionTx(ctx context.Context, tx pgx.Tx, uetr string, from, to models.PaymentStatus, at time.Time) error {
	args := m.Called(ctx, tx, uetr, from, to, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetActiveStatusForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (models.PaymentStatus, error) {
	args := m.Called(ctx, tx, uetr)
	return args.Get(0).(models.PaymentStatus), args.Error(1)
}

func (m *MockPaymentRepository) ActiveExists(ctx context.Context, uetr string) (bool, error) {
	args := m.Called(ctx, uetr)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) GetByUETR(ctx context.Context, uetr string) (*models.Payment, error) {
	args := m.Called(ctx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) AppendTx(ctx context.Context, tx pgx.Tx, event *models.PaymentEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FetchUnpublishedTx(ctx context.Context, tx pgx.Tx, limit int) ([]models.PaymentEvent, error) {
	args := m.Called(ctx, tx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentEvent), args.Error(1)
}

func (m *MockEventRepository) MarkPublishedTx(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

func (m *MockEventRepository) Append(ctx context.Context, event *models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListByUETR(ctx context.Context, uetr string) ([]models.PaymentEvent, error) {
	args := m.Called(ctx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentEvent), args.Error(1)
}

type MockRecallRepository struct {
	mock.Mock
}

func (m *MockRecallRepository) CreateTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase) error {
	args := m.Called(ctx, tx, recall)
	return args.Error(0)
}

func (m *MockRecallRepository) GetLatestByUETRForUpdateTx(ctx context.Context, tx pgx.Tx, uetr string) (*models.RecallCase, error) {
	args := m.Called(ctx, tx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallCase), args.Error(1)
}

func (m *MockRecallRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase, viaResolution bool) error {
	args := m.Called(ctx, tx, recall, viaResolution)
	return args.Error(0)
}

func (m *MockRecallRepository) CompleteTx(ctx context.Context, tx pgx.Tx, recall *models.RecallCase) error {
	args := m.Called(ctx, tx, recall)
	return args.Error(0)
}

func (m *MockRecallRepository) CreateReturnTx(ctx context.Context, tx pgx.Tx, ret *models.ReturnPayment) error {
	args := m.Called(ctx, tx, ret)
	return args.Error(0)
}

func (m *MockRecallRepository) GetLatestByUETR(ctx context.Context, uetr string) (*models.RecallCase, error) {
	args := m.Called(ctx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallCase), args.Error(1)
}

func (m *MockRecallRepository) List(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecallCase), args.Error(1)
}

func (m *MockRecallRepository) ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReturnPayment), args.Error(1)
}

type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(d callback.Delivery) {
	m.Called(d)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishPaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockQuotes struct {
	mock.Mock
}

func (m *MockQuotes) GetQuotes(ctx context.Context, req models.QuoteRequest) ([]models.Quote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *MockQuotes) GetQuote(ctx context.Context, id string) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *MockQuotes) GetIntermediaryAgents(ctx context.Context, id string) (*models.IntermediaryAgentsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.IntermediaryAgentsResponse), args.Error(1)
}
