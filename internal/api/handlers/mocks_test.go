package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nexus-gateway/internal/models"
)

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

type MockPayments struct {
	mock.Mock
}

func (m *MockPayments) Validate(ctx context.Context, instr *models.Pacs008) (*models.Verdict, error) {
	args := m.Called(ctx, instr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verdict), args.Error(1)
}

func (m *MockPayments) ProcessPacs008(ctx context.Context, body []byte, callbackURL, actor string) (*models.ProcessResult, error) {
	args := m.Called(ctx, body, callbackURL, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProcessResult), args.Error(1)
}

func (m *MockPayments) ProcessStatusReport(ctx context.Context, body []byte, actor string) (*models.Payment, error) {
	args := m.Called(ctx, body, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPayments) ListEvents(ctx context.Context, uetr string) ([]models.PaymentEvent, error) {
	args := m.Called(ctx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentEvent), args.Error(1)
}

type MockRecalls struct {
	mock.Mock
}

func (m *MockRecalls) SubmitRecall(ctx context.Context, req models.RecallRequest, actor string) (*models.RecallResponse, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallResponse), args.Error(1)
}

func (m *MockRecalls) SubmitRecallXML(ctx context.Context, body []byte, actor string) (*models.RecallResponse, error) {
	args := m.Called(ctx, body, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallResponse), args.Error(1)
}

func (m *MockRecalls) Respond(ctx context.Context, uetr string, req models.RecallRespondRequest, actor string) (*models.RecallRespondResponse, error) {
	args := m.Called(ctx, uetr, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallRespondResponse), args.Error(1)
}

func (m *MockRecalls) Resolve(ctx context.Context, res models.InvestigationResolution, actor string) (*models.InvestigationResolutionResponse, error) {
	args := m.Called(ctx, res, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvestigationResolutionResponse), args.Error(1)
}

func (m *MockRecalls) ResolveXML(ctx context.Context, body []byte, actor string) (*models.InvestigationResolutionResponse, error) {
	args := m.Called(ctx, body, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvestigationResolutionResponse), args.Error(1)
}

func (m *MockRecalls) ProcessReturn(ctx context.Context, ret models.ReturnPayment, actor string) (*models.ReturnResponse, error) {
	args := m.Called(ctx, ret, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReturnResponse), args.Error(1)
}

func (m *MockRecalls) ProcessReturnXML(ctx context.Context, body []byte, actor string) (*models.ReturnResponse, error) {
	args := m.Called(ctx, body, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReturnResponse), args.Error(1)
}

func (m *MockRecalls) QueryStatus(ctx context.Context, q models.StatusQuery, actor string) (*models.StatusQueryResponse, error) {
	args := m.Called(ctx, q, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusQueryResponse), args.Error(1)
}

func (m *MockRecalls) QueryStatusXML(ctx context.Context, body []byte, actor string) (*models.StatusQueryResponse, error) {
	args := m.Called(ctx, body, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusQueryResponse), args.Error(1)
}

func (m *MockRecalls) GetRecall(ctx context.Context, uetr string) (*models.RecallCase, error) {
	args := m.Called(ctx, uetr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecallCase), args.Error(1)
}

func (m *MockRecalls) ListRecalls(ctx context.Context, status models.RecallStatus, limit int) ([]models.RecallCase, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecallCase), args.Error(1)
}

func (m *MockRecalls) ListReturns(ctx context.Context, limit int) ([]models.ReturnPayment, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReturnPayment), args.Error(1)
}

type MockFees struct {
	mock.Mock
}

func (m *MockFees) PreTransactionDisclosure(ctx context.Context, quoteID string, opts models.DisclosureOptions) (*models.Disclosure, error) {
	args := m.Called(ctx, quoteID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Disclosure), args.Error(1)
}

func (m *MockFees) FeesAndAmounts(ctx context.Context, quoteID string) (*models.FeeBreakdown, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeBreakdown), args.Error(1)
}

type MockMessages struct {
	mock.Mock
}

func (m *MockMessages) Acknowledge(ctx context.Context, body []byte, mt models.MessageType, actor string) (*models.MessageAck, error) {
	args := m.Called(ctx, body, mt, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MessageAck), args.Error(1)
}
