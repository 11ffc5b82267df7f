package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/iso20022"
	"nexus-gateway/internal/models"
)

func setupMessageService() (*MessageService, *MockEventRepository) {
	events := new(MockEventRepository)
	service := NewMessageService(events, iso20022.NewBasicValidator(), testLogger())
	service.now = func() time.Time { return fixedNow }
	return service, events
}

func TestMessageService_Acknowledge(t *testing.T) {
	tests := []struct {
		name       string
		mt         models.MessageType
		body       string
		wantStatus string
	}{
		{
			name:       "acmt.023",
			mt:         models.MsgAcmt023,
			body:       `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:acmt.023.001.04"><IdVrfctnReq><Assgnmt><MsgId>RSL-1</MsgId></Assgnmt></IdVrfctnReq></Document>`,
			wantStatus: "ACCEPTED",
		},
		{
			name:       "acmt.024",
			mt:         models.MsgAcmt024,
			body:       `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:acmt.024.001.04"><IdVrfctnRpt><Assgnmt><MsgId>RSL-2</MsgId></Assgnmt></IdVrfctnRpt></Document>`,
			wantStatus: "RECEIVED",
		},
		{
			name:       "pain.001",
			mt:         models.MsgPain001,
			body:       `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pain.001.001.12"><CstmrCdtTrfInitn><GrpHdr><MsgId>P-1</MsgId></GrpHdr><PmtInf/></CstmrCdtTrfInitn></Document>`,
			wantStatus: "ACCEPTED",
		},
		{
			name:       "camt.103",
			mt:         models.MsgCamt103,
			body:       `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.103.001.03"><CretRsvatn><MsgHdr/><GrpHdr><MsgId>R-1</MsgId></GrpHdr></CretRsvatn></Document>`,
			wantStatus: "CREATED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, events := setupMessageService()

			ack, err := service.Acknowledge(context.Background(), []byte(tt.body), tt.mt, "DBSSSGSG")

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, ack.Status)
			assert.Equal(t, tt.mt, ack.MessageType)
			assert.True(t, iso20022.IsUETR(ack.RequestID))
			assert.Equal(t, fixedNow, ack.ProcessedAt)
			events.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}
}

func TestMessageService_Acknowledge_StructuralFailure(t *testing.T) {
	service, events := setupMessageService()
	ctx := context.Background()

	// pacs.008 вместо acmt.023 и без UETR: событие пишется под UNKNOWN-ключом
	body := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:pacs.008.001.13"><FIToFICstmrCdtTrf/></Document>`

	var recorded *models.PaymentEvent
	events.On("Append", ctx, eventOfType(models.EventSchemaValidationFailed)).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*models.PaymentEvent) }).
		Return(nil)

	ack, err := service.Acknowledge(ctx, []byte(body), models.MsgAcmt023, "DBSSSGSG")

	assert.Nil(t, ack)
	assert.ErrorIs(t, err, custom_err.ErrStructuralInvalid)
	require.NotNil(t, recorded)
	assert.True(t, strings.HasPrefix(recorded.UETR, "UNKNOWN-"))
	assert.Equal(t, body, recorded.Messages[models.MsgAcmt023])
}

func TestMessageService_Acknowledge_UnsupportedType(t *testing.T) {
	service, _ := setupMessageService()

	_, err := service.Acknowledge(context.Background(), []byte("<Document/>"), models.MsgPacs008, "")

	assert.ErrorIs(t, err, custom_err.ErrInvalidInput)
}
