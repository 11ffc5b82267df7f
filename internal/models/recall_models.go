package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecallStatus string

const (
	RecallStatusPending      RecallStatus = "PENDING"
	RecallStatusAccepted     RecallStatus = "ACCEPTED"
	RecallStatusRejected     RecallStatus = "REJECTED"
	RecallStatusPendingInfo  RecallStatus = "PENDING_INFO"
	RecallStatusRoutingError RecallStatus = "ROUTING_ERROR"
	RecallStatusCompleted    RecallStatus = "COMPLETED"
)

func (s RecallStatus) IsValid() bool {
	switch s {
	case RecallStatusPending, RecallStatusAccepted, RecallStatusRejected,
		RecallStatusPendingInfo, RecallStatusRoutingError, RecallStatusCompleted:
		return true
	}
	return false
}

type CancellationReason string

const (
	CancelCustomerRequest CancellationReason = "CUST"
	CancelDuplicate       CancellationReason = "DUPL"
	CancelTechnical       CancellationReason = "TECH"
	CancelFraud           CancellationReason = "FRAD"
	CancelAgentDecision   CancellationReason = "AGNT"
	CancelUnderpayment    CancellationReason = "UPAY"
)

func (c CancellationReason) IsValid() bool {
	switch c {
	case CancelCustomerRequest, CancelDuplicate, CancelTechnical, CancelFraud, CancelAgentDecision, CancelUnderpayment:
		return true
	}
	return false
}

const (
	RecallTypeFull    = "FULL"
	RecallTypePartial = "PARTIAL"
)

type ReturnReason string

var returnReasons = map[ReturnReason]struct{}{
	"CUST": {}, "DUPL": {}, "TECH": {}, "FRAD": {},
	"AC03": {}, "AC04": {}, "AC06": {}, "AM04": {}, "AM09": {},
	"BE04": {}, "FOCR": {}, "MS02": {}, "MS03": {}, "NARR": {}, "UPAY": {},
}

func (r ReturnReason) IsValid() bool {
	_, ok := returnReasons[r]
	return ok
}

// InvestigationStatus код результата в camt.029
type InvestigationStatus string

const (
	InvestigationAccepted        InvestigationStatus = "ACCP"
	InvestigationRejected        InvestigationStatus = "RJCR"
	InvestigationPendingInfo     InvestigationStatus = "PDCR"
	InvestigationUnableToForward InvestigationStatus = "UWFW"
)

// RecallCase переговоры об отзыве платежа
type RecallCase struct {
	RecallID       string             `json:"recallId"`
	OriginalUETR   string             `json:"originalUetr"`
	ReasonCode     CancellationReason `json:"cancellationReasonCode"`
	ReasonText     string             `json:"cancellationReasonText,omitempty"`
	RecallType     string             `json:"recallType"`
	OriginalAmount *decimal.Decimal   `json:"originalAmount,omitempty"`
	RequestedBy    string             `json:"requestedBy"`
	RespondedBy    string             `json:"respondedBy,omitempty"`
	Status         RecallStatus       `json:"status"`
	ResponseReason string             `json:"responseReason,omitempty"`
	SubmittedAt    time.Time          `json:"submittedAt"`
	RespondedAt    *time.Time         `json:"respondedAt,omitempty"`
	ResolutionAt   *time.Time         `json:"resolutionReceivedAt,omitempty"`
	CompletedAt    *time.Time         `json:"completedAt,omitempty"`
	ReturnUETR     string             `json:"returnUetr,omitempty"`
}

// IsTerminal терминальные состояния не меняются
func (r *RecallCase) IsTerminal() bool {
	return r.Status == RecallStatusRejected || r.Status == RecallStatusCompleted
}

type RecallRequest struct {
	OriginalUETR           string             `json:"originalUetr"`
	CancellationReasonCode CancellationReason `json:"cancellationReasonCode"`
	CancellationReasonText string             `json:"cancellationReasonText,omitempty"`
	RequestedBy            string             `json:"requestedBy"`
	OriginalAmount         *decimal.Decimal   `json:"originalAmount,omitempty"`
	RecallType             string             `json:"recallType,omitempty"`
}

type RecallResponse struct {
	OriginalUETR string       `json:"originalUetr"`
	RecallID     string       `json:"recallId"`
	Status       RecallStatus `json:"status"`
	RecallType   string       `json:"recallType"`
	Message      string       `json:"message"`
	SubmittedAt  time.Time    `json:"submittedAt"`
}

type RecallRespondRequest struct {
	Accept      bool   `json:"accept"`
	RespondedBy string `json:"respondedBy,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type RecallRespondResponse struct {
	OriginalUETR string       `json:"originalUetr"`
	RecallID     string       `json:"recallId"`
	Status       RecallStatus `json:"status"`
	Message      string       `json:"message"`
}

type RecallListResponse struct {
	Count   int          `json:"count"`
	Recalls []RecallCase `json:"recalls"`
}

// InvestigationResolution camt.029 в ответ на camt.056
type InvestigationResolution struct {
	OriginalUETR        string              `json:"originalUetr"`
	RecallID            string              `json:"recallId"`
	InvestigationStatus InvestigationStatus `json:"investigationStatus"`
	StatusReasonText    string              `json:"statusReasonText,omitempty"`
	RespondedBy         string              `json:"respondedBy,omitempty"`
}

type InvestigationResolutionResponse struct {
	OriginalUETR        string              `json:"originalUetr"`
	RecallID            string              `json:"recallId"`
	InvestigationStatus InvestigationStatus `json:"investigationStatus"`
	Status              RecallStatus        `json:"status"`
	Message             string              `json:"message"`
	NextStep            string              `json:"nextStep"`
	ProcessedAt         time.Time           `json:"processedAt"`
}

// ReturnPayment pacs.004 от PSP получателя
type ReturnPayment struct {
	ReturnUETR          string          `json:"returnUetr"`
	OriginalUETR        string          `json:"originalUetr"`
	ReturnReasonCode    ReturnReason    `json:"returnReasonCode"`
	ReturnReasonText    string          `json:"returnReasonText,omitempty"`
	ReturnAmount        decimal.Decimal `json:"returnAmount"`
	ReturnCurrency      Currency        `json:"returnCurrency"`
	InstructionPriority string          `json:"instructionPriority,omitempty"`
	RecallID            string          `json:"recallId,omitempty"`
	ReceivedAt          time.Time       `json:"receivedAt"`
}

type ReturnResponse struct {
	OriginalUETR     string       `json:"originalUetr"`
	ReturnUETR       string       `json:"returnUetr"`
	Status           string       `json:"status"`
	ReturnReasonCode ReturnReason `json:"returnReasonCode"`
	RecallID         string       `json:"recallId,omitempty"`
	RecallStatus     RecallStatus `json:"recallStatus,omitempty"`
	Message          string       `json:"message"`
	ProcessedAt      time.Time    `json:"processedAt"`
}

type ReturnListResponse struct {
	Count   int             `json:"count"`
	Returns []ReturnPayment `json:"returns"`
}

// StatusQuery pacs.028
type StatusQuery struct {
	OriginalUETR string `json:"originalUetr"`
	QueryingPSP  string `json:"queryingPsp"`
	QueryReason  string `json:"queryReason,omitempty"`
}

type StatusQueryResponse struct {
	OriginalUETR       string        `json:"originalUetr"`
	PaymentFound       bool          `json:"paymentFound"`
	CurrentStatus      PaymentStatus `json:"currentStatus,omitempty"`
	StatusReasonCode   ReasonCode    `json:"statusReasonCode,omitempty"`
	LastStatusUpdateAt *time.Time    `json:"lastStatusUpdateAt,omitempty"`
	Advice             string        `json:"advice"`
	RespondedAt        time.Time     `json:"respondedAt"`
}
