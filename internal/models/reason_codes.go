package models

// ReasonCode ISO 20022 ExternalStatusReason1Code
type ReasonCode string

const (
	ReasonAccepted            ReasonCode = "ACCC"
	ReasonQuoteExpired        ReasonCode = "AB04"
	ReasonRateMismatch        ReasonCode = "AB04"
	ReasonTimeout             ReasonCode = "AB03"
	ReasonIncorrectAccount    ReasonCode = "AC01"
	ReasonClosedAccount       ReasonCode = "AC04"
	ReasonInvalidProxy        ReasonCode = "BE23"
	ReasonIncorrectAgent      ReasonCode = "AGNT"
	ReasonInvalidIntermediary ReasonCode = "RC11"
	ReasonAmountLimitExceeded ReasonCode = "AM02"
	ReasonInsufficientFunds   ReasonCode = "AM04"
	ReasonRegulatory          ReasonCode = "RR04"
	ReasonDuplicatePayment    ReasonCode = "DUPL"
	ReasonInvalidFileFormat   ReasonCode = "FF05"
	ReasonNarrative           ReasonCode = "NARR"
	ReasonAgentSuspended      ReasonCode = "AB08"
	ReasonCodeNone            ReasonCode = ""
)

// Значения TxSts в pacs.002
const (
	TxStatusAccepted  = "ACCC"
	TxStatusRejected  = "RJCT"
	TxStatusInProcess = "ACSP"
	TxStatusPending   = "PDNG"
)

var reasonDescriptions = map[ReasonCode]string{
	"ACCC": "Accepted Settlement Completed",
	"AB04": "Quote expired or exchange rate mismatch",
	"AB03": "Transaction timed out",
	"AB08": "Offline creditor agent",
	"AC01": "Incorrect account number",
	"AC04": "Closed account number",
	"AGNT": "Incorrect agent",
	"AM02": "Amount exceeds allowed maximum",
	"AM04": "Insufficient funds",
	"BE23": "Account/Proxy invalid",
	"DUPL": "Duplicate payment",
	"FF05": "Invalid file format",
	"NARR": "See narrative",
	"RC11": "Invalid intermediary agent",
	"RR04": "Regulatory reason",
}

// Description возвращает текст для кода причины
func (c ReasonCode) Description() string {
	if d, ok := reasonDescriptions[c]; ok {
		return d
	}
	return "Unknown reason"
}

func (c ReasonCode) String() string {
	return string(c)
}
