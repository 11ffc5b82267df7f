package iso20022

import (
	"fmt"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// returnLinkPattern ссылка на исходный платеж в RmtInf возвратного pacs.008
var returnLinkPattern = regexp.MustCompile(`(?i)NexusOrgnlUETR[:\s]+([a-f0-9\-]{36})`)

var uetrPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsUETR проверяет формат UUID
func IsUETR(s string) bool {
	return uetrPattern.MatchString(s)
}

func readDocument(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("malformed xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("empty document")
	}
	return doc, nil
}

// text ищет первый элемент по пути без учета префиксов; пустая строка, если нет
func text(root *etree.Element, paths ...string) string {
	for _, p := range paths {
		if el := root.FindElement(p); el != nil {
			if v := strings.TrimSpace(el.Text()); v != "" {
				return v
			}
		}
	}
	return ""
}

func attr(root *etree.Element, path, key string) string {
	if el := root.FindElement(path); el != nil {
		return strings.TrimSpace(el.SelectAttrValue(key, ""))
	}
	return ""
}

func decimalAt(root *etree.Element, field string, paths ...string) (*decimal.Decimal, error) {
	raw := text(root, paths...)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s %q is not a decimal: %w", field, raw, custom_err.ErrInvalidAmount)
	}
	return &d, nil
}

// ParsePacs008 извлекает поля инструкции, которые нужны схеме
func ParsePacs008(body []byte) (*models.Pacs008, error) {
	const op = "iso20022.ParsePacs008"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	p := &models.Pacs008{
		UETR:                  text(root, ".//UETR"),
		MessageID:             text(root, ".//GrpHdr/MsgId", ".//MsgId"),
		EndToEndID:            text(root, ".//EndToEndId"),
		QuoteID:               text(root, ".//QtId", ".//CtrctId"),
		SettlementCurrency:    models.Currency(attr(root, ".//IntrBkSttlmAmt", "Ccy")),
		InstructedCurrency:    models.Currency(attr(root, ".//InstdAmt", "Ccy")),
		AcceptanceDateTime:    text(root, ".//AccptncDtTm"),
		DebtorName:            text(root, ".//Dbtr/Nm"),
		DebtorAccount:         text(root, ".//DbtrAcct/Id/IBAN", ".//DbtrAcct/Id/Othr/Id"),
		DebtorAgentBIC:        text(root, ".//DbtrAgt//BICFI"),
		CreditorName:          text(root, ".//Cdtr/Nm"),
		CreditorAccount:       text(root, ".//CdtrAcct/Id/IBAN", ".//CdtrAcct/Id/Othr/Id"),
		CreditorAgentBIC:      text(root, ".//CdtrAgt//BICFI"),
		IntermediaryAgent1BIC: text(root, ".//IntrmyAgt1//BICFI"),
		IntermediaryAgent2BIC: text(root, ".//IntrmyAgt2//BICFI"),
		ChargeBearer:          text(root, ".//ChrgBr"),
		RemittanceInfo:        text(root, ".//RmtInf//Ustrd", ".//AddtlRmtInf"),
	}

	if p.ExchangeRate, err = decimalAt(root, "exchange rate", ".//PreAgrdXchgRate", ".//XchgRate"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.SettlementAmount, err = decimalAt(root, "settlement amount", ".//IntrBkSttlmAmt"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.InstructedAmount, err = decimalAt(root, "instructed amount", ".//InstdAmt"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ParseStatusReport разбирает входящий pacs.002
func ParseStatusReport(body []byte) (*models.StatusReport, error) {
	const op = "iso20022.ParseStatusReport"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	return &models.StatusReport{
		MessageID:         text(root, ".//GrpHdr/MsgId"),
		OriginalUETR:      text(root, ".//OrgnlUETR", ".//OrgnlEndToEndId", ".//OrgnlInstrId"),
		TransactionStatus: text(root, ".//TxSts"),
		ReasonCode:        models.ReasonCode(text(root, ".//StsRsnInf/Rsn/Cd")),
		AdditionalInfo:    text(root, ".//StsRsnInf/AddtlInf"),
	}, nil
}

// ExtractReasonCode код причины из pacs.002
func ExtractReasonCode(body []byte) (models.ReasonCode, error) {
	report, err := ParseStatusReport(body)
	if err != nil {
		return models.ReasonCodeNone, err
	}
	return report.ReasonCode, nil
}

// ExtractUETR best-effort поиск UETR для журнала событий по сообщению,
// которое не прошло проверку
func ExtractUETR(body []byte) string {
	doc, err := readDocument(body)
	if err != nil {
		return ""
	}
	return text(doc.Root(), ".//UETR", ".//OrgnlUETR")
}

// ExtractReturnLink UETR исходного платежа из RmtInf или ""
func ExtractReturnLink(remittanceInfo string) string {
	m := returnLinkPattern.FindStringSubmatch(remittanceInfo)
	if len(m) < 2 {
		return ""
	}
	return strings.ToLower(m[1])
}

// ParseCamt056 запрос на отзыв
func ParseCamt056(body []byte) (*models.RecallRequest, error) {
	const op = "iso20022.ParseCamt056"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	req := &models.RecallRequest{
		OriginalUETR:           text(root, ".//Undrlyg//OrgnlUETR", ".//Undrlyg//OrgnlEndToEndId", ".//OrgnlUETR"),
		CancellationReasonCode: models.CancellationReason(text(root, ".//CxlRsnInf/Rsn/Cd")),
		CancellationReasonText: text(root, ".//CxlRsnInf/AddtlInf"),
		RequestedBy:            text(root, ".//Case/Cretr//BICFI", ".//Assgnmt/Assgnr//BICFI"),
		RecallType:             models.RecallTypeFull,
	}
	if req.OriginalAmount, err = decimalAt(root, "original amount", ".//OrgnlIntrBkSttlmAmt"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// investigationCodes Conf в camt.029; CNCL принимается как ACCP
var investigationCodes = map[string]models.InvestigationStatus{
	"ACCP": models.InvestigationAccepted,
	"CNCL": models.InvestigationAccepted,
	"RJCR": models.InvestigationRejected,
	"PDCR": models.InvestigationPendingInfo,
	"UWFW": models.InvestigationUnableToForward,
}

// ParseCamt029 решение по расследованию
func ParseCamt029(body []byte) (*models.InvestigationResolution, error) {
	const op = "iso20022.ParseCamt029"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	conf := strings.ToUpper(text(root, ".//Sts/Conf", ".//TxCxlSts"))
	status, ok := investigationCodes[conf]
	if !ok {
		return nil, fmt.Errorf("%s: unknown investigation status %q: %w", op, conf, custom_err.ErrInvalidInput)
	}

	return &models.InvestigationResolution{
		OriginalUETR:        text(root, ".//CxlDtls//OrgnlUETR", ".//OrgnlUETR", ".//OrgnlEndToEndId"),
		RecallID:            text(root, ".//RslvdCase/Id", ".//Case/Id"),
		InvestigationStatus: status,
		StatusReasonText:    text(root, ".//CxlStsRsnInf/AddtlInf", ".//CxlStsRsnInf/Rsn/Prtry"),
		RespondedBy:         text(root, ".//RslvdCase/Cretr//BICFI", ".//Assgnmt/Assgnr//BICFI"),
	}, nil
}

// ParsePacs004 возврат платежа
func ParsePacs004(body []byte) (*models.ReturnPayment, error) {
	const op = "iso20022.ParsePacs004"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	amount, err := decimalAt(root, "returned amount", ".//RtrdIntrBkSttlmAmt")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if amount == nil {
		return nil, fmt.Errorf("%s: returned amount missing: %w", op, custom_err.ErrInvalidAmount)
	}

	return &models.ReturnPayment{
		ReturnUETR:          text(root, ".//TxInf/UETR", ".//RtrId"),
		OriginalUETR:        text(root, ".//OrgnlUETR", ".//OrgnlEndToEndId"),
		ReturnReasonCode:    models.ReturnReason(text(root, ".//RtrRsnInf/Rsn/Cd")),
		ReturnReasonText:    text(root, ".//RtrRsnInf/AddtlInf"),
		ReturnAmount:        *amount,
		ReturnCurrency:      models.Currency(attr(root, ".//RtrdIntrBkSttlmAmt", "Ccy")),
		InstructionPriority: text(root, ".//InstrPrty"),
	}, nil
}

// ParsePacs028 запрос статуса
func ParsePacs028(body []byte) (*models.StatusQuery, error) {
	const op = "iso20022.ParsePacs028"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrStructuralInvalid, err)
	}
	root := doc.Root()

	return &models.StatusQuery{
		OriginalUETR: text(root, ".//TxInf/OrgnlUETR", ".//OrgnlEndToEndId", ".//OrgnlTxId"),
		QueryingPSP:  text(root, ".//InstgAgt//BICFI", ".//GrpHdr//BICFI"),
	}, nil
}
