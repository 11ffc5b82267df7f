package iso20022

import (
	"fmt"
	"nexus-gateway/internal/models"
	"strings"
)

// ValidationResult итог структурной проверки
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// SchemaValidator структурная проверка сообщений. Полная XSD-валидация
// подключается отдельной реализацией этого интерфейса.
type SchemaValidator interface {
	Validate(body []byte, messageType models.MessageType) ValidationResult
	DetectType(body []byte) (models.MessageType, bool)
}

// requiredElements минимальный набор элементов по типу сообщения
var requiredElements = map[models.MessageType][]string{
	models.MsgPacs008: {"GrpHdr/MsgId", "CdtTrfTxInf", "IntrBkSttlmAmt"},
	models.MsgPacs002: {"GrpHdr/MsgId", "TxInfAndSts", "TxSts"},
	models.MsgPacs004: {"GrpHdr/MsgId", "TxInf", "RtrdIntrBkSttlmAmt", "RtrRsnInf"},
	models.MsgPacs028: {"GrpHdr/MsgId", "TxInf"},
	models.MsgCamt054: {"GrpHdr/MsgId", "Ntfctn"},
	models.MsgCamt056: {"Assgnmt/Id", "Undrlyg", "CxlRsnInf"},
	models.MsgCamt029: {"Assgnmt/Id", "Sts"},
	models.MsgCamt103: {"GrpHdr/MsgId"},
	models.MsgPain001: {"GrpHdr/MsgId", "PmtInf"},
	models.MsgAcmt023: {"Assgnmt/MsgId"},
	models.MsgAcmt024: {"Assgnmt/MsgId"},
}

// BasicValidator проверяет корректность XML, корень Document,
// пространство имен и обязательные элементы
type BasicValidator struct{}

func NewBasicValidator() *BasicValidator {
	return &BasicValidator{}
}

func (v *BasicValidator) DetectType(body []byte) (models.MessageType, bool) {
	doc, err := readDocument(body)
	if err != nil {
		return "", false
	}
	return typeFromNamespace(doc.Root().NamespaceURI())
}

func (v *BasicValidator) Validate(body []byte, messageType models.MessageType) ValidationResult {
	doc, err := readDocument(body)
	if err != nil {
		return ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}
	root := doc.Root()

	var errs []string
	if root.Tag != "Document" {
		errs = append(errs, fmt.Sprintf("root element must be Document, got %s", root.Tag))
	}

	ns := root.NamespaceURI()
	detected, ok := typeFromNamespace(ns)
	switch {
	case ns == "":
		errs = append(errs, "Document has no ISO 20022 namespace")
	case !ok || detected != messageType:
		errs = append(errs, fmt.Sprintf("namespace %s does not match %s", ns, messageType))
	}

	for _, path := range requiredElements[messageType] {
		if root.FindElement(".//"+path) == nil {
			errs = append(errs, fmt.Sprintf("missing required element %s", path))
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// typeFromNamespace urn:iso:std:iso:20022:tech:xsd:pacs.008.001.13 -> pacs.008
func typeFromNamespace(ns string) (models.MessageType, bool) {
	if !strings.HasPrefix(ns, nsPrefix) {
		return "", false
	}
	parts := strings.Split(strings.TrimPrefix(ns, nsPrefix), ".")
	if len(parts) < 2 {
		return "", false
	}
	t := models.MessageType(parts[0] + "." + parts[1])
	if _, known := requiredElements[t]; !known {
		return "", false
	}
	return t, true
}
