package iso20022

import (
	"fmt"
	"nexus-gateway/internal/custom_err"
	"nexus-gateway/internal/models"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

// RoutingData данные маршрута к стороне получателя
type RoutingData struct {
	DestinationSAPBIC   string
	DestinationPSPBIC   string
	DestinationAmount   decimal.Decimal
	DestinationCurrency models.Currency
	SourceCurrency      models.Currency
	FXPAccountID        string
	ClearingSystemCode  string
}

// TransformResult переписанный pacs.008 и исходный инструктирующий агент
type TransformResult struct {
	Body                     string
	OriginalInstructingAgent string
}

// элементы CdtTrfTxInf, которые по схеме идут после PrvsInstgAgt1
var afterPreviousAgent = []string{
	"PrvsInstgAgt1Acct", "PrvsInstgAgt2", "PrvsInstgAgt2Acct", "PrvsInstgAgt3", "PrvsInstgAgt3Acct",
	"InstgAgt", "InstdAgt", "IntrmyAgt1", "IntrmyAgt1Acct", "IntrmyAgt2", "IntrmyAgt2Acct",
	"IntrmyAgt3", "IntrmyAgt3Acct", "UltmtDbtr", "InitgPty", "Dbtr",
}

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// Transform готовит pacs.008 к пересылке на сторону получателя.
// При ошибке разбора возвращает ErrTransformFailed, исходное тело не меняется.
func (t *Transformer) Transform(body []byte, route RoutingData) (*TransformResult, error) {
	const op = "iso20022.Transform"

	doc, err := readDocument(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrTransformFailed, err)
	}
	root := doc.Root()

	// (a) InstgAgt -> SAP получателя
	var originalInstg string
	if el := root.FindElement(".//InstgAgt//BICFI"); el != nil {
		originalInstg = el.Text()
		if route.DestinationSAPBIC != "" {
			el.SetText(route.DestinationSAPBIC)
		}
	}

	// (b) InstdAgt -> PSP получателя
	if el := root.FindElement(".//InstdAgt//BICFI"); el != nil && route.DestinationPSPBIC != "" {
		el.SetText(route.DestinationPSPBIC)
	}

	// (c) сумма и валюта межбанковского расчета
	if el := root.FindElement(".//IntrBkSttlmAmt"); el != nil && route.DestinationCurrency != "" {
		el.SetText(models.RoundAmount(route.DestinationAmount).StringFixed(models.AmountPlaces))
		el.CreateAttr("Ccy", string(route.DestinationCurrency))
	}

	// (d) AgrdRate
	if rate := root.FindElement(".//AgrdRate"); rate != nil {
		if el := rate.FindElement(".//UnitCcy"); el != nil && route.SourceCurrency != "" {
			el.SetText(string(route.SourceCurrency))
		}
		if el := rate.FindElement(".//QtdCcy"); el != nil && route.DestinationCurrency != "" {
			el.SetText(string(route.DestinationCurrency))
		}
	}

	txInf := root.FindElement(".//CdtTrfTxInf")

	// (e) след исходного агента в PrvsInstgAgt1
	if txInf != nil && originalInstg != "" && txInf.SelectElement("PrvsInstgAgt1") == nil {
		ns := txInf.Space
		prev := etree.NewElement(qualify(ns, "PrvsInstgAgt1"))
		prev.CreateElement(qualify(ns, "FinInstnId")).CreateElement(qualify(ns, "BICFI")).SetText(originalInstg)
		insertBefore(txInf, prev, afterPreviousAgent)
	}

	// (f) счет FXP у SAP
	if txInf != nil && route.FXPAccountID != "" {
		ns := txInf.Space
		acct := txInf.SelectElement("PrvsInstgAgt1Acct")
		if acct == nil {
			acct = etree.NewElement(qualify(ns, "PrvsInstgAgt1Acct"))
			insertBefore(txInf, acct, afterPreviousAgent[1:])
		}
		for _, c := range acct.ChildElements() {
			acct.RemoveChild(c)
		}
		acct.CreateElement(qualify(ns, "Id")).CreateElement(qualify(ns, "Othr")).CreateElement(qualify(ns, "Id")).SetText(route.FXPAccountID)
	}

	// (g) IntrmyAgt1 описывал этот хоп
	if el := root.FindElement(".//IntrmyAgt1"); el != nil && el.Parent() != nil {
		el.Parent().RemoveChild(el)
	}

	// (h) код клиринговой системы
	if route.ClearingSystemCode != "" {
		if el := root.FindElement(".//ClrSys/Cd"); el != nil {
			el.SetText(route.ClearingSystemCode)
		}
	}

	out, err := doc.WriteToString()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, custom_err.ErrTransformFailed, err)
	}
	return &TransformResult{Body: out, OriginalInstructingAgent: originalInstg}, nil
}

// qualify новые элементы наследуют префикс пространства имен родителя
func qualify(space, tag string) string {
	if space == "" {
		return tag
	}
	return space + ":" + tag
}

// insertBefore вставляет el перед первым потомком из successors, иначе в конец
func insertBefore(parent, el *etree.Element, successors []string) {
	for _, child := range parent.ChildElements() {
		for _, tag := range successors {
			if child.Tag == tag {
				parent.InsertChildAt(child.Index(), el)
				return
			}
		}
	}
	parent.AddChild(el)
}
