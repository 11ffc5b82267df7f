package iso20022

import (
	"encoding/xml"
	"fmt"
	"nexus-gateway/internal/models"
	"time"

	"github.com/shopspring/decimal"
)

const nsPrefix = "urn:iso:std:iso:20022:tech:xsd:"

// Версии схем исходящих сообщений
const (
	NamespacePacs002 = nsPrefix + "pacs.002.001.15"
	NamespacePacs004 = nsPrefix + "pacs.004.001.14"
	NamespacePacs028 = nsPrefix + "pacs.028.001.06"
	NamespaceCamt054 = nsPrefix + "camt.054.001.13"
	NamespaceCamt056 = nsPrefix + "camt.056.001.11"
	NamespaceCamt029 = nsPrefix + "camt.029.001.13"
)

// GatewayBIC идентификатор шлюза в Assgnr/Assgne
const GatewayBIC = "NEXUSGEN"

const isoDateTime = "2006-01-02T15:04:05.000Z07:00"

type amount struct {
	Ccy   string `xml:"Ccy,attr"`
	Value string `xml:",chardata"`
}

func newAmount(v decimal.Decimal, ccy models.Currency) *amount {
	return &amount{Ccy: string(ccy), Value: models.RoundAmount(v).StringFixed(models.AmountPlaces)}
}

type groupHeader struct {
	MsgId    string `xml:"MsgId"`
	CreDtTm  string `xml:"CreDtTm"`
	NbOfTxs  string `xml:"NbOfTxs,omitempty"`
	SttlmMtd string `xml:"SttlmInf>SttlmMtd,omitempty"`
}

type reason struct {
	Cd    string `xml:"Rsn>Cd,omitempty"`
	Prtry string `xml:"Rsn>Prtry,omitempty"`
	Info  string `xml:"AddtlInf,omitempty"`
}

type agent struct {
	BICFI string `xml:"Agt>FinInstnId>BICFI"`
}

type assignment struct {
	Id      string `xml:"Id"`
	Assgnr  agent  `xml:"Assgnr"`
	Assgne  agent  `xml:"Assgne"`
	CreDtTm string `xml:"CreDtTm"`
}

func newAssignment(msgID string, at time.Time, assignee string) assignment {
	if assignee == "" {
		assignee = GatewayBIC
	}
	return assignment{
		Id:      msgID,
		Assgnr:  agent{BICFI: GatewayBIC},
		Assgne:  agent{BICFI: assignee},
		CreDtTm: at.UTC().Format(isoDateTime),
	}
}

func marshalDocument(doc any) (string, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("iso20022.marshal: %w", err)
	}
	return xml.Header + string(out), nil
}

// pacs.002

// StatusReportParams данные для pacs.002 FIToFIPmtStsRpt
type StatusReportParams struct {
	MessageID          string
	CreatedAt          time.Time
	UETR               string
	EndToEndID         string
	Status             string
	ReasonCode         models.ReasonCode
	AdditionalInfo     string
	SettlementAmount   *decimal.Decimal
	SettlementCurrency models.Currency
}

type pacs002Document struct {
	XMLName xml.Name      `xml:"Document"`
	Xmlns   string        `xml:"xmlns,attr"`
	Report  pacs002Report `xml:"FIToFIPmtStsRpt"`
}

type pacs002Report struct {
	GrpHdr groupHeader `xml:"GrpHdr"`
	TxInf  pacs002Tx   `xml:"TxInfAndSts"`
}

type pacs002Tx struct {
	OrgnlInstrId    string  `xml:"OrgnlInstrId"`
	OrgnlEndToEndId string  `xml:"OrgnlEndToEndId"`
	OrgnlUETR       string  `xml:"OrgnlUETR"`
	TxSts           string  `xml:"TxSts"`
	StsRsnInf       *reason `xml:"StsRsnInf,omitempty"`
	OrgnlTxRef      *txRef  `xml:"OrgnlTxRef,omitempty"`
}

type txRef struct {
	IntrBkSttlmAmt *amount `xml:"IntrBkSttlmAmt"`
}

// RenderPacs002 формирует статус-отчет; код причины пишется в StsRsnInf/Rsn/Cd
func RenderPacs002(p StatusReportParams) (string, error) {
	endToEnd := p.EndToEndID
	if endToEnd == "" {
		endToEnd = p.UETR
	}
	tx := pacs002Tx{
		OrgnlInstrId:    p.UETR,
		OrgnlEndToEndId: endToEnd,
		OrgnlUETR:       p.UETR,
		TxSts:           p.Status,
	}
	if p.ReasonCode != models.ReasonCodeNone || p.AdditionalInfo != "" {
		tx.StsRsnInf = &reason{Cd: string(p.ReasonCode), Info: p.AdditionalInfo}
	}
	if p.SettlementAmount != nil {
		tx.OrgnlTxRef = &txRef{IntrBkSttlmAmt: newAmount(*p.SettlementAmount, p.SettlementCurrency)}
	}

	return marshalDocument(pacs002Document{
		Xmlns: NamespacePacs002,
		Report: pacs002Report{
			GrpHdr: groupHeader{MsgId: p.MessageID, CreDtTm: p.CreatedAt.UTC().Format(isoDateTime)},
			TxInf:  tx,
		},
	})
}

// camt.054

type NotificationParams struct {
	MessageID    string
	CreatedAt    time.Time
	UETR         string
	Amount       decimal.Decimal
	Currency     models.Currency
	DebtorName   string
	CreditorName string
	Status       string
}

type camt054Document struct {
	XMLName      xml.Name            `xml:"Document"`
	Xmlns        string              `xml:"xmlns,attr"`
	Notification camt054Notification `xml:"BkToCstmrDbtCdtNtfctn"`
}

type camt054Notification struct {
	GrpHdr groupHeader  `xml:"GrpHdr"`
	Ntfctn camt054Entry `xml:"Ntfctn"`
}

type camt054Entry struct {
	Id           string  `xml:"Id"`
	CreDtTm      string  `xml:"CreDtTm"`
	AcctId       string  `xml:"Acct>Id>Othr>Id"`
	Amt          *amount `xml:"Ntry>Amt"`
	CdtDbtInd    string  `xml:"Ntry>CdtDbtInd"`
	Sts          string  `xml:"Ntry>Sts>Cd"`
	Domain       string  `xml:"Ntry>BkTxCd>Domn>Cd"`
	Family       string  `xml:"Ntry>BkTxCd>Domn>Fmly>Cd"`
	SubFamily    string  `xml:"Ntry>BkTxCd>Domn>Fmly>SubFmlyCd"`
	UETR         string  `xml:"Ntry>NtryDtls>TxDtls>Refs>UETR"`
	DebtorName   string  `xml:"Ntry>NtryDtls>TxDtls>RltdPties>Dbtr>Pty>Nm,omitempty"`
	CreditorName string  `xml:"Ntry>NtryDtls>TxDtls>RltdPties>Cdtr>Pty>Nm,omitempty"`
}

// RenderCamt054 уведомление о зачислении для PSP получателя
func RenderCamt054(p NotificationParams) (string, error) {
	at := p.CreatedAt.UTC().Format(isoDateTime)
	status := p.Status
	if status == "" {
		status = "BOOK"
	}
	return marshalDocument(camt054Document{
		Xmlns: NamespaceCamt054,
		Notification: camt054Notification{
			GrpHdr: groupHeader{MsgId: p.MessageID, CreDtTm: at},
			Ntfctn: camt054Entry{
				Id:           p.UETR,
				CreDtTm:      at,
				AcctId:       "SETTLEMENT-ACCOUNT",
				Amt:          newAmount(p.Amount, p.Currency),
				CdtDbtInd:    "CRDT",
				Sts:          status,
				Domain:       "PMNT",
				Family:       "ICDT",
				SubFamily:    "SNDB",
				UETR:         p.UETR,
				DebtorName:   p.DebtorName,
				CreditorName: p.CreditorName,
			},
		},
	})
}

// camt.056

type CancellationParams struct {
	MessageID    string
	CreatedAt    time.Time
	CaseID       string
	OriginalUETR string
	RequestedBy  string
	ReasonCode   string
	ReasonText   string
	Amount       *decimal.Decimal
	Currency     models.Currency
}

type camt056Document struct {
	XMLName xml.Name       `xml:"Document"`
	Xmlns   string         `xml:"xmlns,attr"`
	Request camt056Request `xml:"FIToFIPmtCxlReq"`
}

type camt056Request struct {
	Assgnmt assignment `xml:"Assgnmt"`
	CaseID  string     `xml:"Case>Id"`
	Cretr   agent      `xml:"Case>Cretr"`
	TxInf   camt056Tx  `xml:"Undrlyg>TxInf"`
}

type camt056Tx struct {
	OrgnlEndToEndId string  `xml:"OrgnlEndToEndId"`
	OrgnlUETR       string  `xml:"OrgnlUETR"`
	OrgnlAmt        *amount `xml:"OrgnlIntrBkSttlmAmt,omitempty"`
	CxlRsnInf       reason  `xml:"CxlRsnInf"`
}

// RenderCamt056 запрос на отзыв платежа
func RenderCamt056(p CancellationParams) (string, error) {
	tx := camt056Tx{
		OrgnlEndToEndId: p.OriginalUETR,
		OrgnlUETR:       p.OriginalUETR,
		CxlRsnInf:       reason{Cd: p.ReasonCode, Info: p.ReasonText},
	}
	if p.Amount != nil && p.Currency != "" {
		tx.OrgnlAmt = newAmount(*p.Amount, p.Currency)
	}
	creator := p.RequestedBy
	if creator == "" {
		creator = GatewayBIC
	}
	return marshalDocument(camt056Document{
		Xmlns: NamespaceCamt056,
		Request: camt056Request{
			Assgnmt: newAssignment(p.MessageID, p.CreatedAt, ""),
			CaseID:  p.CaseID,
			Cretr:   agent{BICFI: creator},
			TxInf:   tx,
		},
	})
}

// camt.029

type ResolutionParams struct {
	MessageID    string
	CreatedAt    time.Time
	CaseID       string
	OriginalUETR string
	Status       models.InvestigationStatus
	Reason       string
	RespondedBy  string
}

type camt029Document struct {
	XMLName    xml.Name          `xml:"Document"`
	Xmlns      string            `xml:"xmlns,attr"`
	Resolution camt029Resolution `xml:"RsltnOfInvstgtn"`
}

type camt029Resolution struct {
	Assgnmt   assignment `xml:"Assgnmt"`
	CaseID    string     `xml:"RslvdCase>Id"`
	Cretr     agent      `xml:"RslvdCase>Cretr"`
	Conf      string     `xml:"Sts>Conf"`
	OrgnlUETR string     `xml:"CxlDtls>TxInfAndSts>OrgnlUETR"`
	Reason    *reason    `xml:"CxlDtls>TxInfAndSts>CxlStsRsnInf,omitempty"`
}

// RenderCamt029 решение по отзыву
func RenderCamt029(p ResolutionParams) (string, error) {
	res := camt029Resolution{
		Assgnmt:   newAssignment(p.MessageID, p.CreatedAt, ""),
		CaseID:    p.CaseID,
		Cretr:     agent{BICFI: nonEmpty(p.RespondedBy, GatewayBIC)},
		Conf:      string(p.Status),
		OrgnlUETR: p.OriginalUETR,
	}
	if p.Reason != "" {
		res.Reason = &reason{Info: p.Reason}
	}
	return marshalDocument(camt029Document{Xmlns: NamespaceCamt029, Resolution: res})
}

// pacs.004

type ReturnParams struct {
	MessageID    string
	CreatedAt    time.Time
	ReturnUETR   string
	OriginalUETR string
	Amount       decimal.Decimal
	Currency     models.Currency
	ReasonCode   string
	ReasonText   string
}

type pacs004Document struct {
	XMLName xml.Name      `xml:"Document"`
	Xmlns   string        `xml:"xmlns,attr"`
	Return  pacs004Return `xml:"PmtRtr"`
}

type pacs004Return struct {
	GrpHdr groupHeader `xml:"GrpHdr"`
	TxInf  pacs004Tx   `xml:"TxInf"`
}

type pacs004Tx struct {
	RtrId           string  `xml:"RtrId"`
	OrgnlEndToEndId string  `xml:"OrgnlEndToEndId"`
	OrgnlUETR       string  `xml:"OrgnlUETR"`
	RtrdAmt         *amount `xml:"RtrdIntrBkSttlmAmt"`
	RtrRsnInf       reason  `xml:"RtrRsnInf"`
}

// RenderPacs004 возврат средств по исходному UETR
func RenderPacs004(p ReturnParams) (string, error) {
	return marshalDocument(pacs004Document{
		Xmlns: NamespacePacs004,
		Return: pacs004Return{
			GrpHdr: groupHeader{
				MsgId:    p.MessageID,
				CreDtTm:  p.CreatedAt.UTC().Format(isoDateTime),
				NbOfTxs:  "1",
				SttlmMtd: "CLRG",
			},
			TxInf: pacs004Tx{
				RtrId:           p.ReturnUETR,
				OrgnlEndToEndId: p.OriginalUETR,
				OrgnlUETR:       p.OriginalUETR,
				RtrdAmt:         newAmount(p.Amount, p.Currency),
				RtrRsnInf:       reason{Cd: p.ReasonCode, Info: p.ReasonText},
			},
		},
	})
}

// pacs.028

type StatusRequestParams struct {
	MessageID    string
	CreatedAt    time.Time
	RequestID    string
	OriginalUETR string
	QueryingPSP  string
}

type pacs028Document struct {
	XMLName xml.Name       `xml:"Document"`
	Xmlns   string         `xml:"xmlns,attr"`
	Request pacs028Request `xml:"FIToFIPmtStsReq"`
}

type pacs028Request struct {
	GrpHdr groupHeader `xml:"GrpHdr"`
	TxInf  pacs028Tx   `xml:"TxInf"`
}

type pacs028Tx struct {
	StsReqId        string `xml:"StsReqId"`
	OrgnlEndToEndId string `xml:"OrgnlEndToEndId"`
	OrgnlUETR       string `xml:"OrgnlUETR"`
	InstgAgt        string `xml:"InstgAgt>FinInstnId>BICFI,omitempty"`
}

func RenderPacs028(p StatusRequestParams) (string, error) {
	return marshalDocument(pacs028Document{
		Xmlns: NamespacePacs028,
		Request: pacs028Request{
			GrpHdr: groupHeader{MsgId: p.MessageID, CreDtTm: p.CreatedAt.UTC().Format(isoDateTime)},
			TxInf: pacs028Tx{
				StsReqId:        p.RequestID,
				OrgnlEndToEndId: p.OriginalUETR,
				OrgnlUETR:       p.OriginalUETR,
				InstgAgt:        p.QueryingPSP,
			},
		},
	})
}

func nonEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
