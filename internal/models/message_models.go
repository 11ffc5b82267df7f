package models

import "time"

// MessageAck квитанция на сообщение, которое шлюз только принимает к сведению
// (acmt.023/024, pain.001, camt.103)
type MessageAck struct {
	RequestID        string      `json:"requestId"`
	MessageType      MessageType `json:"messageType"`
	Status           string      `json:"status"`
	Message          string      `json:"message,omitempty"`
	CallbackEndpoint string      `json:"callbackEndpoint,omitempty"`
	ProcessedAt      time.Time   `json:"processedAt"`
}
