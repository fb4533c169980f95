package models

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRequest is one bank-originated transfer request as carried on the
// wire. Element names match the XML produced by the originating banks; the
// trxId is assigned by the originator and acts as the idempotency key.
type TransactionRequest struct {
	XMLName     xml.Name        `xml:"TransactionRequest" json:"-"`
	TrxID       string          `xml:"TrxId" json:"trxId"`
	BankID      string          `xml:"BankId" json:"bankId"`
	CustomerID  int64           `xml:"CustomerId" json:"customerId"`
	FromAccount string          `xml:"FromAccount" json:"fromAccount"`
	ToAccount   string          `xml:"ToAccount" json:"toAccount"`
	Amount      decimal.Decimal `xml:"Amount" json:"amount"`
	Currency    string          `xml:"Currency" json:"currency"`
	Timestamp   time.Time       `xml:"Timestamp" json:"timestamp"`
}

// DecodeTransactionRequest parses an XML payload into a TransactionRequest.
// Missing elements are left at their zero values and caught by validation;
// malformed XML or unparseable element values return an error.
func DecodeTransactionRequest(payload []byte) (*TransactionRequest, error) {
	var req TransactionRequest
	if err := xml.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("decode transaction request: %w", err)
	}
	return &req, nil
}

// EncodeXML serializes the request for the relay hop to the server.
func (r *TransactionRequest) EncodeXML() ([]byte, error) {
	data, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode transaction request: %w", err)
	}
	return data, nil
}
