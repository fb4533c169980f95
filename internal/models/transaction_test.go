package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTransactionRequest(t *testing.T) {
	payload := []byte(`<TransactionRequest>
		<TrxId>TRX-20250101-000001</TrxId>
		<BankId>BANK_A</BankId>
		<CustomerId>42</CustomerId>
		<FromAccount>1234567890</FromAccount>
		<ToAccount>0987654321</ToAccount>
		<Amount>2500.75</Amount>
		<Currency>USD</Currency>
		<Timestamp>2025-01-01T10:30:00Z</Timestamp>
	</TransactionRequest>`)

	req, err := DecodeTransactionRequest(payload)
	require.NoError(t, err)

	assert.Equal(t, "TRX-20250101-000001", req.TrxID)
	assert.Equal(t, "BANK_A", req.BankID)
	assert.Equal(t, int64(42), req.CustomerID)
	assert.Equal(t, "1234567890", req.FromAccount)
	assert.Equal(t, "2500.75", req.Amount.String())
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC), req.Timestamp)
}

func TestDecodeTransactionRequest_MissingFieldsLeftZero(t *testing.T) {
	payload := []byte(`<TransactionRequest><TrxId>TRX-20250101-000001</TrxId></TransactionRequest>`)

	req, err := DecodeTransactionRequest(payload)
	require.NoError(t, err)
	assert.Empty(t, req.BankID)
	assert.True(t, req.Amount.IsZero())
	assert.True(t, req.Timestamp.IsZero())
}

func TestDecodeTransactionRequest_Malformed(t *testing.T) {
	_, err := DecodeTransactionRequest([]byte(`<TransactionRequest><TrxId>`))
	assert.Error(t, err)
}

func TestEncodeXML_RoundTrip(t *testing.T) {
	req := &TransactionRequest{
		TrxID:       "TRX-20250101-000002",
		BankID:      "BANK_B",
		FromAccount: "1111111111",
		ToAccount:   "2222222222",
		Currency:    "EUR",
		Timestamp:   time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	}

	payload, err := req.EncodeXML()
	require.NoError(t, err)

	decoded, err := DecodeTransactionRequest(payload)
	require.NoError(t, err)
	assert.Equal(t, req.TrxID, decoded.TrxID)
	assert.Equal(t, req.BankID, decoded.BankID)
	assert.True(t, req.Timestamp.Equal(decoded.Timestamp))
}
