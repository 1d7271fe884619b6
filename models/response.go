package models

import "github.com/shopspring/decimal"

// Transaction results reported in Receipt.Result.
const (
	ResultSuccess          = "Success"
	ResultDeclined         = "Declined"
	ResultError            = "Error"
	ResultRequires3DSecure = "Requires 3D Secure"
)

// Receipt is the backend's record of a transaction.
type Receipt struct {
	ReceiptID            string          `json:"receiptId"`
	OriginalReceiptID    string          `json:"originalReceiptId,omitempty"`
	YourPaymentReference string          `json:"yourPaymentReference,omitempty"`
	Type                 string          `json:"type,omitempty"`
	CreatedAt            string          `json:"createdAt,omitempty"`
	Result               string          `json:"result,omitempty"`
	Message              string          `json:"message,omitempty"`
	JudoID               string          `json:"judoId,omitempty"`
	MerchantName         string          `json:"merchantName,omitempty"`
	AppearsOnStatementAs string          `json:"appearsOnStatementAs,omitempty"`
	OriginalAmount       decimal.Decimal `json:"originalAmount"`
	Amount               decimal.Decimal `json:"amount"`
	NetAmount            decimal.Decimal `json:"netAmount"`
	Currency             string          `json:"currency,omitempty"`
	CardDetails          *CardDetails    `json:"cardDetails,omitempty"`
	Consumer             *Consumer       `json:"consumer,omitempty"`

	// Set when Result is ResultRequires3DSecure.
	AcsURL string `json:"acsUrl,omitempty"`
	MD     string `json:"md,omitempty"`
	PaReq  string `json:"paReq,omitempty"`
}

// CardDetails is the masked card used for a transaction.
type CardDetails struct {
	CardLastFour string `json:"cardLastfour,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	CardToken    string `json:"cardToken,omitempty"`
	CardType     int    `json:"cardType,omitempty"`
}

// Consumer is the customer a transaction belongs to.
type Consumer struct {
	ConsumerToken         string `json:"consumerToken,omitempty"`
	YourConsumerReference string `json:"yourConsumerReference,omitempty"`
}

// PaymentToken returns the token to charge this receipt's card again.
func (r Receipt) PaymentToken() *PaymentToken {
	if r.CardDetails == nil || r.Consumer == nil {
		return nil
	}
	return &PaymentToken{
		ConsumerToken: r.Consumer.ConsumerToken,
		CardToken:     r.CardDetails.CardToken,
	}
}

// Response is a decoded backend response: one receipt for transaction calls,
// a page of receipts for listings.
type Response struct {
	Items []Receipt

	// Pagination is set for listings only.
	Pagination *Pagination
}

// First returns the first receipt, or nil for an empty response.
func (r *Response) First() *Receipt {
	if r == nil || len(r.Items) == 0 {
		return nil
	}
	return &r.Items[0]
}

// ModelError is a field-level validation failure reported by the backend.
type ModelError struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
	Detail    string `json:"detail"`
	Code      int    `json:"code"`
}
