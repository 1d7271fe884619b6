package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConsumerReferenceRequired is returned by NewReference when the consumer
// reference is empty.
var ErrConsumerReferenceRequired = errors.New("models: consumer reference is required")

// Reference identifies the consumer and the individual payment to the merchant.
type Reference struct {
	// ConsumerReference is the merchant's identifier for the paying customer.
	// Always non-empty for references built with NewReference.
	ConsumerReference string

	// PaymentReference must be unique per transaction; the backend and the
	// transaction builder both reject reuse.
	PaymentReference string

	// MetaData is sent as yourPaymentMetaData.
	MetaData map[string]string
}

// NewReference returns a Reference, or nil and ErrConsumerReferenceRequired
// when consumerReference is empty.
func NewReference(consumerReference, paymentReference string, metaData map[string]string) (*Reference, error) {
	if consumerReference == "" {
		return nil, ErrConsumerReferenceRequired
	}
	return &Reference{
		ConsumerReference: consumerReference,
		PaymentReference:  paymentReference,
		MetaData:          metaData,
	}, nil
}

// NewReferenceWithUUID is like NewReference with a random payment reference.
func NewReferenceWithUUID(consumerReference string) (*Reference, error) {
	return NewReference(consumerReference, uuid.NewString(), nil)
}

// Card contains the details of a card entered by the customer.
type Card struct {
	// Number is the full card number (PAN). Spaces and dashes are tolerated.
	Number string

	// ExpiryDate is MM/YY.
	ExpiryDate string

	// CV2 is the security code on the back (front for Amex) of the card.
	CV2 string

	// Address is the billing address used for AVS checks.
	Address *Address

	// StartDate (MM/YY) and IssueNumber are only present on some Maestro cards.
	StartDate   string
	IssueNumber string
}

// Address is a card billing address.
type Address struct {
	Line1       string `json:"line1,omitempty"`
	Line2       string `json:"line2,omitempty"`
	Line3       string `json:"line3,omitempty"`
	Town        string `json:"town,omitempty"`
	PostCode    string `json:"postCode,omitempty"`
	CountryCode int    `json:"countryCode,omitempty"`
}

// PaymentToken is a previously registered card, returned in a receipt's
// consumer and card details.
type PaymentToken struct {
	ConsumerToken string
	CardToken     string

	// CV2 is optional for token payments.
	CV2 string
}

// PKPayment is an Apple Pay payment authorised on the device.
type PKPayment struct {
	PaymentInstrumentName string
	PaymentNetwork        string

	// PaymentData is the JSON blob from PKPaymentToken.paymentData. It is sent
	// as parsed JSON, so it must be a valid JSON document.
	PaymentData []byte
}

// Token returns the wire form of the payment, nested as pkPayment.token.
func (p PKPayment) Token() (map[string]any, error) {
	var data any
	if err := json.Unmarshal(p.PaymentData, &data); err != nil {
		return nil, fmt.Errorf("models: decode apple pay payment data: %w", err)
	}
	return map[string]any{
		"token": map[string]any{
			"paymentInstrumentName": p.PaymentInstrumentName,
			"paymentNetwork":        p.PaymentNetwork,
			"paymentData":           data,
		},
	}, nil
}

// Sort is the ordering of a receipt listing.
type Sort string

const (
	SortAscending  Sort = "time-ascending"
	SortDescending Sort = "time-descending"
)

// Pagination selects a page of a receipt listing.
type Pagination struct {
	PageSize int  `json:"pageSize"`
	Offset   int  `json:"offset"`
	Sort     Sort `json:"sort,omitempty"`
}

// Query returns the query string for p, keeping the pageSize, offset, sort
// order the backend documents.
func (p Pagination) Query() string {
	sort := p.Sort
	if sort == "" {
		sort = SortDescending
	}
	return fmt.Sprintf("pageSize=%d&offset=%d&sort=%s", p.PageSize, p.Offset, sort)
}
