package judokit

import (
	"context"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

const receiptPath = "transactions"

// ReceiptQuery reads previously created transactions. It never mutates
// anything on the backend.
type ReceiptQuery struct {
	session   Session
	receiptID string
}

// NewReceiptQuery returns a query for one receipt, or for all transactions
// when receiptID is empty. A non-empty receiptID must pass the Luhn check.
func NewReceiptQuery(session Session, receiptID string) (*ReceiptQuery, error) {
	if receiptID != "" {
		if err := ValidateReceiptID(receiptID); err != nil {
			return nil, err
		}
	}
	return &ReceiptQuery{session: session, receiptID: receiptID}, nil
}

// Path returns the resource path the query reads.
func (q *ReceiptQuery) Path() string {
	if q.receiptID == "" {
		return receiptPath
	}
	return receiptPath + "/" + q.receiptID
}

// List fetches the receipt, or a page of receipts when pagination is set.
func (q *ReceiptQuery) List(ctx context.Context, pagination *models.Pagination, done Completion) error {
	path, err := withPagination(q.Path(), pagination)
	if err != nil {
		return err
	}
	q.session.GET(ctx, path, done)
	return nil
}

func withPagination(path string, p *models.Pagination) (string, error) {
	if p == nil {
		return path, nil
	}
	if p.Offset < 0 || p.PageSize < 0 {
		return "", NewJudoError(CodeParamError)
	}
	return path + "?" + p.Query(), nil
}
