package judokit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// ============================================
// Backend error envelope
// ============================================

// ErrorEnvelope is the body returned by the backend for failed requests.
// Older API versions report field errors as modelErrors, newer ones as details.
type ErrorEnvelope struct {
	Message     string              `json:"message"`
	Code        int                 `json:"code"`
	Category    int                 `json:"category"`
	Details     []models.ModelError `json:"details,omitempty"`
	ModelErrors []models.ModelError `json:"modelErrors,omitempty"`
}

func (e ErrorEnvelope) fieldErrors() []models.ModelError {
	if len(e.Details) > 0 {
		return e.Details
	}
	return e.ModelErrors
}

// ============================================
// Receipt and listing bodies
// ============================================

type listBody struct {
	ResultCount int              `json:"resultCount"`
	PageSize    int              `json:"pageSize"`
	Offset      int              `json:"offset"`
	Sort        models.Sort      `json:"sort"`
	Results     []models.Receipt `json:"results"`
}

// decodeResponse turns a 2xx body into a Response. A body carrying a results
// array is a listing; anything else is a single receipt.
func decodeResponse(status int, body []byte) (*models.Response, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\ufeff")))
	if len(trimmed) == 0 {
		return &models.Response{}, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, parseError(status, body, err)
	}

	if _, ok := probe["results"]; ok {
		var list listBody
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, parseError(status, body, err)
		}
		return &models.Response{
			Items: list.Results,
			Pagination: &models.Pagination{
				PageSize: list.PageSize,
				Offset:   list.Offset,
				Sort:     list.Sort,
			},
		}, nil
	}

	var receipt models.Receipt
	if err := json.Unmarshal(trimmed, &receipt); err != nil {
		return nil, parseError(status, body, err)
	}
	if err := receiptError(status, body, &receipt); err != nil {
		return nil, err
	}
	return &models.Response{Items: []models.Receipt{receipt}}, nil
}

// receiptError reports receipts that decoded fine but did not succeed.
func receiptError(status int, body []byte, r *models.Receipt) *JudoError {
	switch {
	case r.Result == models.ResultDeclined:
		e := NewJudoError(CodePaymentDeclined)
		e.Message = r.Message
		e.Hint = fmt.Sprintf("The transaction %s was declined: %s", r.ReceiptID, r.Message)
		e.HTTPStatus, e.Body, e.Receipt = status, body, r
		return e
	case r.Result == models.ResultError:
		e := NewJudoError(CodePaymentFailed)
		e.Message = r.Message
		e.Hint = fmt.Sprintf("The transaction %s failed: %s", r.ReceiptID, r.Message)
		e.HTTPStatus, e.Body, e.Receipt = status, body, r
		return e
	case r.AcsURL != "" || r.Result == models.ResultRequires3DSecure:
		e := NewJudoError(CodeThreeDSAuthRequest)
		e.HTTPStatus, e.Body, e.Receipt = status, body, r
		e.Challenge = &ThreeDSChallenge{
			ReceiptID: r.ReceiptID,
			AcsURL:    r.AcsURL,
			MD:        r.MD,
			PaReq:     r.PaReq,
		}
		return e
	}
	return nil
}

// decodeError turns a non-2xx body into a JudoError. Bodies that are not a
// Judo envelope, such as a proxy's HTML page, are classified by status.
func decodeError(status int, body []byte) *JudoError {
	var env ErrorEnvelope
	err := json.Unmarshal(bytes.TrimSpace(bytes.TrimPrefix(body, []byte("\ufeff"))), &env)
	if err != nil || (env.Code == 0 && env.Message == "") {
		e := NewRemoteError(status, ErrorEnvelope{
			Message: http.StatusText(status),
			Code:    int(codeForStatus(status)),
		})
		e.Body, e.cause = body, err
		return e
	}
	e := NewRemoteError(status, env)
	e.Body = body
	return e
}

func codeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeAuthenticationFailure
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= 500:
		return CodeServerError
	default:
		return CodeGeneralError
	}
}

func parseError(status int, body []byte, cause error) *JudoError {
	e := newLocalError(CodeResponseParse, cause)
	e.HTTPStatus, e.Body = status, body
	return e
}
