// Package judotest is an in-memory stand-in for the Judo API, used by tests
// and by the example command's -local mode.
package judotest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// Card numbers with scripted outcomes.
const (
	DeclinedCard = "4221690000004963"
	ThreeDSCard  = "4976350000006891"
)

// Credentials accepted by the server.
const (
	Token  = "test-token"
	Secret = "test-secret"
)

// Server is a fake Judo API listening on a local port.
type Server struct {
	URL string

	srv *httptest.Server

	mu       sync.Mutex
	seq      int
	receipts []*models.Receipt
	requests map[string]int
	bodies   map[string]map[string]any
}

// NewServer starts a fake backend. Call Close when done.
func NewServer() *Server {
	s := &Server{
		seq:      100000000,
		requests: make(map[string]int),
		bodies:   make(map[string]map[string]any),
	}

	router := chi.NewRouter()
	router.Use(s.record, s.authenticate)
	router.Route("/transactions", func(r chi.Router) {
		r.Get("/", s.list(""))
		r.Get("/payments", s.list("Payment"))
		r.Get("/preauths", s.list("PreAuth"))
		r.Get("/registercard", s.list("RegisterCard"))

		r.Post("/payments", s.createTransaction("Payment"))
		r.Post("/preauths", s.createTransaction("PreAuth"))
		r.Post("/registercard", s.createTransaction("RegisterCard"))
		r.Post("/payments/validate", s.validate)

		r.Post("/collections", s.progress("Collection"))
		r.Post("/voids", s.progress("Void"))
		r.Post("/refunds", s.progress("Refund"))

		r.Get("/{receiptID}", s.getReceipt)
		r.Put("/{receiptID}", s.completeThreeDS)
	})
	router.Post("/acs", s.acs)

	s.srv = httptest.NewServer(router)
	s.URL = s.srv.URL
	return s
}

// Close shuts the server down.
func (s *Server) Close() { s.srv.Close() }

// Seed adds n successful receipts of the given type, oldest first.
func (s *Server) Seed(n int, typ string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.addReceipt(&models.Receipt{
			YourPaymentReference: fmt.Sprintf("seed-%d", i),
			Type:                 typ,
			Result:               models.ResultSuccess,
			Message:              "AuthCode: 123456",
			Amount:               decimal.NewFromInt(int64(i + 1)),
			OriginalAmount:       decimal.NewFromInt(int64(i + 1)),
			NetAmount:            decimal.NewFromInt(int64(i + 1)),
			Currency:             "GBP",
		})
	}
}

// Requests returns how many requests reached method and path, e.g.
// Requests("POST /transactions/payments").
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// LastBody returns the last JSON body sent to method and path.
func (s *Server) LastBody(route string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[route]
}

// ============================================
// Middleware
// ============================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		var body map[string]any
		if r.Body != nil && r.ContentLength != 0 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			dec := json.NewDecoder(r.Body)
			dec.UseNumber()
			if err := dec.Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, 0, 1, "Sorry, we're unable to process your request.", nil)
				return
			}
		}
		s.mu.Lock()
		s.requests[route]++
		if body != nil {
			s.bodies[route] = body
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r.WithContext(withBody(r.Context(), body)))
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/acs" {
			next.ServeHTTP(w, r)
			return
		}
		token, secret, ok := r.BasicAuth()
		if !ok || token != Token || secret != Secret {
			writeError(w, http.StatusUnauthorized, 7, 1, "Authorization has been denied for this request", nil)
			return
		}
		if r.Header.Get("Api-Version") == "" {
			writeError(w, http.StatusBadRequest, 41, 1, "The Api-Version header is missing", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ============================================
// Handlers
// ============================================

func (s *Server) createTransaction(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := bodyFrom(r.Context())
		if details := missingReferences(body); len(details) > 0 {
			writeError(w, http.StatusBadRequest, 1, 2,
				"Sorry, we're unable to process your request. Please check your details and try again.", details)
			return
		}

		receipt := &models.Receipt{
			YourPaymentReference: str(body["yourPaymentReference"]),
			Type:                 typ,
			JudoID:               str(body["judoId"]),
			MerchantName:         "Judo Test Merchant",
			AppearsOnStatementAs: "APL*/JudoTest",
			Currency:             str(body["currency"]),
			Result:               models.ResultSuccess,
			Message:              "AuthCode: 123456",
			Consumer: &models.Consumer{
				ConsumerToken:         "consumer-" + str(body["yourConsumerReference"]),
				YourConsumerReference: str(body["yourConsumerReference"]),
			},
		}
		if amount, err := decimal.NewFromString(str(body["amount"])); err == nil {
			receipt.Amount, receipt.OriginalAmount, receipt.NetAmount = amount, amount, amount
		}

		pan := str(body["cardNumber"])
		if len(pan) >= 4 {
			receipt.CardDetails = &models.CardDetails{
				CardLastFour: pan[len(pan)-4:],
				EndDate:      str(body["expiryDate"]),
				CardToken:    "token-" + pan[len(pan)-4:],
				CardType:     1,
			}
		}
		switch pan {
		case DeclinedCard:
			receipt.Result = models.ResultDeclined
			receipt.Message = "Card declined"
		case ThreeDSCard:
			receipt.Result = models.ResultRequires3DSecure
			receipt.Message = "Issuer authentication required"
			receipt.AcsURL = s.URL + "/acs"
			receipt.MD = "md-" + strconv.Itoa(s.nextSeq())
			receipt.PaReq = "pareq-payload"
		}

		s.mu.Lock()
		s.addReceipt(receipt)
		snapshot := *receipt
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	if details := missingReferences(body); len(details) > 0 {
		writeError(w, http.StatusBadRequest, 1, 2, "Sorry, we're unable to process your request.", details)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  models.ResultSuccess,
		"message": "Your good to go!",
	})
}

func (s *Server) progress(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := bodyFrom(r.Context())
		receiptID := str(body["receiptId"])

		s.mu.Lock()
		defer s.mu.Unlock()
		original := s.find(receiptID)
		if original == nil {
			writeError(w, http.StatusBadRequest, 62, 4, "The referenced transaction was not found", nil)
			return
		}
		amount, err := decimal.NewFromString(str(body["amount"]))
		if err != nil {
			writeError(w, http.StatusBadRequest, 1, 2, "Sorry, we're unable to process your request.",
				[]models.ModelError{{FieldName: "amount", Message: "The amount is invalid", Code: 0}})
			return
		}
		if typ == "Refund" && amount.GreaterThan(original.NetAmount) {
			writeError(w, http.StatusBadRequest, 49, 4, "The refund amount exceeds the original transaction", nil)
			return
		}

		receipt := &models.Receipt{
			OriginalReceiptID:    original.ReceiptID,
			YourPaymentReference: str(body["yourPaymentReference"]),
			Type:                 typ,
			JudoID:               original.JudoID,
			Result:               models.ResultSuccess,
			Amount:               amount,
			OriginalAmount:       original.OriginalAmount,
			NetAmount:            amount,
			Currency:             str(body["currency"]),
		}
		if typ == "Refund" {
			original.NetAmount = original.NetAmount.Sub(amount)
		}
		s.addReceipt(receipt)
		writeJSON(w, http.StatusOK, receipt)
	}
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt := s.find(chi.URLParam(r, "receiptID"))
	if receipt == nil {
		writeError(w, http.StatusNotFound, 19, 1, "Transaction not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (s *Server) completeThreeDS(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	receipt := s.find(chi.URLParam(r, "receiptID"))
	if receipt == nil {
		writeError(w, http.StatusNotFound, 19, 1, "Transaction not found", nil)
		return
	}
	if receipt.Result != models.ResultRequires3DSecure || str(body["md"]) != receipt.MD {
		writeError(w, http.StatusBadRequest, 60, 4, "3D-Secure authentication was not successful", nil)
		return
	}
	receipt.Result = models.ResultSuccess
	receipt.Message = "AuthCode: 654321"
	receipt.AcsURL, receipt.MD, receipt.PaReq = "", "", ""
	writeJSON(w, http.StatusOK, receipt)
}

// acs plays the issuer: it answers the PaReq post with the page that would be
// posted back to the terminal URL.
func (s *Server) acs(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><body onload="document.forms[0].submit()">
<form method="post" action="%s">
<input type="hidden" name="PaRes" value="pares-%s"/>
<input type="hidden" name="MD" value="%s"/>
</form></body></html>`, r.FormValue("TermUrl"), r.FormValue("MD"), r.FormValue("MD"))
}

func (s *Server) list(typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		pageSize := atoiDefault(q.Get("pageSize"), 10)
		offset := atoiDefault(q.Get("offset"), 0)
		sort := models.Sort(q.Get("sort"))
		if sort == "" {
			sort = models.SortDescending
		}
		if offset < 0 {
			writeError(w, http.StatusBadRequest, 20016, 2, "Offset cannot be less than zero", nil)
			return
		}
		if sort != models.SortAscending && sort != models.SortDescending {
			writeError(w, http.StatusBadRequest, 20013, 2, "Unknown sort specified", nil)
			return
		}

		s.mu.Lock()
		var matched []models.Receipt
		for _, rc := range s.receipts {
			if typ == "" || rc.Type == typ {
				matched = append(matched, *rc)
			}
		}
		s.mu.Unlock()

		if sort == models.SortDescending {
			for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}
		page := []models.Receipt{}
		if offset < len(matched) {
			end := offset + pageSize
			if end > len(matched) {
				end = len(matched)
			}
			page = matched[offset:end]
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"resultCount": len(matched),
			"pageSize":    pageSize,
			"offset":      offset,
			"sort":        sort,
			"results":     page,
		})
	}
}

// ============================================
// Helpers
// ============================================

type bodyKey struct{}

func withBody(ctx context.Context, body map[string]any) context.Context {
	return context.WithValue(ctx, bodyKey{}, body)
}

func bodyFrom(ctx context.Context) map[string]any {
	body, _ := ctx.Value(bodyKey{}).(map[string]any)
	return body
}

// addReceipt assigns a Luhn-valid receipt id. Callers hold s.mu.
func (s *Server) addReceipt(r *models.Receipt) {
	s.seq++
	body := strconv.Itoa(s.seq)
	r.ReceiptID = body + checkDigit(body)
	r.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.receipts = append(s.receipts, r)
}

func (s *Server) nextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// find returns the receipt with id. Callers hold s.mu.
func (s *Server) find(id string) *models.Receipt {
	for _, r := range s.receipts {
		if r.ReceiptID == id {
			return r
		}
	}
	return nil
}

func missingReferences(body map[string]any) []models.ModelError {
	var details []models.ModelError
	if str(body["yourConsumerReference"]) == "" {
		details = append(details, models.ModelError{
			FieldName: "yourConsumerReference",
			Message:   "Sorry, but your consumer reference is missing.",
			Detail:    "The yourConsumerReference field is required.",
			Code:      42,
		})
	}
	if str(body["yourPaymentReference"]) == "" {
		details = append(details, models.ModelError{
			FieldName: "yourPaymentReference",
			Message:   "Sorry, but your payment reference is missing.",
			Detail:    "The yourPaymentReference field is required.",
			Code:      43,
		})
	}
	return details
}

func writeError(w http.ResponseWriter, status, code, category int, message string, details []models.ModelError) {
	writeJSON(w, status, map[string]any{
		"message":  message,
		"code":     code,
		"category": category,
		"details":  details,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// checkDigit returns the Luhn check digit for body.
func checkDigit(body string) string {
	sum, dbl := 0, true
	for i := len(body) - 1; i >= 0; i-- {
		d := int(body[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return string(rune('0' + (10-sum%10)%10))
}
