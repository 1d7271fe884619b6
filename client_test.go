package judokit_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	judokit "github.com/hugochinchilla79/judokit_sdk"
	"github.com/hugochinchilla79/judokit_sdk/internal/judotest"
	"github.com/hugochinchilla79/judokit_sdk/models"
)

const judoID = "100963875"

type result struct {
	resp *models.Response
	err  error
}

// await returns a Completion and a function blocking until it has fired.
// It fails the test if the completion fires more than once.
func await(t *testing.T) (judokit.Completion, func() result) {
	t.Helper()
	ch := make(chan result, 2)
	done := func(resp *models.Response, err error) {
		ch <- result{resp, err}
	}
	wait := func() result {
		t.Helper()
		var r result
		select {
		case r = <-ch:
		case <-time.After(5 * time.Second):
			t.Fatal("completion was not called")
		}
		select {
		case <-ch:
			t.Fatal("completion called twice")
		case <-time.After(20 * time.Millisecond):
		}
		return r
	}
	return done, wait
}

func newTestClient(t *testing.T, server *judotest.Server) *judokit.Client {
	t.Helper()
	client, err := judokit.NewClient(judokit.Config{
		APIToken:  judotest.Token,
		APISecret: judotest.Secret,
		BaseURL:   server.URL,
		DeviceID:  "test-device",
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return client
}

func card(number string) models.Card {
	return models.Card{Number: number, ExpiryDate: "12/25", CV2: "452"}
}

func pay(t *testing.T, client *judokit.Client, amount string, c models.Card) result {
	t.Helper()
	ref, err := models.NewReferenceWithUUID("consumer-1")
	require.NoError(t, err)
	tx, err := client.Payment(judoID, judokit.MustParseAmount(amount), ref)
	require.NoError(t, err)

	done, wait := await(t)
	require.NoError(t, tx.Card(c).Complete(context.Background(), done))
	return wait()
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	_, err := judokit.NewClient(judokit.Config{APIToken: "token"})
	require.Error(t, err)
}

func TestPayment(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	r := pay(t, client, "10.50GBP", card("4976 0000 0000 3436"))
	require.NoError(t, r.err)
	receipt := r.resp.First()
	require.NotNil(t, receipt)
	require.Equal(t, models.ResultSuccess, receipt.Result)
	require.Equal(t, "Payment", receipt.Type)
	require.Equal(t, "10.5", receipt.Amount.String())
	require.True(t, judokit.IsLuhnValid(receipt.ReceiptID))
	require.NotNil(t, receipt.PaymentToken())

	body := server.LastBody("POST /transactions/payments")
	require.Equal(t, "4976000000003436", body["cardNumber"])
	require.Equal(t, json.Number("10.5"), body["amount"])
	require.Equal(t, "GBP", body["currency"])
	require.Equal(t, judoID, body["judoId"])
}

func TestPayment_Declined(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()

	r := pay(t, newTestClient(t, server), "1.00GBP", card(judotest.DeclinedCard))
	require.Nil(t, r.resp)
	je, ok := judokit.AsJudoError(r.err)
	require.True(t, ok)
	require.Equal(t, judokit.CodePaymentDeclined, je.Code)
	require.Equal(t, judokit.CategoryProcessing, je.Category)
	require.Equal(t, models.ResultDeclined, je.Receipt.Result)
}

func TestPayment_MissingReference(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	tx, err := client.Payment(judoID, judokit.MustParseAmount("1.00GBP"), nil)
	require.NoError(t, err)

	done, wait := await(t)
	require.NoError(t, tx.Card(card("4976000000003436")).Complete(context.Background(), done))
	r := wait()

	je, ok := judokit.AsJudoError(r.err)
	require.True(t, ok)
	require.Equal(t, judokit.CodeGeneralModelError, je.Code)
	require.Equal(t, judokit.CategoryModel, je.Category)
	require.Equal(t, http.StatusBadRequest, je.HTTPStatus)
	require.Len(t, je.Details, 2)
	require.Equal(t, "yourConsumerReference", je.Details[0].FieldName)
	require.Equal(t, "yourPaymentReference", je.Details[1].FieldName)
}

func TestPayment_LocalErrorSkipsNetwork(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	ref, _ := models.NewReferenceWithUUID("consumer-1")
	tx, err := client.Payment(judoID, judokit.MustParseAmount("1.00GBP"), ref)
	require.NoError(t, err)

	called := false
	err = tx.Complete(context.Background(), func(*models.Response, error) { called = true })
	require.True(t, judokit.HasCode(err, judokit.CodeCardOrTokenMissing))
	require.False(t, called)
	require.Zero(t, server.Requests("POST /transactions/payments"))
}

func TestHTTPSession_Unauthorized(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()

	session := judokit.NewHTTPSession(server.URL, "wrong", "creds", "", nil, nil)
	done, wait := await(t)
	session.GET(context.Background(), "transactions", done)

	je, ok := judokit.AsJudoError(wait().err)
	require.True(t, ok)
	require.Equal(t, judokit.CodeUnauthorized, je.Code)
	require.Equal(t, http.StatusUnauthorized, je.HTTPStatus)
}

func TestHTTPSession_Headers(t *testing.T) {
	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"receiptId":"100963875","result":"Success"}`)
	}))
	defer srv.Close()

	session := judokit.NewHTTPSession(srv.URL, judotest.Token, judotest.Secret, "6.1.0", nil, nil)
	done, wait := await(t)
	session.POST(context.Background(), "transactions/payments", judokit.Parameters{"judoId": judoID}, done)
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, models.ResultSuccess, r.resp.First().Result)

	h := <-headers
	require.Equal(t, "6.1.0", h.Get("Api-Version"))
	require.Equal(t, "application/json", h.Get("Accept"))
	require.Contains(t, h.Get("Content-Type"), "application/json")
	require.Contains(t, h.Get("User-Agent"), "judokit-go/"+judokit.SDKVersion)
	require.Contains(t, h.Get("Authorization"), "Basic ")
}

func TestHTTPSession_DefaultAPIVersion(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()

	// The fake backend rejects requests without an Api-Version header.
	session := judokit.NewHTTPSession(server.URL, judotest.Token, judotest.Secret, "", nil, nil)
	done, wait := await(t)
	session.POST(context.Background(), "transactions/payments/validate", judokit.Parameters{
		"yourConsumerReference": "c",
		"yourPaymentReference":  "p",
	}, done)
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, models.ResultSuccess, r.resp.First().Result)
}

func TestHTTPSession_TransportFailure(t *testing.T) {
	session := judokit.NewHTTPSession("http://127.0.0.1:1", "t", "s", "", &http.Client{Timeout: time.Second}, nil)
	done, wait := await(t)
	session.GET(context.Background(), "transactions", done)

	r := wait()
	require.True(t, judokit.HasCode(r.err, judokit.CodeRequestFailed))
}

func TestHTTPSession_ConcurrentCalls(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	server.Seed(5, "Payment")
	session := judokit.NewHTTPSession(server.URL, judotest.Token, judotest.Secret, "", nil, nil)

	const calls = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		count int
	)
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		session.GET(context.Background(), "transactions", func(resp *models.Response, err error) {
			defer wg.Done()
			if err != nil || len(resp.Items) != 5 {
				t.Errorf("unexpected result: %v", err)
				return
			}
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	wg.Wait()
	require.Equal(t, calls, count)
	require.Equal(t, calls, server.Requests("GET /transactions"))
}

func TestListReceipts_Pagination(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	server.Seed(100, "Payment")
	client := newTestClient(t, server)

	q, err := client.Receipts("")
	require.NoError(t, err)

	done, wait := await(t)
	require.NoError(t, q.List(context.Background(), &models.Pagination{PageSize: 15, Offset: 44, Sort: models.SortDescending}, done))
	r := wait()
	require.NoError(t, r.err)
	require.Len(t, r.resp.Items, 15)
	require.Equal(t, 44, r.resp.Pagination.Offset)
	require.Equal(t, 15, r.resp.Pagination.PageSize)
	require.Equal(t, models.SortDescending, r.resp.Pagination.Sort)
	// Newest first: the 100 seeds are numbered 1..100 by amount.
	require.Equal(t, "56", r.resp.Items[0].Amount.String())
}

func TestListPayments(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	server.Seed(3, "Payment")
	server.Seed(2, "PreAuth")
	client := newTestClient(t, server)

	ref, _ := models.NewReferenceWithUUID("consumer-1")
	tx, err := client.PreAuth(judoID, judokit.MustParseAmount("1GBP"), ref)
	require.NoError(t, err)

	done, wait := await(t)
	require.NoError(t, tx.List(context.Background(), &models.Pagination{PageSize: 10, Sort: models.SortAscending}, done))
	r := wait()
	require.NoError(t, r.err)
	require.Len(t, r.resp.Items, 2)
	for _, item := range r.resp.Items {
		require.Equal(t, "PreAuth", item.Type)
	}
}

func TestReceiptByID(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	paid := pay(t, client, "3.00EUR", card("4976000000003436"))
	require.NoError(t, paid.err)
	id := paid.resp.First().ReceiptID

	q, err := client.Receipts(id)
	require.NoError(t, err)
	done, wait := await(t)
	require.NoError(t, q.List(context.Background(), nil, done))
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, id, r.resp.First().ReceiptID)
}

func TestRefund(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	paid := pay(t, client, "10.00GBP", card("4976000000003436"))
	require.NoError(t, paid.err)
	id := paid.resp.First().ReceiptID

	refund, err := client.Refund(id, judokit.MustParseAmount("4.00GBP"))
	require.NoError(t, err)
	done, wait := await(t)
	require.NoError(t, refund.Complete(context.Background(), done))
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, "Refund", r.resp.First().Type)
	require.Equal(t, id, r.resp.First().OriginalReceiptID)

	body := server.LastBody("POST /transactions/refunds")
	require.Equal(t, refund.PaymentReference(), body["yourPaymentReference"])
	require.LessOrEqual(t, len(refund.PaymentReference()), 40)

	// Refunding more than what is left is rejected by the backend.
	again, err := client.Refund(id, judokit.MustParseAmount("7.00GBP"))
	require.NoError(t, err)
	done, wait = await(t)
	require.NoError(t, again.Complete(context.Background(), done))
	require.True(t, judokit.HasCode(wait().err, judokit.CodeRefundExceedsOriginalTransaction))
}

func TestCollectionAndVoid(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	ref, _ := models.NewReferenceWithUUID("consumer-1")
	tx, err := client.PreAuth(judoID, judokit.MustParseAmount("20GBP"), ref)
	require.NoError(t, err)
	done, wait := await(t)
	require.NoError(t, tx.Card(card("4976000000003436")).Complete(context.Background(), done))
	pre := wait()
	require.NoError(t, pre.err)
	id := pre.resp.First().ReceiptID

	collect, err := client.Collection(id, judokit.MustParseAmount("20GBP"))
	require.NoError(t, err)
	done, wait = await(t)
	require.NoError(t, collect.Complete(context.Background(), done))
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, "Collection", r.resp.First().Type)

	void, err := client.Void(id, judokit.MustParseAmount("20GBP"))
	require.NoError(t, err)
	done, wait = await(t)
	require.NoError(t, void.Complete(context.Background(), done))
	require.NoError(t, wait().err)
}

func TestProcess_UnknownReceipt(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	void, err := client.Void("100963875", judokit.MustParseAmount("1GBP"))
	require.NoError(t, err)
	done, wait := await(t)
	require.NoError(t, void.Complete(context.Background(), done))

	je, ok := judokit.AsJudoError(wait().err)
	require.True(t, ok)
	require.Equal(t, judokit.CodeReferencedTransactionNotFound, je.Code)
	require.Equal(t, judokit.CategoryProcessing, je.Category)
}

func TestRegisterCard(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	ref, _ := models.NewReferenceWithUUID("consumer-1")
	tx, err := client.RegisterCard(judoID, ref)
	require.NoError(t, err)
	done, wait := await(t)
	require.NoError(t, tx.Card(card("4976000000003436")).Complete(context.Background(), done))
	r := wait()
	require.NoError(t, r.err)

	token := r.resp.First().PaymentToken()
	require.NotNil(t, token)

	// Charge the registered card.
	ref2, _ := models.NewReferenceWithUUID("consumer-1")
	charge, err := client.Payment(judoID, judokit.MustParseAmount("2GBP"), ref2)
	require.NoError(t, err)
	done, wait = await(t)
	require.NoError(t, charge.PaymentToken(*token).Complete(context.Background(), done))
	require.NoError(t, wait().err)
	require.Equal(t, token.CardToken, server.LastBody("POST /transactions/payments")["cardToken"])
}

func TestThreeDSecureFlow(t *testing.T) {
	server := judotest.NewServer()
	defer server.Close()
	client := newTestClient(t, server)

	ref, _ := models.NewReferenceWithUUID("consumer-1")
	tx, err := client.Payment(judoID, judokit.MustParseAmount("5GBP"), ref)
	require.NoError(t, err)

	done, wait := await(t)
	require.NoError(t, tx.Card(card(judotest.ThreeDSCard)).Complete(context.Background(), done))
	je, ok := judokit.AsJudoError(wait().err)
	require.True(t, ok)
	require.Equal(t, judokit.CodeThreeDSAuthRequest, je.Code)
	challenge := je.Challenge
	require.NotNil(t, challenge)

	// Play the browser: post PaReq to the ACS and read back its form.
	resp, err := http.PostForm(challenge.AcsURL, url.Values{
		"PaReq":   {challenge.PaReq},
		"MD":      {challenge.MD},
		"TermUrl": {"https://merchant.example/3ds"},
	})
	require.NoError(t, err)
	page, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	fields, err := judokit.ParseACSForm(page)
	require.NoError(t, err)
	require.Equal(t, challenge.MD, fields["MD"])

	done, wait = await(t)
	require.NoError(t, tx.ThreeDSecure(context.Background(), fields, challenge.ReceiptID, done))
	r := wait()
	require.NoError(t, r.err)
	require.Equal(t, models.ResultSuccess, r.resp.First().Result)
	require.Equal(t, 1, server.Requests("PUT /transactions/"+challenge.ReceiptID))
}
