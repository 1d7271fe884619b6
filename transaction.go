package judokit

import (
	"context"
	"log/slog"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// TransactionKind selects the kind of new transaction and its resource path.
type TransactionKind int

const (
	KindPayment TransactionKind = iota
	KindPreAuth
	KindRegisterCard
)

type transactionKindInfo struct {
	name string
	path string
}

var transactionKinds = map[TransactionKind]transactionKindInfo{
	KindPayment:      {"payment", "transactions/payments"},
	KindPreAuth:      {"preauth", "transactions/preauths"},
	KindRegisterCard: {"registercard", "transactions/registercard"},
}

// Path returns the resource path transactions of this kind are posted to.
func (k TransactionKind) Path() string { return transactionKinds[k].path }

// String returns the kind's short name, e.g. "payment".
func (k TransactionKind) String() string { return transactionKinds[k].name }

// RequiresAmount reports whether transactions of this kind must carry an amount.
func (k TransactionKind) RequiresAmount() bool { return k != KindRegisterCard }

const validateSuffix = "/validate"

// TransactionRequest accumulates a new payment, pre-auth or register-card
// request. Setters return the same request for chaining and are not safe for
// concurrent use; the wire body is built once, when the request is submitted.
type TransactionRequest struct {
	session Session
	logger  *slog.Logger

	kind      TransactionKind
	judoID    string
	amount    *Amount
	reference *models.Reference

	card         *models.Card
	paymentToken *models.PaymentToken
	pkPayment    *models.PKPayment

	deviceSignal            map[string]any
	mobileNumber            string
	emailAddress            string
	initialRecurringPayment bool

	// submittedReference is the payment reference of the last accepted
	// submission; submitted tells it apart from an empty reference.
	submittedReference string
	submitted          bool
}

// NewTransaction validates judoID and returns a request of the given kind.
// amount may be nil for KindRegisterCard. A nil reference is sent as-is and
// rejected by the backend with field errors.
func NewTransaction(session Session, kind TransactionKind, judoID string, amount *Amount, reference *models.Reference) (*TransactionRequest, error) {
	if _, ok := transactionKinds[kind]; !ok {
		return nil, NewJudoError(CodeParamError)
	}
	id, err := ValidateJudoID(judoID)
	if err != nil {
		return nil, err
	}
	return &TransactionRequest{
		session:   session,
		logger:    slog.Default(),
		kind:      kind,
		judoID:    id,
		amount:    amount,
		reference: reference,
	}, nil
}

// Kind returns the kind the request was created with.
func (t *TransactionRequest) Kind() TransactionKind { return t.kind }

// JudoID returns the validated merchant identifier, digits only.
func (t *TransactionRequest) JudoID() string { return t.judoID }

// Card sets the card to charge.
func (t *TransactionRequest) Card(card models.Card) *TransactionRequest {
	t.card = &card
	return t
}

// PaymentToken sets a previously registered card to charge.
func (t *TransactionRequest) PaymentToken(token models.PaymentToken) *TransactionRequest {
	t.paymentToken = &token
	return t
}

// PKPayment sets an Apple Pay payment to charge.
func (t *TransactionRequest) PKPayment(payment models.PKPayment) *TransactionRequest {
	t.pkPayment = &payment
	return t
}

// Amount replaces the amount.
func (t *TransactionRequest) Amount(amount Amount) *TransactionRequest {
	t.amount = &amount
	return t
}

// Reference replaces the consumer and payment reference.
func (t *TransactionRequest) Reference(reference *models.Reference) *TransactionRequest {
	t.reference = reference
	return t
}

// DeviceSignal attaches the fraud-prevention payload collected on the device.
func (t *TransactionRequest) DeviceSignal(signal map[string]any) *TransactionRequest {
	t.deviceSignal = signal
	return t
}

// MobileNumber sets the consumer's mobile number for fraud screening.
func (t *TransactionRequest) MobileNumber(number string) *TransactionRequest {
	t.mobileNumber = number
	return t
}

// EmailAddress sets the consumer's email address for fraud screening.
func (t *TransactionRequest) EmailAddress(email string) *TransactionRequest {
	t.emailAddress = email
	return t
}

// InitialRecurringPayment flags the first payment of a recurring series.
func (t *TransactionRequest) InitialRecurringPayment(initial bool) *TransactionRequest {
	t.initialRecurringPayment = initial
	return t
}

// Complete validates the request and posts it. Validation failures are
// returned and done is not called; otherwise done receives the receipt or
// the backend error. Submitting again with an unchanged payment reference
// fails with CodeDuplicateTransaction.
func (t *TransactionRequest) Complete(ctx context.Context, done Completion) error {
	if err := t.validatePaymentMethod(); err != nil {
		return err
	}
	if t.amount == nil && t.kind.RequiresAmount() {
		return NewJudoError(CodeAmountMissing)
	}
	if t.amount != nil && !t.amount.Currency().IsSupported() {
		return NewJudoError(CodeCurrencyNotSupported)
	}
	if t.card != nil {
		if _, err := ValidateCardNumber(t.card.Number); err != nil {
			return err
		}
	}

	params, err := t.parameters()
	if err != nil {
		return err
	}

	ref := t.paymentReference()
	if t.submitted && ref == t.submittedReference {
		return NewJudoError(CodeDuplicateTransaction)
	}
	t.submittedReference = ref
	t.submitted = true

	t.logSubmit("submitting transaction", t.kind.Path())
	t.session.POST(ctx, t.kind.Path(), params, done)
	return nil
}

// Validate asks the backend to check a payment without moving money. Only
// the payment method is checked locally.
func (t *TransactionRequest) Validate(ctx context.Context, done Completion) error {
	if t.kind != KindPayment {
		return NewJudoError(CodeParamError)
	}
	if err := t.validatePaymentMethod(); err != nil {
		return err
	}
	params, err := t.parameters()
	if err != nil {
		return err
	}
	path := t.kind.Path() + validateSuffix
	t.logSubmit("validating transaction", path)
	t.session.POST(ctx, path, params, done)
	return nil
}

// ThreeDSecure finalises a 3-D Secure challenge for receiptID with the fields
// posted back by the issuer (see ParseACSForm). The rest of the request is
// not validated again.
func (t *TransactionRequest) ThreeDSecure(ctx context.Context, payload map[string]string, receiptID string, done Completion) error {
	if receiptID == "" {
		return NewJudoError(CodeParamError)
	}
	params, err := threeDSParameters(payload, receiptID)
	if err != nil {
		return err
	}
	t.session.PUT(ctx, receiptPath+"/"+receiptID, params, done)
	return nil
}

// List fetches earlier transactions of this kind. It does not change the request.
func (t *TransactionRequest) List(ctx context.Context, pagination *models.Pagination, done Completion) error {
	path, err := withPagination(t.kind.Path(), pagination)
	if err != nil {
		return err
	}
	t.session.GET(ctx, path, done)
	return nil
}

func (t *TransactionRequest) validatePaymentMethod() error {
	set := 0
	for _, present := range []bool{t.card != nil, t.paymentToken != nil, t.pkPayment != nil} {
		if present {
			set++
		}
	}
	switch {
	case set > 1:
		return NewJudoError(CodeCardAndToken)
	case set == 0:
		return NewJudoError(CodeCardOrTokenMissing)
	}
	return nil
}

func (t *TransactionRequest) paymentReference() string {
	if t.reference == nil {
		return ""
	}
	return t.reference.PaymentReference
}

// parameters builds the wire body from the typed fields.
func (t *TransactionRequest) parameters() (Parameters, error) {
	p := Parameters{"judoId": t.judoID}

	if ref := t.reference; ref != nil {
		p["yourConsumerReference"] = ref.ConsumerReference
		p["yourPaymentReference"] = ref.PaymentReference
		if len(ref.MetaData) > 0 {
			p["yourPaymentMetaData"] = ref.MetaData
		}
	}

	if t.amount != nil {
		p["amount"] = t.amount.Number()
		p["currency"] = string(t.amount.Currency())
	}

	if c := t.card; c != nil {
		p["cardNumber"] = normalizePAN(c.Number)
		p["expiryDate"] = c.ExpiryDate
		if c.CV2 != "" {
			p["cv2"] = c.CV2
		}
		if c.Address != nil {
			p["cardAddress"] = c.Address
		}
		if c.StartDate != "" {
			p["startDate"] = c.StartDate
		}
		if c.IssueNumber != "" {
			p["issueNumber"] = c.IssueNumber
		}
	}

	if tok := t.paymentToken; tok != nil {
		p["consumerToken"] = tok.ConsumerToken
		p["cardToken"] = tok.CardToken
		if tok.CV2 != "" {
			p["cv2"] = tok.CV2
		}
	}

	if pk := t.pkPayment; pk != nil {
		token, err := pk.Token()
		if err != nil {
			return nil, newLocalError(CodeParamError, err)
		}
		p["pkPayment"] = token
	}

	if len(t.deviceSignal) > 0 {
		p["clientDetails"] = t.deviceSignal
	}
	if t.mobileNumber != "" {
		p["mobileNumber"] = t.mobileNumber
	}
	if t.emailAddress != "" {
		p["emailAddress"] = t.emailAddress
	}
	if t.initialRecurringPayment {
		p["InitialRecurringPayment"] = true
	}
	return p, nil
}

func (t *TransactionRequest) logSubmit(msg, path string) {
	attrs := []any{
		slog.String("kind", t.kind.String()),
		slog.String("path", path),
		slog.String("judo_id", t.judoID),
	}
	if t.card != nil {
		attrs = append(attrs,
			slog.String("card", MaskPAN(t.card.Number)),
			slog.String("network", string(DetectCardNetwork(t.card.Number))),
		)
	}
	t.logger.Debug(msg, attrs...)
}
