package judokit

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ProcessKind selects an operation on an existing transaction.
type ProcessKind int

const (
	KindCollection ProcessKind = iota
	KindVoid
	KindRefund
)

var processPaths = map[ProcessKind]string{
	KindCollection: "transactions/collections",
	KindVoid:       "transactions/voids",
	KindRefund:     "transactions/refunds",
}

// Path returns the resource path the operation is posted to.
func (k ProcessKind) Path() string { return processPaths[k] }

// String returns the last path segment, e.g. "refunds".
func (k ProcessKind) String() string {
	return strings.TrimPrefix(processPaths[k], "transactions/")
}

// paymentReferenceLen is the length generated process references are cut to.
const paymentReferenceLen = 40

// TransactionProcess collects, voids or refunds the transaction identified by
// a receipt id. Unlike TransactionRequest it does not guard against repeated
// submission.
type TransactionProcess struct {
	session Session
	logger  *slog.Logger

	kind             ProcessKind
	receiptID        string
	amount           Amount
	paymentReference string
	deviceSignal     map[string]any
}

// NewTransactionProcess validates receiptID and derives the payment reference
// from deviceID and the current time. An empty deviceID fails with
// CodeDeviceIdentifierUnavailable.
func NewTransactionProcess(session Session, kind ProcessKind, receiptID string, amount Amount, deviceID string) (*TransactionProcess, error) {
	if _, ok := processPaths[kind]; !ok {
		return nil, NewJudoError(CodeParamError)
	}
	if err := ValidateReceiptID(receiptID); err != nil {
		return nil, err
	}
	if deviceID == "" {
		return nil, NewJudoError(CodeDeviceIdentifierUnavailable)
	}
	return &TransactionProcess{
		session:          session,
		logger:           slog.Default(),
		kind:             kind,
		receiptID:        receiptID,
		amount:           amount,
		paymentReference: processReference(deviceID, time.Now()),
	}, nil
}

// processReference joins the device id and a unix nanosecond timestamp with
// punctuation dropped. The device part is cut on rune boundaries so the
// result fits in paymentReferenceLen characters with the whole timestamp kept.
func processReference(deviceID string, now time.Time) string {
	stamp := strconv.FormatInt(now.UnixNano(), 10)
	device := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, deviceID)
	if runes, room := []rune(device), paymentReferenceLen-len(stamp); len(runes) > room {
		device = string(runes[:room])
	}
	return device + stamp
}

// Kind returns the operation the process was created for.
func (p *TransactionProcess) Kind() ProcessKind { return p.kind }

// ReceiptID returns the receipt of the transaction being processed.
func (p *TransactionProcess) ReceiptID() string { return p.receiptID }

// PaymentReference returns the generated reference sent with the operation.
func (p *TransactionProcess) PaymentReference() string { return p.paymentReference }

// DeviceSignal attaches the fraud-prevention payload collected on the device.
func (p *TransactionProcess) DeviceSignal(signal map[string]any) *TransactionProcess {
	p.deviceSignal = signal
	return p
}

// Complete posts the operation. done receives the new receipt or the backend
// error; local validation failures are returned instead.
func (p *TransactionProcess) Complete(ctx context.Context, done Completion) error {
	if p.amount.IsZero() {
		return NewJudoError(CodeAmountMissing)
	}
	if !p.amount.Currency().IsSupported() {
		return NewJudoError(CodeCurrencyNotSupported)
	}
	params := p.session.ProgressionParameters(p.receiptID, p.amount, p.paymentReference, p.deviceSignal)
	p.logger.Debug("submitting transaction process",
		slog.String("kind", p.kind.String()),
		slog.String("receipt_id", p.receiptID),
	)
	p.session.POST(ctx, p.kind.Path(), params, done)
	return nil
}
