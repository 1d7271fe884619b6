package judokit

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// Client is the entry point of the SDK. It owns the configuration and a
// Session shared by every builder it creates; builders themselves are
// single-use and owned by the caller.
type Client struct {
	cfg      Config
	session  Session
	logger   *slog.Logger
	deviceID string
}

// NewClient creates a client for the Judo API.
// It validates the configuration, loads the optional client certificate and
// prepares an HTTPSession.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	logger := clientLogger(cfg)
	session := NewHTTPSession(cfg.DefaultBaseURL(), cfg.APIToken, cfg.APISecret, cfg.APIVersion, httpClient, logger)
	return newClient(cfg, session, logger), nil
}

// NewClientWithSession creates a client that sends every request through
// session. Credentials in cfg are not required.
func NewClientWithSession(cfg Config, session Session) *Client {
	return newClient(cfg, session, clientLogger(cfg))
}

func newClient(cfg Config, session Session, logger *slog.Logger) *Client {
	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	logger.Debug("judokit client ready",
		slog.String("base_url", cfg.DefaultBaseURL()),
		slog.String("env", string(cfg.Env)),
	)
	return &Client{
		cfg:      cfg,
		session:  session,
		logger:   logger,
		deviceID: deviceID,
	}
}

func clientLogger(cfg Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return newLogger(cfg.LogLevel)
}

// Session returns the session shared by the client's builders.
func (c *Client) Session() Session { return c.session }

// DeviceID returns the identifier seeding process payment references.
func (c *Client) DeviceID() string { return c.deviceID }

// Payment starts a payment of amount to judoID.
func (c *Client) Payment(judoID string, amount Amount, reference *models.Reference) (*TransactionRequest, error) {
	return c.transaction(KindPayment, judoID, &amount, reference)
}

// PreAuth starts a reservation of amount that can later be collected or voided.
func (c *Client) PreAuth(judoID string, amount Amount, reference *models.Reference) (*TransactionRequest, error) {
	return c.transaction(KindPreAuth, judoID, &amount, reference)
}

// RegisterCard starts tokenising a card without charging it.
func (c *Client) RegisterCard(judoID string, reference *models.Reference) (*TransactionRequest, error) {
	return c.transaction(KindRegisterCard, judoID, nil, reference)
}

func (c *Client) transaction(kind TransactionKind, judoID string, amount *Amount, reference *models.Reference) (*TransactionRequest, error) {
	t, err := NewTransaction(c.session, kind, judoID, amount, reference)
	if err != nil {
		return nil, err
	}
	t.logger = c.logger
	return t, nil
}

// Collection captures amount from the pre-auth identified by receiptID.
func (c *Client) Collection(receiptID string, amount Amount) (*TransactionProcess, error) {
	return c.process(KindCollection, receiptID, amount)
}

// Void releases the pre-auth identified by receiptID.
func (c *Client) Void(receiptID string, amount Amount) (*TransactionProcess, error) {
	return c.process(KindVoid, receiptID, amount)
}

// Refund returns amount of the payment identified by receiptID.
func (c *Client) Refund(receiptID string, amount Amount) (*TransactionProcess, error) {
	return c.process(KindRefund, receiptID, amount)
}

func (c *Client) process(kind ProcessKind, receiptID string, amount Amount) (*TransactionProcess, error) {
	p, err := NewTransactionProcess(c.session, kind, receiptID, amount, c.deviceID)
	if err != nil {
		return nil, err
	}
	p.logger = c.logger
	return p, nil
}

// Receipts returns a query for receiptID, or for every transaction when
// receiptID is empty.
func (c *Client) Receipts(receiptID string) (*ReceiptQuery, error) {
	return NewReceiptQuery(c.session, receiptID)
}
