package judokit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/hugochinchilla79/judokit_sdk/models"
)

// Parameters is a JSON request body keyed by the backend's field names.
type Parameters map[string]any

// Completion receives the outcome of a network call. Exactly one of resp and
// err is non-nil, and it is called exactly once.
type Completion func(resp *models.Response, err error)

// Session executes calls against the Judo API. Paths are relative to the
// session's base URL. Implementations must be safe for concurrent use because
// a single session is shared by every builder of a Client.
type Session interface {
	GET(ctx context.Context, path string, done Completion)
	POST(ctx context.Context, path string, params Parameters, done Completion)
	PUT(ctx context.Context, path string, params Parameters, done Completion)

	// ProgressionParameters assembles the body of a collection, void or refund.
	ProgressionParameters(receiptID string, amount Amount, paymentReference string, deviceSignal map[string]any) Parameters
}

// SDKVersion is reported in the User-Agent header.
const SDKVersion = "1.0.0"

// HTTPSession is the Session used by Client. Each call runs on its own
// goroutine and the Completion is invoked on that goroutine, never on the
// caller's.
type HTTPSession struct {
	baseURL    string
	token      string
	secret     string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSession returns a session for baseURL authenticating with token and
// secret. A nil httpClient or logger selects defaults.
func NewHTTPSession(baseURL, token, secret, apiVersion string, httpClient *http.Client, logger *slog.Logger) *HTTPSession {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &HTTPSession{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		token:      token,
		secret:     secret,
		apiVersion: apiVersion,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GET fetches path and passes the decoded response to done.
func (s *HTTPSession) GET(ctx context.Context, path string, done Completion) {
	go s.run(ctx, http.MethodGet, path, nil, done)
}

// POST sends params as JSON to path.
func (s *HTTPSession) POST(ctx context.Context, path string, params Parameters, done Completion) {
	go s.run(ctx, http.MethodPost, path, params, done)
}

// PUT sends params as JSON to path.
func (s *HTTPSession) PUT(ctx context.Context, path string, params Parameters, done Completion) {
	go s.run(ctx, http.MethodPut, path, params, done)
}

// ProgressionParameters returns the body shared by collections, voids and refunds.
func (s *HTTPSession) ProgressionParameters(receiptID string, amount Amount, paymentReference string, deviceSignal map[string]any) Parameters {
	params := Parameters{
		"receiptId":            receiptID,
		"amount":               amount.Number(),
		"currency":             string(amount.Currency()),
		"yourPaymentReference": paymentReference,
	}
	if len(deviceSignal) > 0 {
		params["clientDetails"] = deviceSignal
	}
	return params
}

func (s *HTTPSession) run(ctx context.Context, method, path string, params Parameters, done Completion) {
	resp, err := s.do(ctx, method, path, params)
	if err != nil {
		done(nil, err)
		return
	}
	done(resp, nil)
}

// do performs one request. Every failure is returned as a *JudoError.
func (s *HTTPSession) do(ctx context.Context, method, path string, params Parameters) (*models.Response, error) {
	start := time.Now()
	log := s.logger.With(slog.String("method", method), slog.String("path", path))

	var body io.Reader
	if params != nil {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, newLocalError(CodeParamError, fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, s.baseURL+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, newLocalError(CodeRequestFailed, fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.SetBasicAuth(s.token, s.secret)
	httpReq.Header.Set("Api-Version", s.apiVersion)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", fmt.Sprintf("judokit-go/%s (%s; %s)", SDKVersion, runtime.Version(), runtime.GOOS))
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		log.Warn("judo api request failed", slog.Any("err", err))
		return nil, newLocalError(CodeRequestFailed, fmt.Errorf("send HTTP request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newLocalError(CodeRequestFailed, fmt.Errorf("read response: %w", err))
	}

	log = log.With(slog.Int("status", resp.StatusCode), slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode/100 != 2 {
		je := decodeError(resp.StatusCode, respBody)
		log.Warn("judo api error", slog.String("code", je.Code.String()), slog.String("category", je.Category.String()))
		return nil, je
	}

	out, err := decodeResponse(resp.StatusCode, respBody)
	if err != nil {
		if je, ok := AsJudoError(err); ok {
			log.Warn("judo api transaction not successful", slog.String("code", je.Code.String()))
		}
		return nil, err
	}
	log.Debug("judo api request completed", slog.Int("items", len(out.Items)))
	return out, nil
}
