package soa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/tcerr"
)

const (
	// DefaultTimeout bounds each backend call unless configured otherwise.
	DefaultTimeout = 60 * time.Second

	// maxErrorBody caps how much response text is kept as error context.
	maxErrorBody = 2048

	instrumentationName = "github.com/srgio-es/teamcenter-mcp-server-sub000/pkg/soa"
)

// DefaultSessionHeaders is the priority order in which response headers are
// checked for a session token. The exact set is backend-version dependent,
// so it is configurable; this default covers the versions seen in the field.
var DefaultSessionHeaders = []string{
	"Authorization",
	"X-Siemens-Session-ID",
	"X-Tc-Session",
}

// sessionCookieNames are the cookie names recognized as session carriers.
var sessionCookieNames = map[string]bool{
	"JSESSIONID":  true,
	"TcSessionID": true,
}

// Config configures the SOA client.
type Config struct {
	// Endpoint is the backend base URL; calls go to
	// <Endpoint>/<service>/<operation>.
	Endpoint string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration

	// SessionHeaders overrides the response-header priority order used to
	// discover session tokens. Nil means DefaultSessionHeaders.
	SessionHeaders []string
}

// Client performs SOA calls over HTTP, attaching and harvesting session
// state on the way through.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cookies    *CookieStore

	tracer       trace.Tracer
	callDuration metric.Float64Histogram
}

// NewClient creates a client that persists discovered session cookies into
// cookies.
func NewClient(cfg Config, cookies *CookieStore) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SessionHeaders == nil {
		cfg.SessionHeaders = DefaultSessionHeaders
	}
	if cookies == nil {
		cookies = NewCookieStore()
	}

	callDuration, _ := otel.Meter(instrumentationName).Float64Histogram(
		"teamcenter.soa.call.duration",
		metric.WithDescription("Duration of Teamcenter SOA calls in seconds"),
		metric.WithUnit("s"),
	)

	return &Client{
		cfg:          cfg,
		httpClient:   &http.Client{},
		cookies:      cookies,
		tracer:       otel.Tracer(instrumentationName),
		callDuration: callDuration,
	}
}

// Cookies exposes the cookie-level session store.
func (c *Client) Cookies() *CookieStore {
	return c.cookies
}

// Call executes one SOA operation: builds the envelope, POSTs it with the
// session credential attached, classifies failures, harvests session state
// from the response, and normalizes the payload.
func (c *Client) Call(ctx context.Context, op Operation, params map[string]any, sessionToken string) (*CallResult, error) {
	ctx, span := c.tracer.Start(ctx, "soa.call", trace.WithAttributes(
		attribute.String("teamcenter.service", op.Service),
		attribute.String("teamcenter.operation", op.Name),
	))
	defer span.End()

	start := time.Now()
	result, err := c.call(ctx, op, params, sessionToken)
	c.callDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("teamcenter.service", op.Service),
		attribute.String("teamcenter.operation", op.Name),
		attribute.Bool("error", err != nil),
	))
	if err != nil {
		te := tcerr.From(err)
		span.SetStatus(codes.Error, string(te.Code))
		return nil, te
	}
	return result, nil
}

func (c *Client) call(ctx context.Context, op Operation, params map[string]any, sessionToken string) (*CallResult, error) {
	env, err := BuildEnvelope(op, params)
	if err != nil {
		return nil, err
	}
	slog.Debug("calling SOA operation",
		"service", op.Service, "operation", op.Name, "body", env.Redacted())

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, tcerr.Wrap(tcerr.CodeDataValidation, "encoding request envelope", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	endpoint := strings.TrimRight(c.cfg.Endpoint, "/") + "/" + op.Service + "/" + op.Name
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, tcerr.Wrap(tcerr.CodeDataValidation, "building request", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if sessionToken != "" {
		req.Header.Set("Authorization", sessionToken)
	}
	if name, value, ok := c.cookies.Get(); ok {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// tcerr.From distinguishes deadline expiry from network faults.
		return nil, tcerr.From(err)
	}
	defer func() { _ = resp.Body.Close() }()

	bodyText, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tcerr.Wrap(tcerr.CodeNetwork, "reading response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, bodyText)
	}

	token := c.extractSession(resp)

	var parsed any
	if err := json.Unmarshal(bodyText, &parsed); err != nil {
		return nil, tcerr.Wrap(tcerr.CodeDataParsing, "decoding response body", err).
			WithContext("operation", op.String())
	}

	return &CallResult{
		Data:      Normalize(op, parsed),
		SessionID: token,
	}, nil
}

// classifyStatus maps a non-success HTTP status onto the error taxonomy,
// keeping the response text as diagnostic context.
func classifyStatus(status int, body []byte) *tcerr.Error {
	text := string(body)
	if len(text) > maxErrorBody {
		// Cut on a rune boundary so the kept context stays valid UTF-8.
		text = strings.ToValidUTF8(text[:maxErrorBody], "")
	}

	var e *tcerr.Error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e = tcerr.New(tcerr.CodeAuthSession, "backend rejected the session")
	case status == http.StatusNotFound:
		e = tcerr.New(tcerr.CodeAPIResponse, "backend endpoint not found")
	case status >= 500:
		e = tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("backend server error (%d)", status))
	default:
		e = tcerr.New(tcerr.CodeAPIResponse, fmt.Sprintf("unexpected backend status %d", status))
	}
	return e.WithContext("status", status).WithContext("body", text)
}

// extractSession harvests session state from the response: first a token
// from the configured header priority list, then any recognized session
// cookie, which is persisted into the store before returning.
func (c *Client) extractSession(resp *http.Response) string {
	var token string
	for _, header := range c.cfg.SessionHeaders {
		if v := resp.Header.Get(header); v != "" {
			token = v
			break
		}
	}

	for _, cookie := range resp.Cookies() {
		if sessionCookieNames[cookie.Name] && cookie.Value != "" {
			c.cookies.Set(cookie.Name, cookie.Value)
			break
		}
	}
	return token
}
