// Package apiclient は外部REST APIの型付きクライアント。
// キャッシュもリトライもしない。毎回ネットワークに出る。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// RequestError は 2xx 以外のレスポンス。Message はサーバーの message をそのまま持つ。
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	ok := errors.As(err, &re)
	return re, ok
}

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
	tracer  trace.Tracer
}

const defaultTimeout = 15 * time.Second

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout は渡された http.Client を書き換えず、コピーに設定する
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  otel.Tracer("storefront/apiclient"),
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.http == nil:
		c.http = &http.Client{Timeout: defaultTimeout}
		if c.timeout > 0 {
			c.http.Timeout = c.timeout
		}
	case c.timeout > 0:
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

type call struct {
	method  string
	path    string
	token   string
	body    any
	headers map[string]string
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// request は1回のHTTP往復。T はレスポンスJSONの型。
func request[T any](ctx context.Context, c *Client, in call) (T, error) {
	var zero T

	ctx, span := c.tracer.Start(ctx, in.method+" "+in.path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", in.method),
		attribute.String("url.path", in.path),
	)

	var reqBody io.Reader
	if in.body != nil {
		raw, err := json.Marshal(in.body)
		if err != nil {
			return zero, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, c.baseURL+in.path, reqBody)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}
	for k, v := range in.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.log.WarnContext(ctx, "api request failed", "method", in.method, "path", in.path, "err", err)
		return zero, fmt.Errorf("%s %s: %w", in.method, in.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	c.log.DebugContext(ctx, "api request", "method", in.method, "path", in.path, "status", resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Request failed (%d)", resp.StatusCode),
		}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			if eb.Message != "" {
				reqErr.Message = eb.Message
			} else if eb.Error != "" {
				reqErr.Message = eb.Error
			}
		}
		span.SetStatus(codes.Error, reqErr.Message)
		c.log.WarnContext(ctx, "api request rejected", "method", in.method, "path", in.path, "status", resp.StatusCode, "message", reqErr.Message)
		return zero, reqErr
	}

	// 204 と空ボディは成功扱いでゼロ値
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return zero, nil
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return zero, fmt.Errorf("decode %s %s: %w", in.method, in.path, err)
	}
	return out, nil
}

// レスポンスを使わない呼び出し用
type empty struct{}
