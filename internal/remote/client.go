// Package remote issues REST calls against one backend resource.
//
// Each call maps to exactly one HTTP request. There are no retries, and no
// timeout unless the Client was built with one; cancel the context to abandon
// a request.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unan-salud/salud-al-paso/internal/monitoring"
)

const maxBodyBytes = 1 << 20

type Client struct {
	origin string
	http   *http.Client
}

// NewClient targets origin (scheme://host[:port]). A zero timeout means none.
func NewClient(origin string, timeout time.Duration) *Client {
	return NewClientWithHTTP(origin, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(origin string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		http:   hc,
	}
}

func (c *Client) Origin() string { return c.origin }

// Collection is the client for /api/<resource>. T is the entity decoded from
// responses, D the draft sent as request body.
type Collection[T any, D any] struct {
	client   *Client
	resource string
}

func NewCollection[T any, D any](c *Client, resource string) *Collection[T, D] {
	return &Collection[T, D]{client: c, resource: strings.Trim(resource, "/")}
}

func (c *Collection[T, D]) Resource() string { return c.resource }

// List fetches the whole collection in server order.
func (c *Collection[T, D]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := c.do(ctx, http.MethodGet, c.path(""), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Create posts draft and returns the created entity, which must carry an id.
func (c *Collection[T, D]) Create(ctx context.Context, draft D) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodPost, c.path(""), draft, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := requireKey(out, ""); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Update replaces the editable fields of id with draft. The response must
// carry the same id.
func (c *Collection[T, D]) Update(ctx context.Context, id string, draft D) (T, error) {
	var out T
	if id == "" {
		return out, errors.New("update: empty id")
	}
	if err := c.do(ctx, http.MethodPut, c.path(id), draft, &out); err != nil {
		var zero T
		return zero, err
	}
	if err := requireKey(out, id); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Collection[T, D]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("delete: empty id")
	}
	return c.do(ctx, http.MethodDelete, c.path(id), nil, nil)
}

// Send posts draft and ignores the response body.
func (c *Collection[T, D]) Send(ctx context.Context, draft D) error {
	return c.do(ctx, http.MethodPost, c.path(""), draft, nil)
}

func (c *Collection[T, D]) path(id string) string {
	p := c.client.origin + "/api/" + c.resource
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (c *Collection[T, D]) do(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.client.http.Do(req)
	latency := time.Since(start)
	monitoring.ClientRequestDuration.WithLabelValues(c.resource, method).Observe(latency.Seconds())

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.record(method, monitoring.OutcomeCanceled)
			return ctxErr
		}
		nerr := &NetworkError{Method: method, URL: target, Err: err}
		c.fail(method, monitoring.OutcomeNetwork, requestID, latency, nerr)
		return nerr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.record(method, monitoring.OutcomeCanceled)
			return ctxErr
		}
		nerr := &NetworkError{Method: method, URL: target, Err: fmt.Errorf("read body: %w", err)}
		c.fail(method, monitoring.OutcomeNetwork, requestID, latency, nerr)
		return nerr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &StatusError{Method: method, URL: target, Code: resp.StatusCode, Detail: parseDetail(data)}
		c.fail(method, monitoring.OutcomeStatus, requestID, latency, serr)
		return serr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			derr := fmt.Errorf("%w: %s %s: %v", ErrDecode, method, target, err)
			c.fail(method, monitoring.OutcomeDecode, requestID, latency, derr)
			return derr
		}
	}

	c.record(method, monitoring.OutcomeOK)
	return nil
}

func (c *Collection[T, D]) record(method, outcome string) {
	monitoring.ClientRequestsTotal.WithLabelValues(c.resource, method, outcome).Inc()
}

func (c *Collection[T, D]) fail(method, outcome, requestID string, latency time.Duration, err error) {
	c.record(method, outcome)
	log.Printf("remote request failed resource=%s method=%s outcome=%s duration=%s request_id=%s err=%v",
		c.resource, method, outcome, latency, requestID, err)
	monitoring.CaptureError(err, map[string]interface{}{
		"resource":   c.resource,
		"method":     method,
		"outcome":    outcome,
		"request_id": requestID,
	})
}

// requireKey checks the id of a returned entity: present, and equal to want
// when want is set.
func requireKey(v any, want string) error {
	k, ok := v.(interface{ Key() string })
	if !ok {
		return nil
	}
	switch got := k.Key(); {
	case got == "":
		return fmt.Errorf("%w: returned entity has no id", ErrDecode)
	case want != "" && got != want:
		return fmt.Errorf("%w: returned entity has id %q, want %q", ErrDecode, got, want)
	}
	return nil
}
