package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/arnobt78/Food-Recipe-Guide--React-FullStack/internal/cache"
)

// quotaMarker appears in the upstream's error body when the daily points
// allowance is used up. HTTP 402 is the authoritative signal; the marker is
// only consulted for other non-2xx responses.
const quotaMarker = "points limit"

const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL  string
	CacheTTL time.Duration
	// Timeout bounds each individual upstream request.
	Timeout time.Duration
	// Coalesce shares one in-flight upstream call between concurrent
	// identical cache misses.
	Coalesce   bool
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client fetches JSON from the upstream recipe API, checking the response
// cache first and rotating credentials when one runs out of quota.
type Client struct {
	baseURL    string
	httpClient *http.Client
	keys       *KeyRotator
	cache      cache.Cache
	ttl        time.Duration
	timeout    time.Duration
	group      *singleflight.Group
	logger     *zap.Logger
}

// NewClient creates an upstream client.
func NewClient(keys *KeyRotator, c cache.Cache, opts Options) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		keys:       keys,
		cache:      c,
		ttl:        opts.CacheTTL,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{}
	}
	if client.timeout <= 0 {
		client.timeout = 8 * time.Second
	}
	if client.logger == nil {
		client.logger = zap.NewNop()
	}
	if opts.Coalesce {
		client.group = &singleflight.Group{}
	}
	return client
}

// Keys exposes the rotator for diagnostics.
func (c *Client) Keys() *KeyRotator {
	return c.keys
}

// Fetch returns the JSON body for endpoint with params, from cache when possible.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	key := CacheKey(endpoint, params)

	data, err := c.cache.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		// A broken cache must not take the API down with it.
		c.logger.Warn("response cache read failed", zap.String("key", key), zap.Error(err))
	}

	if c.group == nil {
		return c.fetchAndStore(ctx, key, endpoint, params)
	}

	// The shared call outlives any single caller; do still bounds it with the
	// per-request timeout.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetchAndStore(shared, key, endpoint, params)
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.logger.Debug("coalesced upstream request", zap.String("key", key))
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, &Error{Kind: KindTransient, Endpoint: endpoint, Err: ctx.Err()}
	}
}

func (c *Client) fetchAndStore(ctx context.Context, key, endpoint string, params url.Values) (json.RawMessage, error) {
	cred, err := c.keys.SelectCredential()
	if err != nil {
		return nil, &Error{Kind: KindQuotaExceeded, Endpoint: endpoint, Err: err}
	}

	body, err := c.do(ctx, cred, endpoint, params)
	if KindOf(err) == KindQuotaExceeded {
		c.keys.MarkExhausted(cred)

		// One retry with the next key; a second quota failure is final.
		next, selErr := c.keys.SelectCredential()
		if selErr != nil {
			return nil, &Error{Kind: KindQuotaExceeded, Endpoint: endpoint, StatusCode: statusOf(err), Err: selErr}
		}
		cred = next
		body, err = c.do(ctx, cred, endpoint, params)
		if KindOf(err) == KindQuotaExceeded {
			c.keys.MarkExhausted(cred)
		}
	}
	if err != nil {
		return nil, err
	}

	c.keys.MarkOK(cred)
	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("response cache write failed", zap.String("key", key), zap.Error(err))
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, cred Credential, endpoint string, params url.Values) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := cloneValues(params)
	q.Set(apiKeyParam, cred.Key)
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/") + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &Error{Kind: KindFatal, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindTransient, Endpoint: endpoint, Err: redact(err, cred.Key)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{Kind: KindTransient, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: redact(err, cred.Key)}
	}

	c.logger.Debug("upstream request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Int("key_index", cred.Index),
		zap.Duration("elapsed", time.Since(start)))

	return classify(endpoint, resp.StatusCode, body)
}

func classify(endpoint string, status int, body []byte) (json.RawMessage, error) {
	switch {
	case status == http.StatusPaymentRequired:
		return nil, &Error{Kind: KindQuotaExceeded, Endpoint: endpoint, StatusCode: status, Body: string(body)}
	case status >= 200 && status < 300:
		if !json.Valid(body) {
			return nil, &Error{Kind: KindFatal, Endpoint: endpoint, StatusCode: status, Err: errors.New("response is not valid JSON")}
		}
		return json.RawMessage(body), nil
	case bytes.Contains(bytes.ToLower(body), []byte(quotaMarker)):
		return nil, &Error{Kind: KindQuotaExceeded, Endpoint: endpoint, StatusCode: status, Body: string(body)}
	default:
		return nil, &Error{Kind: KindFatal, Endpoint: endpoint, StatusCode: status, Body: string(body)}
	}
}

func statusOf(err error) int {
	var uerr *Error
	if errors.As(err, &uerr) {
		return uerr.StatusCode
	}
	return 0
}

// redact strips the credential from transport errors, which embed the URL.
// The original error stays reachable through errors.Is and errors.As.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, maskKey(key)), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }
