package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/r3e-network/neokit/pkg/neorpc"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
	defaultCacheSize      = 128
)

// Client represents the middleman for executing JSON RPC calls
// to remote NEO RPC nodes. Client is thread-safe and can be used from
// multiple goroutines.
type Client struct {
	cli      *http.Client
	endpoint *url.URL
	opts     Options
	log      *zap.Logger
	requestF func(context.Context, *neorpc.Request) (*neorpc.Response, error)

	// cache stores node-related data that doesn't change often: version and
	// token metadata. It's only invalidated explicitly via InvalidateCache.
	cache *lru.Cache

	latestReqID *atomic.Uint64
	// getNextRequestID returns an ID to be used for the subsequent request creation.
	// It is defined on Client, so that our testing code can override this method
	// for the sake of more predictable request IDs generation behavior.
	getNextRequestID func() uint64
}

// Options defines options for the RPC client.
// All values are optional. If any duration is not specified,
// a default of 4 seconds will be used.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	// Limit total number of connections per host. No limit by default.
	MaxConnsPerHost int
	// CacheSize is the number of entries kept in the metadata cache, 128 by
	// default.
	CacheSize int
	// Logger is used to log failing requests, no logging is done by default.
	Logger *zap.Logger
}

// New returns a new Client ready to use.
func New(endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: opts.DialTimeout,
			}).DialContext,
			MaxConnsPerHost: opts.MaxConnsPerHost,
		},
		Timeout: opts.RequestTimeout,
	}

	cl := &Client{
		cli:         httpClient,
		endpoint:    u,
		opts:        opts,
		log:         opts.Logger.With(zap.String("endpoint", u.Redacted())),
		latestReqID: atomic.NewUint64(0),
	}
	cl.cache, _ = lru.New(opts.CacheSize) // Never errors for positive size.
	cl.getNextRequestID = cl.getRequestID
	cl.requestF = cl.makeHTTPRequest
	return cl, nil
}

func (c *Client) getRequestID() uint64 {
	return c.latestReqID.Inc()
}

// Endpoint returns the URL of the node the client is bound to.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// InvalidateCache drops all cached node data (version, token metadata), it's
// refetched on the next request.
func (c *Client) InvalidateCache() {
	c.cache.Purge()
}

// Close closes unused underlying networks connections.
func (c *Client) Close() {
	c.cli.CloseIdleConnections()
}

func (c *Client) performRequest(ctx context.Context, method string, p []any, v any) error {
	if p == nil {
		p = []any{} // neo-project/neo-modules#742
	}
	var r = neorpc.Request{
		JSONRPC: neorpc.JSONRPCVersion,
		Method:  method,
		Params:  p,
		ID:      c.getNextRequestID(),
	}

	start := time.Now()
	raw, err := c.requestF(ctx, &r)
	if raw != nil && raw.Error != nil {
		err = raw.Error
	} else if err == nil && (raw == nil || raw.Result == nil) {
		err = errors.New("no result returned")
	}
	if err == nil {
		err = json.Unmarshal(raw.Result, v)
	}
	observeRequest(method, err, time.Since(start))
	if err != nil {
		c.log.Debug("RPC request failed",
			zap.String("method", method),
			zap.Uint64("id", r.ID),
			zap.Error(err))
		return err
	}
	return nil
}

func (c *Client) makeHTTPRequest(ctx context.Context, r *neorpc.Request) (*neorpc.Response, error) {
	var (
		buf = new(bytes.Buffer)
		raw = new(neorpc.Response)
	)

	if err := json.NewEncoder(buf).Encode(r); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The node might send us a proper JSON anyway, so look there first and if
	// it parses, it has more relevant data than HTTP error code.
	err = json.NewDecoder(resp.Body).Decode(raw)
	if err != nil {
		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("HTTP %d/%s", resp.StatusCode, http.StatusText(resp.StatusCode))
		} else {
			err = fmt.Errorf("JSON decoding: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping attempts to create a connection to the endpoint
// and returns an error if there is any.
func (c *Client) Ping(ctx context.Context) error {
	conn, err := (&net.Dialer{Timeout: c.opts.DialTimeout}).DialContext(ctx, "tcp", c.endpoint.Host)
	if err != nil {
		return err
	}
	_ = conn.Close()
	return nil
}
