// Package dokuwiki is a minimal XML-RPC client for the DokuWiki remote
// API, covering just the methods the publisher needs: version handshake,
// page fetch and page write.
package dokuwiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
	"github.com/mythsandlegends/spawnwiki/pkg/logging"
)

// rpcPath is the remote API endpoint relative to the wiki root.
const rpcPath = "/lib/exe/xmlrpc.php"

// pageNotFoundFault is the fault code DokuWiki returns for a page that
// does not exist yet.
const pageNotFoundFault = 100

// DefaultTimeout bounds each remote call.
const DefaultTimeout = 30 * time.Second

// Config holds the connection settings for a wiki.
type Config struct {
	// URL is the wiki root, e.g. https://wiki.example.org.
	URL string

	// User and Password authenticate the remote API session.
	User     string
	Password string

	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client talks to one DokuWiki instance.
type Client struct {
	endpoint string
	user     string
	password string
	http     *http.Client
}

// New creates a client. The URL and both credentials are required; a
// wiki that allows anonymous writes is not a deployment this tool
// supports.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.NewConfigError("dokuwiki", "wiki URL is required", nil)
	}
	if cfg.User == "" || cfg.Password == "" {
		return nil, &errors.AuthenticationError{
			Endpoint: cfg.URL,
			Message:  "wiki user and password are required",
			Err:      errors.ErrCredentialsRequired,
		}
	}

	base := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(base, rpcPath) {
		base += rpcPath
	}
	if _, err := url.Parse(base); err != nil {
		return nil, errors.NewConfigError("dokuwiki", "invalid wiki URL", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		endpoint: base,
		user:     cfg.User,
		password: cfg.Password,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// call performs one XML-RPC round trip.
func (c *Client) call(ctx context.Context, method string, params ...any) (rpcValue, error) {
	body, err := encodeCall(method, params...)
	if err != nil {
		return rpcValue{}, err
	}

	// DokuWiki accepts credentials as query parameters on the RPC
	// endpoint, which keeps the call body a plain methodCall.
	endpoint := c.endpoint + "?u=" + url.QueryEscape(c.user) + "&p=" + url.QueryEscape(c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return rpcValue{}, fmt.Errorf("%s: %w", method, err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return rpcValue{}, fmt.Errorf("%s: %w: %v", method, errors.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return rpcValue{}, fmt.Errorf("%s: %w: unexpected status %d", method, errors.ErrRemoteUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return rpcValue{}, fmt.Errorf("%s: read response: %w", method, err)
	}
	return decodeResponse(method, data)
}

// Connect verifies the wiki is reachable and the credentials work by
// asking for its version. It must succeed before any page traffic.
func (c *Client) Connect(ctx context.Context) (string, error) {
	v, err := c.call(ctx, "dokuwiki.getVersion")
	if err != nil {
		return "", err
	}
	version := v.Text()
	logging.Ctx(ctx).Debug().Str("version", version).Msg("connected to wiki")
	return version, nil
}

// Page fetches the current text of a page. A page that does not exist
// yet returns ErrNotFound, which callers treat as empty.
func (c *Client) Page(ctx context.Context, name string) (string, error) {
	v, err := c.call(ctx, "wiki.getPage", name)
	if err != nil {
		if remote, ok := errors.AsRemote(err); ok && remote.Code == pageNotFoundFault {
			return "", errors.WrapPage("get", name, errors.ErrNotFound)
		}
		return "", errors.WrapPage("get", name, err)
	}
	return v.Text(), nil
}

// PutPage writes a page with an edit summary. Minor marks the revision
// as a minor change in the wiki history.
func (c *Client) PutPage(ctx context.Context, name, text, summary string, minor bool) error {
	attrs := map[string]any{
		"sum":   summary,
		"minor": minor,
	}
	if _, err := c.call(ctx, "wiki.putPage", name, text, attrs); err != nil {
		return errors.WrapPage("put", name, err)
	}
	return nil
}
