// Package emby wraps the Emby server HTTP API, exposing the catalog,
// playlist and player capabilities used by the tool layer. Authentication
// uses Emby's username/password flow; the resulting access token is applied
// to every subsequent request. Errors from the server are returned to
// callers unchanged so they can be reported upward; the client performs no
// retries of its own.
//
// All exported methods accept a context for request cancellation. Network
// calls are performed using the embedded http.Client allowing tests to
// substitute an httptest server.
package emby

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"embymcp/pkg/media"
	"embymcp/pkg/metrics"
)

// Client talks to a single Emby server. Authenticate (or Resume) must be
// called before any other operation.
type Client struct {
	BaseURL       string
	ClientName    string
	ClientVersion string
	DeviceName    string
	DeviceID      string
	HTTPClient    *http.Client
	Log           *logrus.Logger

	token  string
	userID string
}

// Interface checks keep the tool layer honest about what it depends on.
var (
	_ media.Catalog         = (*Client)(nil)
	_ media.PlaylistService = (*Client)(nil)
	_ media.PlayerService   = (*Client)(nil)
)

// New returns a Client for the given server URL. When verifySSL is false
// the client accepts any server certificate, matching deployments that run
// Emby behind self-signed TLS.
func New(baseURL, clientName, clientVersion, deviceName, deviceID string, verifySSL bool) *Client {
	hc := &http.Client{Timeout: 30 * time.Second}
	if !verifySSL {
		hc.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		ClientName:    clientName,
		ClientVersion: clientVersion,
		DeviceName:    deviceName,
		DeviceID:      deviceID,
		HTTPClient:    hc,
		Log:           logrus.StandardLogger(),
	}
}

// authResponse is the subset of the AuthenticationResult document we use.
type authResponse struct {
	User struct {
		ID   string `json:"Id"`
		Name string `json:"Name"`
	} `json:"User"`
	AccessToken string `json:"AccessToken"`
}

// Authenticate logs in with a username and password and stores the access
// token and user id for subsequent requests.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	body := map[string]string{"Username": username, "Pw": password}
	var res authResponse
	header := fmt.Sprintf(`Emby UserId="", Client=%q, Device=%q, DeviceId=%q, Version=%q`,
		c.ClientName, c.DeviceName, c.DeviceID, c.ClientVersion)
	err := c.doWithHeaders(ctx, http.MethodPost, "/Users/AuthenticateByName", "authenticate",
		nil, body, &res, map[string]string{"X-Emby-Authorization": header})
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if res.AccessToken == "" || res.User.ID == "" {
		return fmt.Errorf("authenticate: server returned no access token")
	}
	c.token = res.AccessToken
	c.userID = res.User.ID
	c.Log.WithFields(logrus.Fields{"user": res.User.Name, "server": c.BaseURL}).Info("logged in to media server")
	return nil
}

// Resume installs a previously obtained access token and user id, skipping
// the password flow. Callers should verify the token still works (for
// example by listing libraries) before relying on it.
func (c *Client) Resume(token, userID string) {
	c.token = token
	c.userID = userID
}

// Token returns the current access token, empty before authentication.
func (c *Client) Token() string { return c.token }

// UserID returns the authenticated user's id, empty before authentication.
func (c *Client) UserID() string { return c.userID }

// Logout revokes the access token on the server.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/Sessions/Logout", "logout", nil, nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.token = ""
	return nil
}

func (c *Client) do(ctx context.Context, method, path, op string, query url.Values, in, out any) error {
	return c.doWithHeaders(ctx, method, path, op, query, in, out, nil)
}

// doWithHeaders performs one API request. op is the logical operation name
// used for metrics so path parameters do not explode label cardinality.
func (c *Client) doWithHeaders(ctx context.Context, method, path, op string, query url.Values, in, out any, headers map[string]string) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("X-Emby-Token", c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
