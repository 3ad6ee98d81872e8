package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	auth "github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"

	"a2admin/internal/sentinel"
	id "a2admin/pkg/domain"
	"a2admin/pkg/platform/circuit"
)

// APIError is a non-2xx answer from the admin API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity admin api: status %d: %s", e.Status, e.Message)
}

// GoTrueConfig configures the admin API client.
type GoTrueConfig struct {
	// BaseURL is the project URL; the auth API lives under /auth/v1.
	BaseURL        string
	ServiceRoleKey string
	Timeout        time.Duration
	// Transport carries every admin call; nil uses http.DefaultTransport.
	Transport http.RoundTripper
	// ListPageSize is the page size of the account listing used for email
	// lookups.
	ListPageSize int
	// MaxListPages bounds how far an email lookup pages.
	MaxListPages int
	// Breaker records provider outages; nil uses a default breaker.
	Breaker *circuit.Breaker
}

// GoTrueAdmin implements AccountAdmin with the auth-go admin client.
type GoTrueAdmin struct {
	client    auth.Client
	transport http.RoundTripper
	timeout   time.Duration
	pageSize  int
	maxPages  int
	breaker   *circuit.Breaker
}

func NewGoTrueAdmin(cfg GoTrueConfig) *GoTrueAdmin {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	pageSize := cfg.ListPageSize
	if pageSize <= 0 {
		pageSize = 200
	}
	maxPages := cfg.MaxListPages
	if maxPages <= 0 {
		maxPages = 50
	}
	breaker := cfg.Breaker
	if breaker == nil {
		breaker = circuit.New("identity")
	}
	client := auth.New("", cfg.ServiceRoleKey).
		WithCustomAuthURL(strings.TrimRight(cfg.BaseURL, "/") + "/auth/v1").
		WithToken(cfg.ServiceRoleKey)
	return &GoTrueAdmin{
		client:    client,
		transport: transport,
		timeout:   cfg.Timeout,
		pageSize:  pageSize,
		maxPages:  maxPages,
		breaker:   breaker,
	}
}

// Check reports the provider unhealthy after a run of failed calls.
func (g *GoTrueAdmin) Check(context.Context) error {
	if err := g.breaker.Healthy(); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func toAccount(u types.User) (Account, error) {
	if u.ID == uuid.Nil {
		return Account{}, errors.New("identity admin api returned a user without id")
	}
	role, _ := u.AppMetadata["role"].(string)
	return Account{ID: id.PrincipalID(u.ID), Email: u.Email, Role: role}, nil
}

// ListAccountsByEmail pages through the accounts until one page holds a
// case-insensitive email match or a page comes back empty.
func (g *GoTrueAdmin) ListAccountsByEmail(ctx context.Context, email string) ([]Account, error) {
	for page := 1; page <= g.maxPages; page++ {
		client, c := g.begin(ctx, url.Values{
			"page":     {strconv.Itoa(page)},
			"per_page": {strconv.Itoa(g.pageSize)},
		})
		resp, err := client.AdminListUsers()
		if err := c.done(err); err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		if len(resp.Users) == 0 {
			return nil, nil
		}

		var matches []Account
		for _, u := range resp.Users {
			if !strings.EqualFold(u.Email, email) {
				continue
			}
			acc, err := toAccount(u)
			if err != nil {
				return nil, err
			}
			matches = append(matches, acc)
		}
		if len(matches) > 0 {
			return matches, nil
		}
	}
	return nil, nil
}

func (g *GoTrueAdmin) CreateAccount(ctx context.Context, req CreateAccountRequest) (Account, error) {
	client, c := g.begin(ctx, redirectQuery(req.RedirectTo))
	resp, err := client.AdminCreateUser(types.AdminCreateUserRequest{
		Email:       req.Email,
		AppMetadata: map[string]any{"role": req.Role},
	})
	if err := c.done(err); err != nil {
		return Account{}, fmt.Errorf("create account: %w", err)
	}
	return toAccount(resp.User)
}

func (g *GoTrueAdmin) SetAccountRole(ctx context.Context, accountID id.PrincipalID, role string) error {
	client, c := g.begin(ctx, nil)
	_, err := client.AdminUpdateUser(types.AdminUpdateUserRequest{
		UserID:      uuid.UUID(accountID),
		AppMetadata: map[string]any{"role": role},
	})
	if err := c.doneIgnoringBody(err); err != nil {
		return fmt.Errorf("set account role: %w", err)
	}
	return nil
}

func (g *GoTrueAdmin) DeleteAccount(ctx context.Context, accountID id.PrincipalID) error {
	client, c := g.begin(ctx, nil)
	err := c.done(client.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: uuid.UUID(accountID)}))
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return fmt.Errorf("delete account %s: %w", accountID, sentinel.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

func (g *GoTrueAdmin) InviteByEmail(ctx context.Context, email, redirectTo string) error {
	client, c := g.begin(ctx, redirectQuery(redirectTo))
	_, err := client.Invite(types.InviteRequest{Email: email})
	if err := c.doneIgnoringBody(err); err != nil {
		return fmt.Errorf("invite account: %w", err)
	}
	return nil
}

func (g *GoTrueAdmin) GenerateRecoveryLink(ctx context.Context, email, redirectTo string) (string, error) {
	client, c := g.begin(ctx, nil)
	resp, err := client.AdminGenerateLink(types.AdminGenerateLinkRequest{
		Type:       types.LinkTypeRecovery,
		Email:      email,
		RedirectTo: redirectTo,
	})
	if err := c.done(err); err != nil {
		return "", fmt.Errorf("generate recovery link: %w", err)
	}
	return resp.ActionLink, nil
}

func redirectQuery(redirectTo string) url.Values {
	if redirectTo == "" {
		return nil
	}
	return url.Values{"redirect_to": {redirectTo}}
}

// begin returns a client copy bound to ctx for a single admin call.
func (g *GoTrueAdmin) begin(ctx context.Context, query url.Values) (auth.Client, *call) {
	c := &call{ctx: ctx, query: query, base: g.transport, breaker: g.breaker}
	return g.client.WithClient(http.Client{Transport: c, Timeout: g.timeout}), c
}

// call is the transport of one admin request. The client library takes no
// context and no query parameters, so both are applied here; the status and
// error body are kept for error mapping.
type call struct {
	ctx     context.Context
	query   url.Values
	base    http.RoundTripper
	breaker *circuit.Breaker

	status int
	body   []byte
}

func (c *call) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(c.ctx)
	if len(c.query) > 0 {
		q := req.URL.Query()
		for k, vs := range c.query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		if !errors.Is(c.ctx.Err(), context.Canceled) {
			c.breaker.Record(err)
		}
		return nil, err
	}
	c.status = resp.StatusCode
	if resp.StatusCode >= 500 {
		c.breaker.Record(fmt.Errorf("status %d", resp.StatusCode))
	} else {
		c.breaker.Record(nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()
		c.body = raw
		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}
	return resp, nil
}

// done maps the library's error onto APIError or sentinel.ErrUnavailable.
func (c *call) done(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case c.status != 0 && (c.status < 200 || c.status > 299):
		return &APIError{Status: c.status, Message: errorMessage(c.body)}
	case c.ctx.Err() != nil:
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, c.ctx.Err())
	case c.status == 0:
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	default:
		return fmt.Errorf("decode response: %w", err)
	}
}

// doneIgnoringBody is done for calls whose answer is not used; an empty 2xx
// body is a success there.
func (c *call) doneIgnoringBody(err error) error {
	if c.status >= 200 && c.status <= 299 && errors.Is(err, io.EOF) {
		return nil
	}
	return c.done(err)
}

// errorMessage extracts the provider's message from its several error shapes.
func errorMessage(raw []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
