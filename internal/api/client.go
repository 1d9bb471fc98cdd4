// Package api is the bearer-authenticated client for the platform's
// admin REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/escrowdesk/escrowdesk/internal/session"
)

// ErrUnauthorized means the platform rejected the credential. Fatal for
// this session: the stored token is cleared and the operator must log in
// again. Never retried.
var ErrUnauthorized = errors.New("session rejected by the platform")

// APIError is a non-401 error response from the platform.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Client talks to the platform admin API.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *zerolog.Logger
}

// New builds a client. The session supplies the bearer credential per
// request; login works without one.
func New(baseURL string, timeout time.Duration, sess *session.Session, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := c.session.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The platform unilaterally ended the session; drop the credential
		// so the next command prompts a fresh login.
		if clearErr := c.session.Clear(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear rejected credential")
		}
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Details != "" {
		return body.Error + ": " + body.Details
	}
	return body.Error
}

// Login exchanges admin credentials for a bearer token and stores it in
// the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", req, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return &APIError{Status: http.StatusOK, Message: "login response carried no access token"}
	}
	return c.session.Save(resp.AccessToken)
}

// ListUsers returns all platform users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Data struct {
			Users []User `json:"users"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Users, nil
}

// ListTransactions returns all escrow transactions.
func (c *Client) ListTransactions(ctx context.Context) ([]Transaction, error) {
	var resp struct {
		Data struct {
			Transactions []Transaction `json:"transactions"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/transactions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Transactions, nil
}

// ListWithdrawals returns pending and settled withdrawal requests.
func (c *Client) ListWithdrawals(ctx context.Context) ([]Withdrawal, error) {
	var resp struct {
		Data []Withdrawal `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/withdrawals", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// MarkWithdrawalPaid settles a withdrawal by reference and returns the
// recorded payout date.
func (c *Client) MarkWithdrawalPaid(ctx context.Context, reference string) (time.Time, error) {
	var resp struct {
		Data struct {
			PaidDate time.Time `json:"paidDate"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/api/admin/withdrawals/%s/paid", reference)
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return time.Time{}, err
	}
	return resp.Data.PaidDate, nil
}

// Stats returns the dashboard aggregates.
func (c *Client) Stats(ctx context.Context) (DashboardStats, error) {
	var resp struct {
		Data DashboardStats `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/dashboard-stats", nil, &resp); err != nil {
		return DashboardStats{}, err
	}
	return resp.Data, nil
}

// CustomerByEmail returns the full per-customer view, financials included.
func (c *Client) CustomerByEmail(ctx context.Context, email string) (Customer, error) {
	var resp struct {
		Data Customer `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/customer/"+url.PathEscape(email), nil, &resp); err != nil {
		return Customer{}, err
	}
	return resp.Data, nil
}
