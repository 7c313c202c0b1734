// Package rest implements the api ports against the bujet REST service.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bujet/internal/api"
	"bujet/internal/core"
	"bujet/internal/log"
)

// Client talks to the bujet API over HTTP. It holds no session state; every
// request carries the caller's credentials as headers.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// Ensure interface conformance
var (
	_ api.AccountLister      = (*Client)(nil)
	_ api.AccountReader      = (*Client)(nil)
	_ api.AccountWriter      = (*Client)(nil)
	_ api.BalanceReader      = (*Client)(nil)
	_ api.TransactionLister  = (*Client)(nil)
	_ api.TransactionCounter = (*Client)(nil)
	_ api.TransactionWriter  = (*Client)(nil)
	_ api.UserAuthenticator  = (*Client)(nil)
)

func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger.WithComponent(log.ComponentAPI),
	}
}

func authHeaders(creds api.Credentials) map[string]string {
	return map[string]string{
		"X-User-Id":    creds.UserID,
		"X-User-Token": creds.Token,
	}
}

// ListAccounts returns all accounts owned by the credentialed user.
func (c *Client) ListAccounts(ctx context.Context, creds api.Credentials) ([]core.Account, error) {
	var accounts []core.Account
	if err := c.do(ctx, http.MethodGet, "/accounts/", authHeaders(creds), nil, nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (c *Client) GetAccount(ctx context.Context, creds api.Credentials, accountID string) (core.Account, error) {
	var account core.Account
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/", authHeaders(creds), nil, nil, &account)
	return account, err
}

type accountCreateRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Type        core.AccountType `json:"type"`
}

// accountUpdateRequest omits the type: it is fixed for the account's life.
type accountUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (c *Client) CreateAccount(ctx context.Context, creds api.Credentials, account core.Account) (core.Account, error) {
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}
	body := accountCreateRequest{Name: account.Name, Description: account.Description, Type: account.Type}
	var created core.Account
	err := c.do(ctx, http.MethodPost, "/accounts/", authHeaders(creds), nil, body, &created)
	return created, err
}

func (c *Client) UpdateAccount(ctx context.Context, creds api.Credentials, account core.Account) (core.Account, error) {
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}
	body := accountUpdateRequest{Name: account.Name, Description: account.Description}
	var updated core.Account
	err := c.do(ctx, http.MethodPatch, "/accounts/"+url.PathEscape(account.ID)+"/", authHeaders(creds), nil, body, &updated)
	return updated, err
}

func (c *Client) DeleteAccount(ctx context.Context, creds api.Credentials, accountID string) error {
	return c.do(ctx, http.MethodDelete, "/accounts/"+url.PathEscape(accountID)+"/", authHeaders(creds), nil, nil, nil)
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

func (c *Client) GetBalance(ctx context.Context, creds api.Credentials, accountID string) (int64, error) {
	var resp balanceResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/balance/", authHeaders(creds), nil, nil, &resp)
	return resp.Balance, err
}

// ListTransactions fetches one window of an account's transactions, newest
// first. The query's cursor bounds are forwarded as before/after parameters.
func (c *Client) ListTransactions(ctx context.Context, creds api.Credentials, accountID string, query api.ListQuery) ([]core.Transaction, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(query.Limit))
	if query.Before != nil {
		params.Set("before", query.Before.Format(time.RFC3339Nano))
	}
	if query.After != nil {
		params.Set("after", query.After.Format(time.RFC3339Nano))
	}

	var transactions []core.Transaction
	path := "/accounts/" + url.PathEscape(accountID) + "/transactions/"
	if err := c.do(ctx, http.MethodGet, path, authHeaders(creds), params, nil, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

type countResponse struct {
	Count int `json:"count"`
}

func (c *Client) CountTransactions(ctx context.Context, creds api.Credentials, accountID string) (int, error) {
	var resp countResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountID)+"/transactions-count/", authHeaders(creds), nil, nil, &resp)
	return resp.Count, err
}

type transactionRequest struct {
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

func (c *Client) CreateTransaction(ctx context.Context, creds api.Credentials, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	body := transactionRequest{Amount: tx.Amount, Description: tx.Description, Date: tx.Date}
	var created core.Transaction
	path := "/accounts/" + url.PathEscape(tx.AccountID) + "/transactions/"
	err := c.do(ctx, http.MethodPost, path, authHeaders(creds), nil, body, &created)
	return created, err
}

func (c *Client) UpdateTransaction(ctx context.Context, creds api.Credentials, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	body := transactionRequest{Amount: tx.Amount, Description: tx.Description, Date: tx.Date}
	var updated core.Transaction
	path := "/accounts/" + url.PathEscape(tx.AccountID) + "/transactions/" + url.PathEscape(tx.ID) + "/"
	err := c.do(ctx, http.MethodPatch, path, authHeaders(creds), nil, body, &updated)
	return updated, err
}

func (c *Client) DeleteTransaction(ctx context.Context, creds api.Credentials, accountID, transactionID string) error {
	path := "/accounts/" + url.PathEscape(accountID) + "/transactions/" + url.PathEscape(transactionID) + "/"
	return c.do(ctx, http.MethodDelete, path, authHeaders(creds), nil, nil, nil)
}

type signUpRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
	Password    string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, username, displayName, password string) (core.User, error) {
	var user core.User
	body := signUpRequest{Username: username, DisplayName: displayName, Password: password}
	err := c.do(ctx, http.MethodPost, "/user/", nil, nil, body, &user)
	return user, err
}

func (c *Client) SignIn(ctx context.Context, username, password string) (core.User, error) {
	var user core.User
	headers := map[string]string{
		"X-User-Username": username,
		"X-User-Password": password,
	}
	err := c.do(ctx, http.MethodGet, "/user/", headers, nil, nil, &user)
	return user, err
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.DebugContext(ctx, "API request", log.FieldMethod, method, log.FieldPath, path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return api.WrapNetwork(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp)
		c.logger.WarnContext(ctx, "API request failed",
			log.FieldMethod, method,
			log.FieldPath, path,
			log.FieldStatusCode, resp.StatusCode,
			log.FieldError, apiErr)
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return api.WrapNetwork(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
