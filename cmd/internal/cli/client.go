// Package cli implements the sortctl command-line client.
//
// Commands talk to the sorthub HTTP API and keep a small session state file
// (server URL, login, token) between invocations.
package cli

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
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server returned %d (%s)", e.Status, e.Code)
}

// Client is a thin HTTP client for the sorthub API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// BaseURL returns the server base URL the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

type registerResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type changePasswordResult struct {
	Message  string `json:"message"`
	NewToken string `json:"new_token"`
}

type messageResult struct {
	Message string `json:"message"`
}

type removeResult struct {
	Message      string `json:"message"`
	DeletedArray []int  `json:"deleted_array"`
}

// Register creates a user and returns the issued token.
func (c *Client) Register(ctx context.Context, login, pwd, role string) (string, error) {
	var out registerResult
	err := c.call(ctx, http.MethodPost, "/users", map[string]string{
		"login":    login,
		"password": pwd,
		"role":     role,
	}, &out)
	return out.Token, err
}

// Login returns the user's current token.
func (c *Client) Login(ctx context.Context, login, pwd string) (string, error) {
	var out registerResult
	err := c.call(ctx, http.MethodPost, "/users/login", map[string]string{
		"login":    login,
		"password": pwd,
	}, &out)
	return out.Token, err
}

// Logout clears the user's session token.
func (c *Client) Logout(ctx context.Context, login string) error {
	return c.call(ctx, http.MethodPost, "/users/logout", map[string]string{"login": login}, nil)
}

// ChangePassword returns the reissued token.
func (c *Client) ChangePassword(ctx context.Context, login, oldPwd, newPwd string) (string, error) {
	var out changePasswordResult
	err := c.call(ctx, http.MethodPatch, "/users/password", map[string]string{
		"login":        login,
		"old_password": oldPwd,
		"new_password": newPwd,
	}, &out)
	return out.NewToken, err
}

// Sort submits an array and returns the sorted result.
func (c *Client) Sort(ctx context.Context, login string, arr []int) ([]int, error) {
	var out struct {
		SortedArray []int `json:"sorted_array"`
	}
	err := c.call(ctx, http.MethodPost, "/sort", map[string]any{
		"array":      arr,
		"user_login": login,
	}, &out)
	return out.SortedArray, err
}

// History returns the login's stored sequence, oldest first.
func (c *Client) History(ctx context.Context, login string) ([][]int, error) {
	var out struct {
		History [][]int `json:"history"`
	}
	err := c.call(ctx, http.MethodGet, "/history/"+url.PathEscape(login), nil, &out)
	return out.History, err
}

// Slice returns history[start:end].
func (c *Client) Slice(ctx context.Context, login string, start, end int) ([][]int, error) {
	var out struct {
		ArraySlice [][]int `json:"array_slice"`
	}
	path := fmt.Sprintf("/arrays/%s?start=%d&end=%d", url.PathEscape(login), start, end)
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out.ArraySlice, err
}

// Insert adds element to the last stored array and returns the updated array.
func (c *Client) Insert(ctx context.Context, login, position string, element int, index *int) ([]int, error) {
	var out struct {
		UpdatedArray []int `json:"updated_array"`
	}
	q := url.Values{}
	q.Set("position", position)
	q.Set("element", strconv.Itoa(element))
	if index != nil {
		q.Set("index", strconv.Itoa(*index))
	}
	path := "/arrays/" + url.PathEscape(login) + "?" + q.Encode()
	err := c.call(ctx, http.MethodPatch, path, nil, &out)
	return out.UpdatedArray, err
}

// Remove deletes the history entry at index and returns it.
func (c *Client) Remove(ctx context.Context, login string, index int) ([]int, error) {
	var out removeResult
	path := fmt.Sprintf("/arrays/%s?index=%d", url.PathEscape(login), index)
	err := c.call(ctx, http.MethodDelete, path, nil, &out)
	return out.DeletedArray, err
}

// Clear deletes the login's whole history.
func (c *Client) Clear(ctx context.Context, login string) error {
	return c.call(ctx, http.MethodDelete, "/history/"+url.PathEscape(login), nil, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
