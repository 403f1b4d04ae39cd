// Package client talks to a running Bilim API. It is used by the terminal
// runner to store results on a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lshigami/Bilim/internal/dto"
	"github.com/lshigami/Bilim/internal/quiz"
)

// Client is a small JSON client for the /api/v1 endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Submit sends a finished session to POST /results. It implements
// quiz.ResultSubmitter.
func (c *Client) Submit(ctx context.Context, sub quiz.Submission) (*quiz.Record, error) {
	r := sub.Result
	req := dto.ResultSubmitRequest{
		TestID:           sub.TestID,
		Score:            &r.Score,
		Total:            &r.Total,
		Percentage:       &r.Percentage,
		TimeSpentSeconds: &r.TimeSpentSeconds,
		Subject:          sub.Subject,
		Difficulty:       sub.Difficulty,
		Answers:          make([]dto.AnswerDTO, 0, len(sub.Result.PerQuestion)),
	}
	for _, pq := range sub.Result.PerQuestion {
		req.Answers = append(req.Answers, dto.AnswerDTO{QuestionID: pq.QuestionID, SelectedOptionIndex: pq.SelectedOptionIndex})
	}

	var resp dto.ResultResponse
	if err := c.do(ctx, http.MethodPost, "/results", req, &resp); err != nil {
		return nil, err
	}
	return &quiz.Record{ID: resp.ID, CreatedAt: resp.CreatedAt}, nil
}

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
