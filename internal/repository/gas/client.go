package gas

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

	"github.com/yourusername/exam-portal/internal/domain/entity"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	apperrors "github.com/yourusername/exam-portal/internal/pkg/errors"
)

// Действия удаленного сервиса
const (
	actionGetUsers     = "getUsers"
	actionGetQuestions = "getQuestions"
	actionGetResults   = "getResults"
	actionSubmitResult = "submitResult"
)

// ErrServiceUnavailable - запрос не дошел до сервиса (сеть, DNS, таймаут)
var ErrServiceUnavailable = fmt.Errorf("%w: exam service unavailable", apperrors.ErrUpstream)

// APIError - сервис ответил кодом вне 2xx
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap позволяет проверять ошибку через errors.Is(err, apperrors.ErrUpstream)
func (e *APIError) Unwrap() error { return apperrors.ErrUpstream }

// RemoteError - сервис ответил 200, но с полем error в теле
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func (e *RemoteError) Unwrap() error { return apperrors.ErrUpstream }

// Client реализует repository.ExamBackend поверх веб-приложения Apps Script
type Client struct {
	endpoint   string
	httpClient *http.Client
}

var _ repository.ExamBackend = (*Client)(nil)

type usersResponse struct {
	Users []entity.User `json:"users"`
	Tests []entity.Test `json:"tests"`
	Error string        `json:"error"`
}

type questionsResponse struct {
	Questions []entity.Question `json:"questions"`
	Error     string            `json:"error"`
}

type resultsResponse struct {
	Results []entity.ResultRecord `json:"results"`
	Error   string                `json:"error"`
}

type submitResultRequest struct {
	Action string `json:"action"`
	*entity.Attempt
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewClient создает клиент. httpClient может быть nil - тогда используется http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: httpClient,
	}
}

// GetUsers загружает пользователей и каталог тестов
func (c *Client) GetUsers(ctx context.Context) (*repository.Directory, error) {
	var payload usersResponse
	if err := c.get(ctx, actionGetUsers, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &RemoteError{Action: actionGetUsers, Message: payload.Error}
	}

	users := payload.Users
	if users == nil {
		users = []entity.User{}
	}
	tests := payload.Tests
	if tests == nil {
		tests = []entity.Test{}
	}
	return &repository.Directory{Users: users, Tests: tests}, nil
}

// GetQuestions загружает вопросы теста
func (c *Client) GetQuestions(ctx context.Context, sheetName string) ([]entity.Question, error) {
	if strings.TrimSpace(sheetName) == "" {
		return nil, fmt.Errorf("%w: test sheet name is required", apperrors.ErrValidation)
	}

	params := url.Values{}
	params.Set("test", sheetName)

	var payload questionsResponse
	if err := c.get(ctx, actionGetQuestions, params, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &RemoteError{Action: actionGetQuestions, Message: payload.Error}
	}
	return payload.Questions, nil
}

// GetResults загружает лист результатов
func (c *Client) GetResults(ctx context.Context) ([]entity.ResultRecord, error) {
	var payload resultsResponse
	if err := c.get(ctx, actionGetResults, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, &RemoteError{Action: actionGetResults, Message: payload.Error}
	}
	return payload.Results, nil
}

// SubmitResult отправляет попытку. Тело уходит как text/plain,
// иначе Apps Script требует preflight, который он не поддерживает.
func (c *Client) SubmitResult(ctx context.Context, attempt *entity.Attempt) error {
	if attempt == nil {
		return fmt.Errorf("%w: attempt is required", apperrors.ErrValidation)
	}

	var payload errorResponse
	body := submitResultRequest{Action: actionSubmitResult, Attempt: attempt}
	if err := c.post(ctx, body, &payload); err != nil {
		return err
	}
	if payload.Error != "" {
		return &RemoteError{Action: actionSubmitResult, Message: payload.Error}
	}
	return nil
}

func (c *Client) get(ctx context.Context, action string, params url.Values, dest interface{}) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return fmt.Errorf("invalid exam service endpoint: %w", err)
	}

	query := u.Query()
	query.Set("action", action)
	for key, values := range params {
		for _, v := range values {
			query.Set(key, v)
		}
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	return c.do(req, dest)
}

func (c *Client) post(ctx context.Context, body interface{}, dest interface{}) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain")
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", ErrServiceUnavailable, ctxErr)
		}
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: malformed response: %v", apperrors.ErrUpstream, err)
	}
	return nil
}
