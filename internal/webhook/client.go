package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/teDdyMucho/connectlove-sub001/internal/dto"
	"go.uber.org/zap"
)

var (
	errEmptyResponse      = errors.New("action endpoint returned an empty response")
	errUnexpectedResponse = errors.New("action endpoint returned an unexpected response shape")
)

// Result is the single canonical shape every action response is normalized
// into, whatever encoding the endpoint happened to use.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	endpoint   string
}

func NewClient(logger *zap.Logger, endpoint string, timeout time.Duration) *Client {
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

func (c *Client) SendSupportAction(ctx context.Context, action dto.SupportActionRequest) (*Result, error) {
	body, err := json.Marshal(action)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Sugar().Errorf("action endpoint returned status %d: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("action endpoint returned status %d", resp.StatusCode)
	}

	return NormalizeResult(respBody)
}

// NormalizeResult folds the three response encodings the endpoint has been
// observed to produce into one Result: a plain {success, message} object, an
// array wrapping such an object, or a bare JSON string. A bare string on a
// 2xx response is taken as a success message.
func NormalizeResult(body []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errEmptyResponse
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, errEmptyResponse
		}
		return NormalizeResult(items[0])
	case '{':
		var envelope struct {
			Success bool    `json:"success"`
			Message *string `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		result := &Result{Success: envelope.Success}
		if envelope.Message != nil {
			result.Message = *envelope.Message
		}
		return result, nil
	case '"':
		var message string
		if err := json.Unmarshal(trimmed, &message); err != nil {
			return nil, err
		}
		return &Result{Success: true, Message: message}, nil
	default:
		return nil, errUnexpectedResponse
	}
}
