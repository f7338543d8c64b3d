// Package scoring talks to the remote affinity engine. The engine is
// opaque here: it receives a finalized answer record and returns ranked
// matches plus a derived olfactory profile.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"neuroscent-quiz/internal/domain"
)

const (
	calculatePath = "/test/calculate"
	resultPath    = "/test/"
)

// resultIDPattern gates FetchResult before any network call is attempted.
var resultIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// envelope is the strict response shape: a required discriminant plus the
// payload. Anything else is treated as a malformed response.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Calculate submits the finalized answer aggregate, stamped with
// sessionID, and returns the ranked result. Any transport failure,
// non-2xx status, or envelope mismatch comes back as a
// domain.SubmissionError; the call is never retried here.
func (c *Client) Calculate(ctx context.Context, answers domain.AnswerSet, sessionID string) (domain.Result, error) {
	body, err := json.Marshal(answers.Payload(sessionID))
	if err != nil {
		return domain.Result{}, &domain.SubmissionError{Message: domain.GenericSubmissionMessage, Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return domain.Result{}, &domain.SubmissionError{Message: domain.GenericSubmissionMessage, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Result{}, &domain.SubmissionError{Message: domain.GenericSubmissionMessage, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := serverMessage(resp)
		if message == "" {
			message = domain.GenericSubmissionMessage
		}
		return domain.Result{}, &domain.SubmissionError{
			Message: message,
			Cause:   fmt.Errorf("scoring service returned status %d", resp.StatusCode),
		}
	}

	result, err := decodeEnvelope(resp)
	if err != nil {
		return domain.Result{}, &domain.SubmissionError{Message: domain.GenericSubmissionMessage, Cause: err}
	}
	return result, nil
}

// FetchResult reads back a previously computed result, e.g. when a results
// screen is opened from a shared link.
func (c *Client) FetchResult(ctx context.Context, testID string) (domain.Result, error) {
	if !resultIDPattern.MatchString(testID) {
		return domain.Result{}, fmt.Errorf("%w: %q", domain.ErrInvalidResultID, testID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+resultPath+testID, nil)
	if err != nil {
		return domain.Result{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("fetch result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.Result{}, fmt.Errorf("%w: %s", domain.ErrResultNotFound, testID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Result{}, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (domain.Result, error) {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return domain.Result{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Status != "success" || len(env.Data) == 0 {
		return domain.Result{}, fmt.Errorf("unexpected envelope status %q", env.Status)
	}
	var result domain.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return domain.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

// serverMessage digs the displayable message out of an error response.
// The engine reports errors as {"detail": {"message": ...}} or a bare
// {"detail": "..."}; anything unreadable yields "".
func serverMessage(resp *http.Response) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Detail, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	var plain string
	if err := json.Unmarshal(body.Detail, &plain); err == nil {
		return plain
	}
	return ""
}
