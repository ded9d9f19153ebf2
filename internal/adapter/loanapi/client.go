package loanapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"credit-preapproval/internal/domain/loan"
	"credit-preapproval/internal/domain/preapproval"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ loan.Backend = (*Client)(nil)

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the external loan backend. Its timeout is the only bound on
// a submission: callers do not cancel one that is in flight.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// wireLoan accepts both id spellings the backend uses and numeric ids.
type wireLoan struct {
	ID          json.RawMessage `json:"id"`
	MongoID     json.RawMessage `json:"_id"`
	Status      string          `json:"status"`
	LoanAmount  float64         `json:"loanAmount"`
	LoanPurpose string          `json:"loanPurpose"`
	LoanTerm    int             `json:"loanTerm"`
	LenderName  string          `json:"lenderName"`
	CreatedAt   string          `json:"createdAt"`
}

func (w wireLoan) toDomain() loan.Loan {
	id := rawID(w.ID)
	if id == "" {
		id = rawID(w.MongoID)
	}
	return loan.Loan{
		ID:          id,
		Status:      loan.Status(w.Status),
		LoanAmount:  w.LoanAmount,
		LoanPurpose: w.LoanPurpose,
		LoanTerm:    w.LoanTerm,
		LenderName:  w.LenderName,
		CreatedAt:   w.CreatedAt,
	}
}

func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

type createResponse struct {
	Loan *wireLoan `json:"loan"`
}

type listResponse struct {
	Loans []wireLoan `json:"loans"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Create posts a loan application. Every failure is a *preapproval.SubmissionError
// carrying the server's message when it sent one.
func (c *Client) Create(ctx context.Context, token string, req loan.CreateRequest) (*loan.Loan, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &preapproval.SubmissionError{Err: err}
	}
	resp, err := c.do(ctx, http.MethodPost, "/loans", token, body)
	if err != nil {
		return nil, &preapproval.SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := readMessage(resp.Body)
		c.log.Warn("loan api rejected application", zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return nil, &preapproval.SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &preapproval.SubmissionError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode loan response: %w", err)}
	}
	if out.Loan == nil {
		return nil, &preapproval.SubmissionError{StatusCode: resp.StatusCode, Err: errors.New("response carries no loan")}
	}
	l := out.Loan.toDomain()
	if l.ID == "" {
		return nil, &preapproval.SubmissionError{StatusCode: resp.StatusCode, Err: errors.New("response loan has no id")}
	}
	return &l, nil
}

// ListMine returns the loans of the token's owner.
func (c *Client) ListMine(ctx context.Context, token string) ([]loan.Loan, error) {
	resp, err := c.do(ctx, http.MethodGet, "/loans/my-loans", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := readMessage(resp.Body)
		return nil, fmt.Errorf("loan api status %d: %s", resp.StatusCode, msg)
	}
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode loans: %w", err)
	}
	loans := make([]loan.Loan, 0, len(out.Loans))
	for _, w := range out.Loans {
		loans = append(loans, w.toDomain())
	}
	return loans, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("loan api call failed", zap.String("method", method), zap.String("path", path),
			zap.String("request_id", reqID), zap.Error(err))
		return nil, err
	}
	c.log.Debug("loan api call", zap.String("method", method), zap.String("path", path),
		zap.String("request_id", reqID), zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// readMessage extracts {"message": ...} from an error body. Bodies that are
// not JSON yield "" so the caller falls back to the generic text.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	if strings.TrimSpace(e.Message) == "" {
		return ""
	}
	return e.Message
}
