package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"credit-preapproval/internal/adapter/middleware"
	"credit-preapproval/internal/adapter/repository/redisstore"
	"credit-preapproval/internal/domain/application"
	"credit-preapproval/internal/domain/lender"
	"credit-preapproval/internal/domain/loan"
	"credit-preapproval/internal/domain/preapproval"
	"credit-preapproval/internal/testutil/applicationmock"
	"credit-preapproval/internal/testutil/lendermock"
	"credit-preapproval/internal/testutil/loanmock"
	lenderuc "credit-preapproval/internal/usecase/lender"
	preuc "credit-preapproval/internal/usecase/preapproval"
	sessionuc "credit-preapproval/internal/usecase/session"
	"credit-preapproval/internal/usecase/status"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testSession = "dddddddddddddddddddddddddddddddd"

type app struct {
	e       *echo.Echo
	rdb     *redis.Client
	loans   *loanmock.Backend
	history *applicationmock.Repo
}

func newApp(t *testing.T, withIdempotency bool) *app {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	a := &app{
		rdb:     rdb,
		loans:   &loanmock.Backend{CreateFn: loanmock.Echo("loan-77")},
		history: &applicationmock.Repo{},
	}
	sessions := redisstore.NewSessionStore(rdb, time.Hour)
	flows := redisstore.NewFlowStore(rdb, time.Hour, time.Minute)
	lenders := &lendermock.Repo{}

	pre := preuc.NewUsecase(preuc.Params{
		Flows:    flows,
		Sessions: sessions,
		Lenders:  lenders,
		History:  a.history,
		Loans:    a.loans,
	})
	h := Handlers{
		Health:       NewHandler(map[string]Check{"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() }}),
		Lenders:      NewLenderHandler(lenderuc.NewUsecase(lenders), nil),
		Preapprovals: NewPreapprovalHandler(pre, nil),
		Sessions:     NewSessionHandler(sessionuc.NewUsecase(sessions), pre, status.NewUsecase(sessions, a.loans), nil),
	}

	a.e = echo.New()
	a.e.HideBanner = true
	var extra []echo.MiddlewareFunc
	if withIdempotency {
		extra = append(extra, middleware.Idempotency(rdb, middleware.IdempotencyConfig{TTL: time.Hour}))
	}
	Register(a.e, h, extra...)
	return a
}

func (a *app) do(t *testing.T, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderSessionID, testSession)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func (a *app) signIn(t *testing.T) {
	t.Helper()
	rec := a.do(t, http.MethodPut, "/sessions/"+testSession, map[string]any{
		"token":     "tok-1",
		"user_data": map[string]any{"firstName": "Thabo", "email": "t@x.com", "annualIncome": 60000},
	}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("sign-in: %d %s", rec.Code, rec.Body.String())
	}
}

func (a *app) start(t *testing.T, body any) preuc.FlowDTO {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/preapprovals", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: %d %s", rec.Code, rec.Body.String())
	}
	return decode[preuc.FlowDTO](t, rec)
}

var completeFields = map[string]string{
	"lastName":    "M",
	"phone":       "58123456",
	"employment":  "employed",
	"loanAmount":  "20000",
	"loanPurpose": "Personal",
}

func TestWizard_HappyPath(t *testing.T) {
	a := newApp(t, false)
	a.signIn(t)

	flow := a.start(t, nil)
	if flow.Draft.FirstName != "Thabo" || flow.Draft.Income != "5000.00" {
		t.Fatalf("prefill missing: %+v", flow.Draft)
	}
	base := "/preapprovals/" + flow.ID

	rec := a.do(t, http.MethodPatch, base, map[string]any{"fields": completeFields}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	for i := 0; i < 2; i++ {
		if rec := a.do(t, http.MethodPost, base+"/next", nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("next %d: %d %s", i, rec.Code, rec.Body.String())
		}
	}

	rec = a.do(t, http.MethodGet, base, nil, nil)
	got := decode[preuc.FlowDTO](t, rec)
	if got.State != preapproval.KindReview || got.Review == nil {
		t.Fatalf("review page: %+v", got)
	}

	rec = a.do(t, http.MethodPost, base+"/submit", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	got = decode[preuc.FlowDTO](t, rec)
	if got.State != preapproval.KindSubmitted || got.Application == nil || got.Application.ID != "loan-77" {
		t.Fatalf("submitted: %+v", got)
	}
	if a.loans.Requests[0].LoanAmount != 20000 {
		t.Fatalf("request = %+v", a.loans.Requests[0])
	}

	rec = a.do(t, http.MethodGet, "/applications/current", nil, nil)
	cur := decode[preapproval.CurrentApplication](t, rec)
	if rec.Code != http.StatusOK || cur.ID != "loan-77" || cur.Lender != preapproval.GeneralApplication {
		t.Fatalf("current: %d %+v", rec.Code, cur)
	}

	rec = a.do(t, http.MethodPost, base+"/back", nil, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("back after submit: %d", rec.Code)
	}
}

func TestNext_ValidationErrorsAre422WithFlow(t *testing.T) {
	a := newApp(t, false)
	flow := a.start(t, nil)

	rec := a.do(t, http.MethodPost, "/preapprovals/"+flow.ID+"/next", nil, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[FlowErrorResponse](t, rec)
	if body.Error != preapproval.MsgFixValidationErrors || len(body.Details) != 4 {
		t.Fatalf("body = %+v", body)
	}
	if body.Details[0].Field != "firstName" || body.Details[0].Message != preapproval.MsgFirstNameRequired {
		t.Fatalf("details not in form order: %+v", body.Details)
	}
	if body.Flow == nil || body.Flow.Stage != 0 || len(body.Flow.Errors) != 4 {
		t.Fatalf("flow = %+v", body.Flow)
	}
}

func TestUpdate_RejectsUnknownField(t *testing.T) {
	a := newApp(t, false)
	flow := a.start(t, nil)

	rec := a.do(t, http.MethodPatch, "/preapprovals/"+flow.ID,
		map[string]any{"fields": map[string]string{"ssn": "123"}}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := decode[ErrorResponse](t, rec)
	if !containsFieldMsg(body.Details, "fields[ssn]", "not a known field") {
		t.Fatalf("details = %+v", body.Details)
	}

	rec = a.do(t, http.MethodPatch, "/preapprovals/"+flow.ID, map[string]any{"fields": map[string]string{}}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty fields: expected 422, got %d", rec.Code)
	}
}

func TestSubmit_WithoutSignInIs401(t *testing.T) {
	a := newApp(t, false)
	flow := a.start(t, map[string]any{"step": 2})
	base := "/preapprovals/" + flow.ID

	// deep-linked to review with nothing filled in: stage one refuses first
	rec := a.do(t, http.MethodPost, base+"/submit", nil, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d %s", rec.Code, rec.Body.String())
	}

	fields := map[string]string{"firstName": "A", "email": "a@b.co", "income": "2000"}
	for k, v := range completeFields {
		fields[k] = v
	}
	a.do(t, http.MethodPatch, base, map[string]any{"fields": fields}, nil)

	rec = a.do(t, http.MethodPost, base+"/submit", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}
	body := decode[FlowErrorResponse](t, rec)
	if body.Error != preapproval.MsgAuthenticationRequired || body.Flow == nil || body.Flow.State != preapproval.KindFailed {
		t.Fatalf("body = %+v", body)
	}
	if a.loans.Calls() != 0 {
		t.Fatalf("backend called without a token")
	}
}

func TestSubmit_BackendMessageIs502(t *testing.T) {
	a := newApp(t, false)
	a.loans.CreateFn = func(context.Context, string, loan.CreateRequest) (*loan.Loan, error) {
		return nil, &preapproval.SubmissionError{StatusCode: 400, Message: "Loan amount exceeds limit"}
	}
	a.signIn(t)
	flow := a.start(t, map[string]any{"step": 2, "lender_id": "1"})
	base := "/preapprovals/" + flow.ID
	a.do(t, http.MethodPatch, base, map[string]any{"fields": completeFields}, nil)

	rec := a.do(t, http.MethodPost, base+"/submit", nil, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d %s", rec.Code, rec.Body.String())
	}
	body := decode[FlowErrorResponse](t, rec)
	if body.Error != "Loan amount exceeds limit" || body.Flow.Message != "Loan amount exceeds limit" {
		t.Fatalf("body = %+v", body)
	}
}

func TestSubmit_ReplayedWithIdempotencyKey(t *testing.T) {
	a := newApp(t, true)
	a.signIn(t)
	flow := a.start(t, map[string]any{"step": 2})
	base := "/preapprovals/" + flow.ID
	a.do(t, http.MethodPatch, base, map[string]any{"fields": completeFields}, nil)

	hdr := map[string]string{
		middleware.HeaderRequestID: "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee",
		middleware.HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
	first := a.do(t, http.MethodPost, base+"/submit", nil, hdr)
	second := a.do(t, http.MethodPost, base+"/submit", nil, hdr)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("codes %d %d: %s", first.Code, second.Code, second.Body.String())
	}
	if second.Header().Get(middleware.HeaderReplay) != "true" {
		t.Fatalf("second response not a replay")
	}
	if a.loans.Calls() != 1 {
		t.Fatalf("backend calls = %d", a.loans.Calls())
	}
}

func TestFlowRoutes_SessionAndParams(t *testing.T) {
	a := newApp(t, false)

	req := httptest.NewRequest(http.MethodPost, "/preapprovals", nil)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing session: expected 400, got %d", rec.Code)
	}

	rec = a.do(t, http.MethodGet, "/preapprovals/NOT-HEX", nil, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad flow id: expected 422, got %d", rec.Code)
	}
	rec = a.do(t, http.MethodGet, "/preapprovals/"+strings.Repeat("0", 32), nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown flow: expected 404, got %d", rec.Code)
	}
	rec = a.do(t, http.MethodPost, "/preapprovals", map[string]any{"step": 3}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad step: expected 422, got %d", rec.Code)
	}
	rec = a.do(t, http.MethodPost, "/preapprovals", map[string]any{"lender_id": "42"}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown lender: expected 404, got %d", rec.Code)
	}
	rec = a.do(t, http.MethodPost, "/preapprovals", "not-an-object", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body: expected 400, got %d", rec.Code)
	}
}

func TestFlow_NotVisibleToOtherSession(t *testing.T) {
	a := newApp(t, false)
	flow := a.start(t, nil)

	rec := a.do(t, http.MethodGet, "/preapprovals/"+flow.ID, nil,
		map[string]string{middleware.HeaderSessionID: strings.Repeat("f", 32)})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLenders(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodGet, "/lenders", nil, nil)
	body := decode[struct {
		Lenders []lenderuc.LenderDTO `json:"lenders"`
	}](t, rec)
	if rec.Code != http.StatusOK || len(body.Lenders) != len(lender.Defaults()) {
		t.Fatalf("list: %d %+v", rec.Code, body)
	}

	rec = a.do(t, http.MethodGet, "/lenders/3", nil, nil)
	got := decode[lenderuc.LenderDTO](t, rec)
	if rec.Code != http.StatusOK || got.Name != "Nedbank Lesotho" {
		t.Fatalf("get: %d %+v", rec.Code, got)
	}
	if rec := a.do(t, http.MethodGet, "/lenders/9", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown lender: %d", rec.Code)
	}
}

func TestSessionPut_Validation(t *testing.T) {
	a := newApp(t, false)

	rec := a.do(t, http.MethodPut, "/sessions/not-a-session", map[string]any{"token": "t"}, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id: expected 422, got %d", rec.Code)
	}
	rec = a.do(t, http.MethodPut, "/sessions/"+testSession, map[string]any{}, nil)
	body := decode[ErrorResponse](t, rec)
	if rec.Code != http.StatusUnprocessableEntity || !containsFieldMsg(body.Details, "token", "is required") {
		t.Fatalf("missing token: %d %+v", rec.Code, body)
	}

	// upper-case ids land on the same session
	rec = a.do(t, http.MethodPut, "/sessions/"+strings.ToUpper(testSession), map[string]any{"token": "t"}, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("upper-case id: %d", rec.Code)
	}
	if v, _ := a.rdb.Get(context.Background(), "session:"+testSession+":token").Result(); v != "t" {
		t.Fatalf("token = %q", v)
	}
}

func TestApplications_CurrentAndHistory(t *testing.T) {
	a := newApp(t, false)

	if rec := a.do(t, http.MethodGet, "/applications/current", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("no application: expected 404, got %d", rec.Code)
	}

	a.history.ListBySessionFn = func(_ context.Context, sessionID string, limit int) ([]application.Application, error) {
		if sessionID != testSession {
			t.Fatalf("session = %q", sessionID)
		}
		if limit != defaultHistoryLimit {
			t.Fatalf("limit = %d", limit)
		}
		return []application.Application{{LoanID: "l1", Lender: "Standard Lesotho Bank"}}, nil
	}
	rec := a.do(t, http.MethodGet, "/applications", nil, nil)
	body := decode[struct {
		Applications []preuc.ApplicationDTO `json:"applications"`
	}](t, rec)
	if rec.Code != http.StatusOK || len(body.Applications) != 1 || body.Applications[0].LoanID != "l1" {
		t.Fatalf("history: %d %+v", rec.Code, body)
	}
	if rec := a.do(t, http.MethodGet, "/applications?limit=500", nil, nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("limit too big: expected 422, got %d", rec.Code)
	}

	a.history.ListBySessionFn = func(context.Context, string, int) ([]application.Application, error) {
		return nil, errors.New("db down")
	}
	if rec := a.do(t, http.MethodGet, "/applications", nil, nil); rec.Code != http.StatusInternalServerError {
		t.Fatalf("db failure: expected 500, got %d", rec.Code)
	}
}

func TestLoanStatus(t *testing.T) {
	a := newApp(t, false)

	if rec := a.do(t, http.MethodGet, "/loans/status", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("signed out: expected 401, got %d", rec.Code)
	}

	a.signIn(t)
	a.loans.ListMineFn = func(_ context.Context, token string) ([]loan.Loan, error) {
		if token != "tok-1" {
			t.Fatalf("token = %q", token)
		}
		return []loan.Loan{{ID: "65f1c2d3e4f5a6b7c8d9e0f1", Status: loan.StatusApproved}}, nil
	}
	rec := a.do(t, http.MethodGet, "/loans/status", nil, nil)
	body := decode[status.StatusDTO](t, rec)
	if rec.Code != http.StatusOK || len(body.Loans) != 1 || body.Loans[0].Progress != 90 || body.Loans[0].Reference != "D9E0F1" {
		t.Fatalf("status: %d %+v", rec.Code, body)
	}

	a.loans.ListMineFn = func(context.Context, string) ([]loan.Loan, error) { return nil, errors.New("timeout") }
	if rec := a.do(t, http.MethodGet, "/loans/status", nil, nil); rec.Code != http.StatusBadGateway {
		t.Fatalf("backend down: expected 502, got %d", rec.Code)
	}
}
