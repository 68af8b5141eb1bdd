package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phalouvas/cognitive-folio/internal/app"
	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/interfaces"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// --- In-memory storage fakes ---

type memStorage struct {
	securities memSecurities
	portfolios memPortfolios
	periods    memPeriods
	prompts    memPrompts
}

func newMemStorage() *memStorage {
	return &memStorage{
		securities: memSecurities{data: map[string]*models.Security{}},
		portfolios: memPortfolios{data: map[string]*models.Portfolio{}},
		periods:    memPeriods{data: map[string]*models.FinancialPeriod{}},
		prompts:    memPrompts{data: map[string]*models.PromptTemplate{}},
	}
}

func (m *memStorage) Securities() interfaces.SecurityStore { return &m.securities }
func (m *memStorage) Portfolios() interfaces.PortfolioStore { return &m.portfolios }
func (m *memStorage) Periods() interfaces.PeriodStore       { return &m.periods }
func (m *memStorage) Prompts() interfaces.PromptStore       { return &m.prompts }
func (m *memStorage) Close() error                          { return nil }

type memSecurities struct{ data map[string]*models.Security }

func (s *memSecurities) Get(_ context.Context, id string) (*models.Security, error) {
	if v, ok := s.data[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("security '%s' not found", id)
}

func (s *memSecurities) GetBySymbol(_ context.Context, symbol string) (*models.Security, error) {
	for _, v := range s.data {
		if v.Symbol == symbol {
			return v, nil
		}
	}
	return nil, fmt.Errorf("security with symbol '%s' not found", symbol)
}

func (s *memSecurities) Save(_ context.Context, v *models.Security) error {
	if v.ID == "" {
		v.ID = fmt.Sprintf("sec-%d", len(s.data)+1)
	}
	s.data[v.ID] = v
	return nil
}

func (s *memSecurities) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

func (s *memSecurities) List(_ context.Context) ([]*models.Security, error) {
	out := make([]*models.Security, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, nil
}

type memPortfolios struct{ data map[string]*models.Portfolio }

func (s *memPortfolios) Get(_ context.Context, id string) (*models.Portfolio, error) {
	if v, ok := s.data[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("portfolio '%s' not found", id)
}

func (s *memPortfolios) Save(_ context.Context, v *models.Portfolio) error {
	if v.ID == "" {
		v.ID = fmt.Sprintf("pf-%d", len(s.data)+1)
	}
	s.data[v.ID] = v
	return nil
}

func (s *memPortfolios) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

func (s *memPortfolios) List(_ context.Context) ([]*models.Portfolio, error) {
	out := make([]*models.Portfolio, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, nil
}

type memPeriods struct{ data map[string]*models.FinancialPeriod }

func (s *memPeriods) Get(_ context.Context, id string) (*models.FinancialPeriod, error) {
	if v, ok := s.data[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("financial period '%s' not found", id)
}

func (s *memPeriods) Save(_ context.Context, v *models.FinancialPeriod) error {
	if v.ID == "" {
		v.ID = fmt.Sprintf("per-%d", len(s.data)+1)
	}
	s.data[v.ID] = v
	return nil
}

func (s *memPeriods) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

func (s *memPeriods) FindBySecurity(_ context.Context, securityID, periodType string) ([]*models.FinancialPeriod, error) {
	var out []*models.FinancialPeriod
	for _, v := range s.data {
		if v.SecurityID == securityID && v.PeriodType == periodType {
			out = append(out, v)
		}
	}
	return out, nil
}

type memPrompts struct{ data map[string]*models.PromptTemplate }

func (s *memPrompts) Get(_ context.Context, id string) (*models.PromptTemplate, error) {
	if v, ok := s.data[id]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("prompt template '%s' not found", id)
}

func (s *memPrompts) Save(_ context.Context, v *models.PromptTemplate) error {
	if v.ID == "" {
		v.ID = fmt.Sprintf("tpl-%d", len(s.data)+1)
	}
	s.data[v.ID] = v
	return nil
}

func (s *memPrompts) Delete(_ context.Context, id string) error {
	delete(s.data, id)
	return nil
}

func (s *memPrompts) List(_ context.Context) ([]*models.PromptTemplate, error) {
	out := make([]*models.PromptTemplate, 0, len(s.data))
	for _, v := range s.data {
		out = append(out, v)
	}
	return out, nil
}

// echoPromptService substitutes nothing; it records what scope it was
// handed so handler wiring can be asserted.
type echoPromptService struct {
	lastPortfolio *models.Portfolio
	lastSecurity  *models.Security
}

func (e *echoPromptService) PreparePrompt(_ context.Context, template string, portfolio *models.Portfolio, security *models.Security) string {
	e.lastPortfolio = portfolio
	e.lastSecurity = security
	return "expanded: " + template
}

func (e *echoPromptService) PrepareSecurityPrompt(ctx context.Context, template, _ string) (string, error) {
	return e.PreparePrompt(ctx, template, nil, nil), nil
}

func (e *echoPromptService) PreparePortfolioPrompt(ctx context.Context, template, _ string) (string, error) {
	return e.PreparePrompt(ctx, template, nil, nil), nil
}

type stubGemini struct {
	response string
	err      error
}

func (g *stubGemini) GenerateContent(_ context.Context, _ string) (string, error) {
	return g.response, g.err
}

func (g *stubGemini) Close() error { return nil }

func newTestServer(t *testing.T, store *memStorage, prompts interfaces.PromptService, gemini interfaces.GeminiClient) *Server {
	t.Helper()
	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        common.NewSilentLogger(),
		Storage:       store,
		GeminiClient:  gemini,
		PromptService: prompts,
		StartupTime:   time.Now(),
	}
	return NewServer(a)
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %q", resp["status"])
	}
}

func TestSecurityCRUD(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/securities", `{"name":"Apple Inc","symbol":"AAPL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Security
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/securities/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Apple Inc") {
		t.Errorf("get body = %s", rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/securities/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing security status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodDelete, "/api/securities/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestHandlePeriodSave_ValidatesType(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/periods",
		`{"security_id":"sec1","period_type":"monthly","fiscal_year":2024}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/periods",
		`{"security_id":"sec1","period_type":"annual","fiscal_year":2024}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid save status = %d: %s", rec.Code, rec.Body.String())
	}
	// Period type is canonicalized on save.
	if !strings.Contains(rec.Body.String(), `"period_type":"Annual"`) {
		t.Errorf("expected canonical period type, got %s", rec.Body.String())
	}
}

func TestHandlePromptExpand(t *testing.T) {
	store := newMemStorage()
	store.securities.data["sec1"] = &models.Security{ID: "sec1", Name: "Apple Inc"}
	echo := &echoPromptService{}
	srv := newTestServer(t, store, echo, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/expand",
		`{"template":"Analyze {{name}}","security_id":"sec1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["prompt"] != "expanded: Analyze {{name}}" {
		t.Errorf("prompt = %q", resp["prompt"])
	}
	if echo.lastSecurity == nil || echo.lastSecurity.ID != "sec1" {
		t.Errorf("security scope not passed: %+v", echo.lastSecurity)
	}
}

func TestHandlePromptExpand_StoredTemplate(t *testing.T) {
	store := newMemStorage()
	store.prompts.data["tpl1"] = &models.PromptTemplate{ID: "tpl1", Content: "Stored body"}
	srv := newTestServer(t, store, &echoPromptService{}, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/expand", `{"template_id":"tpl1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "expanded: Stored body") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandlePromptExpand_MissingTemplate(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/expand", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandlePromptRun_NoGeminiClient(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/run", `{"template":"hi"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestHandlePromptRun(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, &stubGemini{response: "analysis text"})
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/run", `{"template":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["response"] != "analysis text" {
		t.Errorf("response = %q", resp["response"])
	}
	if resp["prompt"] != "expanded: hi" {
		t.Errorf("prompt = %q", resp["prompt"])
	}
}

func TestHandlePromptRun_GeminiFailure(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, &stubGemini{err: fmt.Errorf("quota exceeded")})
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/prompts/run", `{"template":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, newMemStorage(), &echoPromptService{}, nil)
	rec := doJSON(t, srv.Handler(), http.MethodDelete, "/api/health", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}
