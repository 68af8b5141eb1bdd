package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/phalouvas/cognitive-folio/internal/common"
	"github.com/phalouvas/cognitive-folio/internal/models"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version": common.GetVersion(),
		"commit":  common.GetGitCommit(),
	})
}

// --- Security handlers ---

func (s *Server) handleSecurities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		securities, err := s.app.Storage.Securities().List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing securities: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"securities": securities})

	case http.MethodPost:
		var security models.Security
		if !DecodeJSON(w, r, &security) {
			return
		}
		if err := s.app.Storage.Securities().Save(r.Context(), &security); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving security: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, security)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) routeSecurity(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r.URL.Path, "/api/securities/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Security id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		security, err := s.app.Storage.Securities().Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Security not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, security)

	case http.MethodDelete:
		if err := s.app.Storage.Securities().Delete(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting security: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- Portfolio handlers ---

func (s *Server) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		portfolios, err := s.app.Storage.Portfolios().List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing portfolios: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"portfolios": portfolios})

	case http.MethodPost:
		var portfolio models.Portfolio
		if !DecodeJSON(w, r, &portfolio) {
			return
		}
		if err := s.app.Storage.Portfolios().Save(r.Context(), &portfolio); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving portfolio: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r.URL.Path, "/api/portfolios/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Portfolio id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		portfolio, err := s.app.Storage.Portfolios().Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Portfolio not found: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, portfolio)

	case http.MethodDelete:
		if err := s.app.Storage.Portfolios().Delete(r.Context(), id); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error deleting portfolio: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- Financial period handlers ---

func (s *Server) handlePeriodSave(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var period models.FinancialPeriod
	if !DecodeJSON(w, r, &period) {
		return
	}
	if models.NormalizePeriodType(period.PeriodType) == "" {
		WriteError(w, http.StatusBadRequest, "period_type must be Annual or Quarterly")
		return
	}
	period.PeriodType = models.NormalizePeriodType(period.PeriodType)
	if err := s.app.Storage.Periods().Save(r.Context(), &period); err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving period: %v", err))
		return
	}
	WriteJSON(w, http.StatusOK, period)
}

// --- Prompt handlers ---

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		templates, err := s.app.Storage.Prompts().List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing prompts: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"prompts": templates})

	case http.MethodPost:
		var template models.PromptTemplate
		if !DecodeJSON(w, r, &template) {
			return
		}
		if err := s.app.Storage.Prompts().Save(r.Context(), &template); err != nil {
			WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving prompt: %v", err))
			return
		}
		WriteJSON(w, http.StatusOK, template)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// expandRequest drives the expand and run endpoints. Template may be given
// inline or by stored template id; scope is a portfolio id, a security id,
// or both.
type expandRequest struct {
	Template    string `json:"template,omitempty"`
	TemplateID  string `json:"template_id,omitempty"`
	PortfolioID string `json:"portfolio_id,omitempty"`
	SecurityID  string `json:"security_id,omitempty"`
}

func (s *Server) resolveExpandRequest(w http.ResponseWriter, r *http.Request) (string, *models.Portfolio, *models.Security, bool) {
	var req expandRequest
	if !DecodeJSON(w, r, &req) {
		return "", nil, nil, false
	}

	template := req.Template
	if template == "" && req.TemplateID != "" {
		stored, err := s.app.Storage.Prompts().Get(r.Context(), req.TemplateID)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Prompt template not found: %v", err))
			return "", nil, nil, false
		}
		template = stored.Content
	}
	if template == "" {
		WriteError(w, http.StatusBadRequest, "template or template_id is required")
		return "", nil, nil, false
	}

	var portfolio *models.Portfolio
	if req.PortfolioID != "" {
		p, err := s.app.Storage.Portfolios().Get(r.Context(), req.PortfolioID)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Portfolio not found: %v", err))
			return "", nil, nil, false
		}
		portfolio = p
	}

	var security *models.Security
	if req.SecurityID != "" {
		sec, err := s.app.Storage.Securities().Get(r.Context(), req.SecurityID)
		if err != nil {
			WriteError(w, http.StatusNotFound, fmt.Sprintf("Security not found: %v", err))
			return "", nil, nil, false
		}
		security = sec
	}

	return template, portfolio, security, true
}

func (s *Server) handlePromptExpand(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	template, portfolio, security, ok := s.resolveExpandRequest(w, r)
	if !ok {
		return
	}

	expanded := s.app.PromptService.PreparePrompt(r.Context(), template, portfolio, security)
	WriteJSON(w, http.StatusOK, map[string]string{"prompt": expanded})
}

func (s *Server) handlePromptRun(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.GeminiClient == nil {
		WriteError(w, http.StatusServiceUnavailable, "AI generation unavailable: no Gemini API key configured")
		return
	}

	template, portfolio, security, ok := s.resolveExpandRequest(w, r)
	if !ok {
		return
	}

	expanded := s.app.PromptService.PreparePrompt(r.Context(), template, portfolio, security)

	response, err := s.app.GeminiClient.GenerateContent(r.Context(), expanded)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("AI generation failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"prompt":   expanded,
		"response": response,
	})
}
