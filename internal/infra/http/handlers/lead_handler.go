package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

type LeadHandler struct {
	Leads    *usecase.LeadService
	Outreach *usecase.SendOutreachUseCase
}

func NewLeadHandler(leads *usecase.LeadService, outreach *usecase.SendOutreachUseCase) *LeadHandler {
	return &LeadHandler{Leads: leads, Outreach: outreach}
}

type ChangeStageRequest struct {
	Stage entity.Stage `json:"stage"`
}

type OutreachRequest struct {
	ScriptID string `json:"script_id"`
	Subject  string `json:"subject,omitempty"`
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	filter := entity.TerritoryFilter(r.URL.Query().Get("territory"))

	leads, err := h.Leads.List(r.Context(), p, filter)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}

	lead, err := h.Leads.Add(r.Context(), middleware.PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Get(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}

	lead, err := h.Leads.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Leads.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LeadHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	var req ChangeStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}

	lead, err := h.Leads.ChangeStage(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.Stage)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Territories(w http.ResponseWriter, r *http.Request) {
	territories, err := h.Leads.Territories(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, territories)
}

func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	filter := entity.TerritoryFilter(r.URL.Query().Get("territory"))
	stats, err := h.Leads.Stats(r.Context(), middleware.PrincipalFromContext(r.Context()), filter)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Export devolve o backup JSON como anexo.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.Export(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	filename := usecase.BackupFilename(time.Now())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) SendOutreach(w http.ResponseWriter, r *http.Request) {
	var req OutreachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}

	out, err := h.Outreach.Execute(r.Context(), middleware.PrincipalFromContext(r.Context()), usecase.SendOutreachInput{
		LeadID:   chi.URLParam(r, "id"),
		ScriptID: req.ScriptID,
		Subject:  req.Subject,
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
