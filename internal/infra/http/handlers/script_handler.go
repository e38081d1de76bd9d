package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

type ScriptHandler struct {
	Scripts *usecase.ScriptService
}

func NewScriptHandler(scripts *usecase.ScriptService) *ScriptHandler {
	return &ScriptHandler{Scripts: scripts}
}

func (h *ScriptHandler) List(w http.ResponseWriter, r *http.Request) {
	scripts, err := h.Scripts.List(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scripts)
}

func (h *ScriptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.AddScriptInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}
	script, err := h.Scripts.Add(r.Context(), middleware.PrincipalFromContext(r.Context()), in)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, script)
}

func (h *ScriptHandler) SeedDefaults(w http.ResponseWriter, r *http.Request) {
	n, err := h.Scripts.SeedDefaults(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"created": n})
}

func (h *ScriptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.ScriptPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "JSON inválido: "+err.Error())
		return
	}
	script, err := h.Scripts.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, script)
}

func (h *ScriptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Scripts.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScriptHandler) Render(w http.ResponseWriter, r *http.Request) {
	leadID := r.URL.Query().Get("lead")
	if leadID == "" {
		writeBadRequest(w, "parâmetro lead é obrigatório")
		return
	}
	out, err := h.Scripts.Render(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), leadID)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
