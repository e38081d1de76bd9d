package handlers

import (
	"net/http"

	"github.com/xavierca1/ligue-prospect/internal/entity"
	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

// SessionHandler roda as tarefas de início de sessão do usuário.
type SessionHandler struct {
	Migrate *usecase.MigrateOrphansUseCase
}

func NewSessionHandler(uc *usecase.MigrateOrphansUseCase) *SessionHandler {
	return &SessionHandler{Migrate: uc}
}

type SessionResponse struct {
	Principal entity.Principal `json:"principal"`
	Migrated  int              `json:"migrated"`
}

// MigrateOrphans is called once per login by the client.
func (h *SessionHandler) MigrateOrphans(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	n, err := h.Migrate.Execute(r.Context(), p)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Principal: p, Migrated: n})
}
