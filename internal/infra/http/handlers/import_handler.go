package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/xavierca1/ligue-prospect/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

type ImportHandler struct {
	Import *usecase.ImportLeadsUseCase
}

func NewImportHandler(uc *usecase.ImportLeadsUseCase) *ImportHandler {
	return &ImportHandler{Import: uc}
}

type ImportResponse struct {
	Imported int    `json:"imported"`
	Rows     int    `json:"rows"`
	Message  string `json:"message"`
}

// Handle recebe multipart com os campos "file" (CSV) e "territory".
func (h *ImportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeBadRequest(w, "upload inválido: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	territory := strings.TrimSpace(r.FormValue("territory"))
	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "campo file é obrigatório")
		return
	}
	defer file.Close()

	if errs := usecase.ValidateUpload(header.Filename, header.Size, territory); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: usecase.CodeValidation, Message: joinValidation(errs)})
		return
	}

	candidates, err := usecase.ParseLeadsCSV(file)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	n, err := h.Import.Execute(r.Context(), p, usecase.ImportLeadsInput{
		Territory:  territory,
		Candidates: candidates,
		Channel:    usecase.ChannelUpload,
		OnProgress: func(pct int) { log.Printf("📦 Importação %s: %d%%", header.Filename, pct) },
	})
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		Imported: n,
		Rows:     len(candidates),
		Message:  "importação concluída",
	})
}

func joinValidation(errs []usecase.ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
