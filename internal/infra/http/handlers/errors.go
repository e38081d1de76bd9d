package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/ligue-prospect/internal/usecase"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PartialImportResponse struct {
	Imported int    `json:"imported"`
	Error    string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeErrorResponse traduz erros de usecase em status HTTP. Falhas técnicas
// não vazam detalhes do driver para o cliente.
func writeErrorResponse(w http.ResponseWriter, err error) {
	var partial *usecase.PartialImportError
	if errors.As(err, &partial) {
		log.Printf("❌ importação parcial: %v", err)
		writeJSON(w, http.StatusInternalServerError, PartialImportResponse{
			Imported: partial.Committed,
			Error:    "falha ao gravar leads; os grupos anteriores foram mantidos",
		})
		return
	}

	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeJSON(w, domainStatus(de.Code), ErrorResponse{Code: de.Code, Message: de.Message})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ %s: %v", te.Code, te)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: te.Code, Message: te.Message})
		return
	}

	log.Printf("❌ erro inesperado: %v", err)
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Code: "INTERNAL_ERROR", Message: "erro interno"})
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeUnauthenticated:
		return http.StatusUnauthorized
	case usecase.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: usecase.CodeValidation, Message: msg})
}
