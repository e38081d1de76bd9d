package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-prospect/internal/entity"
)

const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidStage    = "INVALID_STAGE"
	CodeStore           = "STORE_ERROR"
	CodeMail            = "MAIL_ERROR"
)

var (
	ErrUnauthenticated = &DomainError{Code: CodeUnauthenticated, Message: "não autenticado"}
	ErrNotFound        = &DomainError{Code: CodeNotFound, Message: "registro não encontrado"}
)

// DomainError is a caller fault: bad input, missing record, no principal.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps a failure of the store or another dependency.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// PartialImportError reports how many candidates were committed before a
// group failed. Earlier groups stay committed.
type PartialImportError struct {
	Committed int
	Err       error
}

func (e *PartialImportError) Error() string {
	return fmt.Sprintf("importação interrompida após %d leads: %v", e.Committed, e.Err)
}

func (e *PartialImportError) Unwrap() error {
	return e.Err
}

func validationError(msg string) error {
	return &DomainError{Code: CodeValidation, Message: msg}
}

func storeError(op string, err error) error {
	return &TechnicalError{Code: CodeStore, Message: op, Err: err}
}

// mapRepoError turns not-found sentinels into ErrNotFound and wraps
// everything else as a store failure.
func mapRepoError(op string, err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) || errors.Is(err, entity.ErrScriptNotFound) {
		return &DomainError{Code: CodeNotFound, Message: ErrNotFound.Message, Err: err}
	}
	return storeError(op, err)
}
