package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidStage = errors.New("stage inválido")

// Stage is the pipeline column of a lead.
type Stage string

const (
	StageNew          Stage = "new"
	StageContacted    Stage = "contacted"
	StageProposalSent Stage = "proposal_sent"
	StageNegotiation  Stage = "negotiation"
	StageWon          Stage = "won"
	StageLost         Stage = "lost"
)

var stageTitles = map[Stage]string{
	StageNew:          "Novos Leads",
	StageContacted:    "Contatados",
	StageProposalSent: "Proposta Enviada",
	StageNegotiation:  "Em Negociação",
	StageWon:          "Fechados",
	StageLost:         "Perdidos",
}

// Stages returns every stage in board order.
func Stages() []Stage {
	return []Stage{StageNew, StageContacted, StageProposalSent, StageNegotiation, StageWon, StageLost}
}

func (s Stage) Valid() bool {
	_, ok := stageTitles[s]
	return ok
}

func (s Stage) Title() string {
	return stageTitles[s]
}

// IsTerminal reports won/lost. Informational only, nothing blocks leaving them.
func (s Stage) IsTerminal() bool {
	return s == StageWon || s == StageLost
}

func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, v)
	}
	return s, nil
}

// CanTransition is true for any pair of known stages, backwards included.
func CanTransition(from, to Stage) bool {
	return from.Valid() && to.Valid()
}
