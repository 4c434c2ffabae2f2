package model

import "time"

// CatalogObjective is one educational opportunity of a section's catalog.
type CatalogObjective struct {
	ID          string    `json:"id"`
	Section     string    `json:"secao"`
	Area        string    `json:"areaDesenvolvimento"`
	Trail       string    `json:"trilhoEducativo"`
	Code        string    `json:"codigo,omitempty"`
	Description string    `json:"descricao"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MemberObjective is a member's progress record on one catalog objective.
// A missing record means the objective is still available.
type MemberObjective struct {
	UserID           string     `json:"uid"`
	ObjectiveID      string     `json:"oportunidadeId"`
	Section          string     `json:"secao"`
	State            string     `json:"estado"`
	Blocked          bool       `json:"bloqueado"`
	AssignedByLeader bool       `json:"atribuidoPeloChefe"`
	ChosenAt         *time.Time `json:"escolhidoAt,omitempty"`
	SubmittedAt      *time.Time `json:"submetidoAt,omitempty"`
	ValidatedAt      *time.Time `json:"validadoAt,omitempty"`
	ValidatedBy      string     `json:"validadoPorUid,omitempty"`
	ConfirmedAt      *time.Time `json:"confirmadoAt,omitempty"`
	RealizedAt       *time.Time `json:"realizadoAt,omitempty"`
	CompletedAt      *time.Time `json:"concluidoAt,omitempty"`
	RejectedAt       *time.Time `json:"recusadoAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// CycleProgress tracks a member's first submission in a scouting year.
type CycleProgress struct {
	UserID           string     `json:"uid"`
	CycleID          string     `json:"cicloId"`
	FirstSubmittedAt *time.Time `json:"firstSubmittedAt,omitempty"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ObjectiveFilter narrows a progress listing; empty fields match everything.
type ObjectiveFilter struct {
	GroupID     string
	SectionID   string
	SubunitID   string
	ObjectiveID string
	States      []string
}

// ObjectiveWithOwner joins a progress record with the owner's roster fields
// and the catalogue entry it refers to.
type ObjectiveWithOwner struct {
	MemberObjective
	OwnerName       string `json:"elementoNome"`
	OwnerTotem      string `json:"elementoTotem,omitempty"`
	OwnerSectionID  string `json:"secaoDocId"`
	OwnerSubunitID  string `json:"patrulhaId"`
	OwnerIsGuideSub bool   `json:"isGuiaOuSub"`
	Area            string `json:"area"`
	Trail           string `json:"trilho"`
	Code            string `json:"codigo,omitempty"`
	Description     string `json:"descricao"`
}
