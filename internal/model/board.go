package model

import "time"

// Notification actions.
const (
	ActionMeritBadge   = "ANILHA_MERITO"
	ActionStageChanged = "ETAPA_ALTERADA"
)

// Notification is a secretary to-do raised by the workflow or the roster.
type Notification struct {
	ID          string     `json:"id"`
	GroupID     string     `json:"agrupamentoId"`
	SectionID   string     `json:"secaoDocId,omitempty"`
	Action      string     `json:"tipoAcao"`
	Description string     `json:"descricao"`
	MemberName  string     `json:"elementoNome"`
	MemberID    string     `json:"uidElemento"`
	SubunitID   string     `json:"patrulhaId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Resolved    bool       `json:"resolvida"`
	ResolvedAt  *time.Time `json:"resolvidaAt,omitempty"`
	ResolvedBy  string     `json:"resolvidaPorUid,omitempty"`
}

// Post is a bulletin board message addressed to one or more audience tags.
type Post struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"agrupamentoId"`
	Title      string    `json:"titulo"`
	Body       string    `json:"descricao"`
	Link       string    `json:"link,omitempty"`
	Targets    []string  `json:"alvos"`
	Author     string    `json:"autor"`
	AuthorRole string    `json:"autorCargo"`
	AuthorID   string    `json:"autorUid"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"dataFim"`
}
