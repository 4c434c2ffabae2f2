package model

import (
	"slices"
	"strings"
	"time"
)

// Kind distinguishes youth members from adult leaders.
type Kind string

const (
	KindElemento  Kind = "ELEMENTO"
	KindDirigente Kind = "DIRIGENTE"
)

// Leader functions (funções).
const (
	RoleChefeAgrupamento      = "CHEFE_AGRUPAMENTO"
	RoleSecretarioAgrupamento = "SECRETARIO_AGRUPAMENTO"
	RoleChefeUnidade          = "CHEFE_UNIDADE"
	RoleChefeUnidadeAdjunto   = "CHEFE_UNIDADE_ADJUNTO"
	RoleInstrutorSecao        = "INSTRUTOR_SECAO"
	RoleAuxiliar              = "AUXILIAR"
)

// User is a member or leader profile. PasswordHash never leaves the service layer.
type User struct {
	ID                  string    `json:"uid"`
	NIN                 string    `json:"nin"`
	Email               string    `json:"email"`
	Name                string    `json:"nome"`
	Totem               string    `json:"totem,omitempty"`
	GroupID             string    `json:"agrupamentoId"`
	SectionID           string    `json:"secaoDocId"`
	Kind                Kind      `json:"tipo"`
	SubunitID           string    `json:"patrulhaId,omitempty"`
	Stage               string    `json:"etapaProgresso,omitempty"`
	IsGuide             bool      `json:"isGuia"`
	IsSubGuide          bool      `json:"isSubGuia"`
	Roles               []string  `json:"funcoes"`
	Active              bool      `json:"ativo"`
	ForcePasswordChange bool      `json:"forcarMudancaPassword"`
	PasswordHash        []byte    `json:"-"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// HasRole reports whether the user holds the given leader function.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u *User) IsElemento() bool  { return u.Kind == KindElemento }
func (u *User) IsDirigente() bool { return u.Kind == KindDirigente }

// IsGuideOrSub reports whether a youth member leads their sub-unit.
func (u *User) IsGuideOrSub() bool {
	return u.IsElemento() && (u.IsGuide || u.IsSubGuide)
}

// IsUnitLeader reports whether the user is the CHEFE_UNIDADE of sectionID.
func (u *User) IsUnitLeader(groupID, sectionID string) bool {
	return u.IsDirigente() && u.HasRole(RoleChefeUnidade) &&
		u.GroupID == groupID && u.SectionID == sectionID
}

// JoinRoles encodes roles the way they travel in spreadsheets and the roles column.
func JoinRoles(roles []string) string {
	return strings.Join(roles, "|")
}

// SplitRoles is the inverse of JoinRoles; blanks are dropped.
func SplitRoles(s string) []string {
	out := make([]string, 0)
	for _, r := range strings.Split(s, "|") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// UserFilter narrows a user listing. Empty fields match everything.
type UserFilter struct {
	GroupID   string
	SectionID string
	SubunitID string
	Kind      Kind
}
