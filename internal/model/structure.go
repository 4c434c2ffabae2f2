package model

import "time"

// Group is a scout group (agrupamento).
type Group struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// Section is an age section of a group.
type Section struct {
	GroupID string `json:"agrupamentoId"`
	ID      string `json:"id"`
	Name    string `json:"nome"`
}

// Subunit is a patrol/band/team/tribe inside a section.
type Subunit struct {
	GroupID     string    `json:"agrupamentoId"`
	SectionID   string    `json:"secaoDocId"`
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Active      bool      `json:"ativo"`
	GuideUID    string    `json:"guiaUid,omitempty"`
	SubGuideUID string    `json:"subGuiaUid,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SubunitRef addresses a sub-unit.
type SubunitRef struct {
	GroupID   string
	SectionID string
	ID        string
}

// Ref returns the address of s.
func (s *Subunit) Ref() SubunitRef {
	return SubunitRef{GroupID: s.GroupID, SectionID: s.SectionID, ID: s.ID}
}
