package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/taxonomy"
)

// knownRoles are the leader functions a group leader may hand out.
var knownRoles = []string{
	model.RoleChefeAgrupamento,
	model.RoleSecretarioAgrupamento,
	model.RoleChefeUnidade,
	model.RoleChefeUnidadeAdjunto,
	model.RoleInstrutorSecao,
	model.RoleAuxiliar,
}

// MemberUpdate carries the fields a unit leader may change on a member.
// Nil fields are left untouched.
type MemberUpdate struct {
	SubunitID *string
	Stage     *string
	Totem     *string
}

// LeaderUpdate carries the fields a group leader may change on another leader.
// A nil Roles leaves the functions untouched.
type LeaderUpdate struct {
	Totem     *string
	SectionID *string
	Roles     []string
}

// RosterService manages sub-units, members and leaders of a section.
type RosterService interface {
	// ListSubunits returns the sub-units of sectionID (the actor's own when empty).
	// Guides only see their own sub-unit.
	ListSubunits(ctx context.Context, actor *model.User, sectionID string) ([]model.Subunit, error)
	CreateSubunit(ctx context.Context, actor *model.User, name string) (*model.Subunit, error)
	SetSubunitActive(ctx context.Context, actor *model.User, subunitID string, active bool) error
	// SetSubunitLeader puts memberID in a guide slot; an empty memberID clears it.
	SetSubunitLeader(ctx context.Context, actor *model.User, subunitID string, slot repository.LeaderSlot, memberID string) error

	ListMembers(ctx context.Context, actor *model.User) ([]model.User, error)
	UpdateMember(ctx context.Context, actor *model.User, memberID string, upd MemberUpdate) (*model.User, error)

	ListLeaders(ctx context.Context, actor *model.User) ([]model.User, error)
	UpdateLeader(ctx context.Context, actor *model.User, leaderID string, upd LeaderUpdate) (*model.User, error)
}

type rosterService struct {
	users         repository.UserRepository
	subunits      repository.SubunitRepository
	notifications repository.NotificationRepository
	log           *zap.Logger
	clock         Clock
}

// NewRosterService constructs a new RosterService.
func NewRosterService(users repository.UserRepository, subunits repository.SubunitRepository, notifications repository.NotificationRepository, log *zap.Logger, clock Clock) RosterService {
	if clock == nil {
		clock = systemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &rosterService{
		users:         users,
		subunits:      subunits,
		notifications: notifications,
		log:           log.With(zap.String("component", "roster")),
		clock:         clock,
	}
}

func (s *rosterService) requireUnitLeader(actor *model.User) error {
	if !actor.IsUnitLeader(actor.GroupID, actor.SectionID) {
		return forbidden("only the unit leader manages the section")
	}
	return nil
}

func (s *rosterService) ref(actor *model.User, subunitID string) model.SubunitRef {
	return model.SubunitRef{GroupID: actor.GroupID, SectionID: actor.SectionID, ID: subunitID}
}

func (s *rosterService) ListSubunits(ctx context.Context, actor *model.User, sectionID string) ([]model.Subunit, error) {
	if sectionID == "" {
		sectionID = actor.SectionID
	}
	switch {
	case actor.IsDirigente():
		if sectionID != actor.SectionID && !actor.HasRole(model.RoleChefeAgrupamento) {
			return nil, forbidden("sub-units of another section")
		}
	case actor.IsGuideOrSub():
		if sectionID != actor.SectionID {
			return nil, forbidden("sub-units of another section")
		}
	default:
		return nil, forbidden("members do not manage sub-units")
	}

	list, err := s.subunits.List(ctx, actor.GroupID, sectionID)
	if err != nil {
		return nil, err
	}
	if actor.IsDirigente() {
		return list, nil
	}
	own := make([]model.Subunit, 0, 1)
	for _, su := range list {
		if su.ID == actor.SubunitID {
			own = append(own, su)
		}
	}
	return own, nil
}

func (s *rosterService) CreateSubunit(ctx context.Context, actor *model.User, name string) (*model.Subunit, error) {
	if err := s.requireUnitLeader(actor); err != nil {
		return nil, err
	}
	if taxonomy.IsLobitos(actor.SectionID) {
		return nil, invalid("the bands of a pack are fixed")
	}
	name = strings.TrimSpace(name)
	id := taxonomy.SlugifyID(name)
	if id == "" {
		return nil, invalid("a name is required")
	}
	now := s.clock()
	su := &model.Subunit{
		GroupID:   actor.GroupID,
		SectionID: actor.SectionID,
		ID:        id,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.subunits.Create(ctx, su); err != nil {
		return nil, lookup(fmt.Sprintf("sub-unit %q", id), err)
	}
	s.log.Info("subunit created", zap.String("section_id", su.SectionID), zap.String("subunit_id", id))
	return su, nil
}

func (s *rosterService) SetSubunitActive(ctx context.Context, actor *model.User, subunitID string, active bool) error {
	if err := s.requireUnitLeader(actor); err != nil {
		return err
	}
	if err := s.subunits.SetActive(ctx, s.ref(actor, subunitID), active, s.clock()); err != nil {
		return lookup("sub-unit", err)
	}
	return nil
}

func (s *rosterService) SetSubunitLeader(ctx context.Context, actor *model.User, subunitID string, slot repository.LeaderSlot, memberID string) error {
	if err := s.requireUnitLeader(actor); err != nil {
		return err
	}
	if slot != repository.SlotGuide && slot != repository.SlotSubGuide {
		return invalid("unknown leadership slot %q", slot)
	}
	su, err := s.subunits.Find(ctx, s.ref(actor, subunitID))
	if err != nil {
		return lookup("sub-unit", err)
	}
	if !su.Active {
		return invalid("sub-unit %q is inactive", subunitID)
	}
	if memberID != "" {
		m, err := s.users.FindByID(ctx, memberID)
		if err != nil {
			return lookup("member", err)
		}
		if !m.IsElemento() || m.GroupID != actor.GroupID || m.SectionID != actor.SectionID || m.SubunitID != subunitID {
			return invalid("member %q does not belong to sub-unit %q", memberID, subunitID)
		}
	}
	if err := s.subunits.SetLeader(ctx, su.Ref(), slot, memberID, s.clock()); err != nil {
		return lookup("sub-unit", err)
	}
	return nil
}

func (s *rosterService) ListMembers(ctx context.Context, actor *model.User) ([]model.User, error) {
	f := model.UserFilter{GroupID: actor.GroupID, SectionID: actor.SectionID, Kind: model.KindElemento}
	switch {
	case actor.IsDirigente():
	case actor.IsGuideOrSub() && actor.SubunitID != "":
		f.SubunitID = actor.SubunitID
	default:
		return nil, forbidden("members do not see the roster")
	}
	return s.users.List(ctx, f)
}

func (s *rosterService) UpdateMember(ctx context.Context, actor *model.User, memberID string, upd MemberUpdate) (*model.User, error) {
	if err := s.requireUnitLeader(actor); err != nil {
		return nil, err
	}
	m, err := s.users.FindByID(ctx, memberID)
	if err != nil {
		return nil, lookup("member", err)
	}
	if !m.IsElemento() || m.GroupID != actor.GroupID || m.SectionID != actor.SectionID {
		return nil, forbidden("member %q is not in the section", memberID)
	}

	oldStage := m.Stage
	if upd.Stage != nil {
		stage := strings.TrimSpace(*upd.Stage)
		if stage != "" && !taxonomy.IsStage(stage) {
			return nil, invalid("unknown stage %q", stage)
		}
		m.Stage = stage
	}
	if upd.Totem != nil {
		m.Totem = strings.TrimSpace(*upd.Totem)
	}
	var (
		left   model.SubunitRef
		vacate repository.LeaderSlot
	)
	if upd.SubunitID != nil && *upd.SubunitID != m.SubunitID {
		if left, vacate, err = s.moveMember(ctx, actor, m, *upd.SubunitID); err != nil {
			return nil, err
		}
	}

	m.UpdatedAt = s.clock()
	if vacate != "" {
		err = s.users.UpdateVacating(ctx, m, left, vacate)
	} else {
		err = s.users.Update(ctx, m)
	}
	if err != nil {
		return nil, lookup("member", err)
	}

	if m.Stage != oldStage {
		n := &model.Notification{
			ID:          newID("ntf"),
			GroupID:     m.GroupID,
			SectionID:   m.SectionID,
			Action:      model.ActionStageChanged,
			Description: fmt.Sprintf("Mudou de etapa: de %q para %q", taxonomy.StageName(oldStage), taxonomy.StageName(m.Stage)),
			MemberName:  m.Name,
			MemberID:    m.ID,
			SubunitID:   m.SubunitID,
			CreatedAt:   m.UpdatedAt,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.log.Error("stage notification failed", zap.String("member_id", m.ID), zap.Error(err))
		}
	}
	return m, nil
}

// moveMember points m at another sub-unit. A guide or sub-guide gives up
// their slot in the sub-unit they leave; the slot to clear is returned with
// that sub-unit so the caller can write both together.
func (s *rosterService) moveMember(ctx context.Context, actor *model.User, m *model.User, to string) (model.SubunitRef, repository.LeaderSlot, error) {
	to = strings.TrimSpace(to)
	if to != "" {
		su, err := s.subunits.Find(ctx, s.ref(actor, to))
		if err != nil {
			return model.SubunitRef{}, "", lookup("sub-unit", err)
		}
		if !su.Active {
			return model.SubunitRef{}, "", invalid("sub-unit %q is inactive", to)
		}
	}
	var (
		left model.SubunitRef
		slot repository.LeaderSlot
	)
	if m.SubunitID != "" && (m.IsGuide || m.IsSubGuide) {
		left, slot = s.ref(actor, m.SubunitID), repository.SlotGuide
		if !m.IsGuide {
			slot = repository.SlotSubGuide
		}
		m.IsGuide, m.IsSubGuide = false, false
	}
	m.SubunitID = to
	return left, slot, nil
}

func (s *rosterService) requireGroupLeader(actor *model.User) error {
	if !actor.IsDirigente() || !actor.HasRole(model.RoleChefeAgrupamento) {
		return forbidden("only the group leader manages leaders")
	}
	return nil
}

func (s *rosterService) ListLeaders(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := s.requireGroupLeader(actor); err != nil {
		return nil, err
	}
	return s.users.List(ctx, model.UserFilter{GroupID: actor.GroupID, Kind: model.KindDirigente})
}

func (s *rosterService) UpdateLeader(ctx context.Context, actor *model.User, leaderID string, upd LeaderUpdate) (*model.User, error) {
	if err := s.requireGroupLeader(actor); err != nil {
		return nil, err
	}
	l, err := s.users.FindByID(ctx, leaderID)
	if err != nil {
		return nil, lookup("leader", err)
	}
	if !l.IsDirigente() || l.GroupID != actor.GroupID {
		return nil, forbidden("leader %q is not in the group", leaderID)
	}

	if upd.Totem != nil {
		l.Totem = strings.TrimSpace(*upd.Totem)
	}
	if upd.SectionID != nil {
		l.SectionID = strings.TrimSpace(*upd.SectionID)
	}
	if upd.Roles != nil {
		for _, r := range upd.Roles {
			if !slices.Contains(knownRoles, r) {
				return nil, invalid("unknown function %q", r)
			}
		}
		l.Roles = NormalizeRoles(l.Roles, upd.Roles)
	}

	l.UpdatedAt = s.clock()
	if err := s.users.Update(ctx, l); err != nil {
		return nil, lookup("leader", err)
	}
	return l, nil
}

// NormalizeRoles applies the AUXILIAR rule to a new selection: picking AUXILIAR
// drops every other function, picking anything else drops AUXILIAR.
func NormalizeRoles(prev, next []string) []string {
	out := make([]string, 0, len(next))
	for _, r := range next {
		if !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	if !slices.Contains(out, model.RoleAuxiliar) || len(out) == 1 {
		return out
	}
	if slices.Contains(prev, model.RoleAuxiliar) {
		return slices.DeleteFunc(out, func(r string) bool { return r == model.RoleAuxiliar })
	}
	return []string{model.RoleAuxiliar}
}
