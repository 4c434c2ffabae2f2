package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/taxonomy"
	"azimute/internal/workflow"
)

const meritDescription = "Elegível para Anilha de Mérito (100% dos objetivos concluídos)"

// TransitionRecorder counts applied workflow transitions.
type TransitionRecorder interface {
	Record(action, to string, n int)
}

// BoardItem is one catalogue objective as seen by the member.
type BoardItem struct {
	model.CatalogObjective
	AreaKey      taxonomy.Area  `json:"areaKey"`
	State        workflow.State `json:"estadoRaw"`
	VisibleState workflow.State `json:"estado"`
	Blocked      bool           `json:"bloqueado"`
	CanSelect    bool           `json:"podeSelecionar"`
	CanCancel    bool           `json:"podeCancelar"`
}

// Board is a member's objective catalogue merged with their progress.
type Board struct {
	Section         string      `json:"secao"`
	CycleID         string      `json:"cicloId"`
	FirstSubmission bool        `json:"primeiraSubmissao"`
	Items           []BoardItem `json:"items"`
}

// SubmitResult describes an accepted submission.
type SubmitResult struct {
	CycleID         string                  `json:"cicloId"`
	FirstSubmission bool                    `json:"primeiraSubmissao"`
	Records         []model.MemberObjective `json:"registos"`
}

// AssignResult lists the members whose completion a leader changed.
type AssignResult struct {
	Added   []string `json:"atribuidos"`
	Removed []string `json:"removidos"`
}

// ObjectiveService drives the approval workflow of educational objectives.
type ObjectiveService interface {
	// Board returns the acting member's catalogue with the state of each objective.
	Board(ctx context.Context, actor *model.User) (*Board, error)

	// Submit proposes objectiveIDs. The first submission of a scouting year must
	// cover every development area. Everything is written atomically.
	Submit(ctx context.Context, actor *model.User, objectiveIDs []string) (*SubmitResult, error)

	// Cancel withdraws a proposal that nobody has reviewed yet.
	Cancel(ctx context.Context, actor *model.User, objectiveID string) error

	// GuidePending lists the proposals of the guide's sub-unit awaiting peer validation.
	GuidePending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error)

	// LeaderPending lists the records awaiting the unit leader.
	LeaderPending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error)

	// Decide applies a review action (validate, confirm, realize, complete, reject).
	Decide(ctx context.Context, actor *model.User, ownerID, objectiveID string, action workflow.Action) (*model.MemberObjective, error)

	// SetCompletedHolders makes userIDs the exact set of members holding objectiveID
	// as completed: missing members are assigned, the others lose the record.
	SetCompletedHolders(ctx context.Context, actor *model.User, objectiveID string, userIDs []string) (*AssignResult, error)

	SectionStats(ctx context.Context, actor *model.User, sectionID string) (*SectionStats, error)
	GroupStats(ctx context.Context, actor *model.User) (*GroupStats, error)
}

// ObjectiveDeps wires the objective service.
type ObjectiveDeps struct {
	Users         repository.UserRepository
	Catalog       repository.CatalogRepository
	Objectives    repository.ObjectiveRepository
	Notifications repository.NotificationRepository
	Recorder      TransitionRecorder
	Logger        *zap.Logger
	Clock         Clock
}

type objectiveService struct {
	users         repository.UserRepository
	catalog       repository.CatalogRepository
	objectives    repository.ObjectiveRepository
	notifications repository.NotificationRepository
	recorder      TransitionRecorder
	log           *zap.Logger
	clock         Clock
}

// NewObjectiveService constructs a new ObjectiveService.
func NewObjectiveService(d ObjectiveDeps) ObjectiveService {
	if d.Clock == nil {
		d.Clock = systemClock
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &objectiveService{
		users:         d.Users,
		catalog:       d.Catalog,
		objectives:    d.Objectives,
		notifications: d.Notifications,
		recorder:      d.Recorder,
		log:           d.Logger.With(zap.String("component", "objectives")),
		clock:         d.Clock,
	}
}

// catalogSection returns the catalogue a user's section draws objectives from.
func catalogSection(u *model.User) (string, error) {
	sec, ok := taxonomy.SectionFromDocID(u.SectionID)
	if !ok {
		return "", invalid("section %q has no objective catalogue", u.SectionID)
	}
	return string(sec), nil
}

func (s *objectiveService) record(action, to string, n int) {
	if s.recorder != nil {
		s.recorder.Record(action, to, n)
	}
}

func (s *objectiveService) Board(ctx context.Context, actor *model.User) (*Board, error) {
	if !actor.IsElemento() {
		return nil, forbidden("only members have an objective board")
	}
	section, err := catalogSection(actor)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}
	recs, err := s.objectives.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.MemberObjective, len(recs))
	for i := range recs {
		byID[recs[i].ObjectiveID] = &recs[i]
	}

	cycle := taxonomy.CycleID(s.clock())
	first, err := s.firstSubmission(ctx, actor.ID, cycle)
	if err != nil {
		return nil, err
	}

	items := make([]BoardItem, 0, len(catalog))
	for _, o := range catalog {
		rec := byID[o.ID]
		raw := workflow.StateAvailable
		if rec != nil {
			raw = workflow.State(rec.State)
		}
		items = append(items, BoardItem{
			CatalogObjective: o,
			AreaKey:          taxonomy.AreaKey(o.Area),
			State:            raw,
			VisibleState:     workflow.Visible(raw),
			Blocked:          workflow.Locked(rec),
			CanSelect:        workflow.Selectable(rec),
			CanCancel:        rec != nil && raw == workflow.StateProposed && !rec.Blocked,
		})
	}
	return &Board{Section: section, CycleID: cycle, FirstSubmission: first, Items: items}, nil
}

func (s *objectiveService) firstSubmission(ctx context.Context, userID, cycle string) (bool, error) {
	p, err := s.objectives.CycleProgress(ctx, userID, cycle)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return p.FirstSubmittedAt == nil, nil
}

func (s *objectiveService) Submit(ctx context.Context, actor *model.User, objectiveIDs []string) (*SubmitResult, error) {
	if !actor.IsElemento() {
		return nil, forbidden("only members submit objectives")
	}
	ids := dedupe(objectiveIDs)
	if len(ids) == 0 {
		return nil, invalid("select at least one objective")
	}
	section, err := catalogSection(actor)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.CatalogObjective, len(catalog))
	for _, o := range catalog {
		byID[o.ID] = o
	}
	recs, err := s.objectives.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	existing := make(map[string]*model.MemberObjective, len(recs))
	for i := range recs {
		existing[recs[i].ObjectiveID] = &recs[i]
	}

	covered := make(map[taxonomy.Area]bool)
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			return nil, invalid("objective %q is not in the %s catalogue", id, section)
		}
		if !workflow.Selectable(existing[id]) {
			return nil, invalid("objective %q cannot be selected in its current state", id)
		}
		covered[taxonomy.AreaKey(o.Area)] = true
	}

	now := s.clock()
	cycle := taxonomy.CycleID(now)
	first, err := s.firstSubmission(ctx, actor.ID, cycle)
	if err != nil {
		return nil, err
	}
	if first {
		var missing []string
		for _, a := range taxonomy.AreaOrder {
			if !covered[a] {
				missing = append(missing, a.Name())
			}
		}
		if len(missing) > 0 {
			return nil, invalid("the first submission of the cycle needs one objective per area; missing %s", strings.Join(missing, ", "))
		}
	}

	out := make([]model.MemberObjective, 0, len(ids))
	for _, id := range ids {
		next, err := workflow.Apply(workflow.ActionPropose, existing[id], actor, actor, now)
		if err != nil {
			return nil, err
		}
		next.ObjectiveID = id
		next.Section = section
		out = append(out, *next)
	}

	progress := model.CycleProgress{UserID: actor.ID, CycleID: cycle, UpdatedAt: now}
	if first {
		progress.FirstSubmittedAt = &now
	}
	if err := s.objectives.Submit(ctx, out, progress); err != nil {
		return nil, err
	}
	s.record(string(workflow.ActionPropose), out[0].State, len(out))

	return &SubmitResult{CycleID: cycle, FirstSubmission: first, Records: out}, nil
}

func (s *objectiveService) Cancel(ctx context.Context, actor *model.User, objectiveID string) error {
	rec, err := s.objectives.Find(ctx, actor.ID, objectiveID)
	if err != nil {
		return lookup("objective record", err)
	}
	if _, err := workflow.Apply(workflow.ActionCancel, rec, actor, actor, s.clock()); err != nil {
		return err
	}
	if err := s.objectives.Delete(ctx, actor.ID, objectiveID); err != nil {
		return err
	}
	s.record(string(workflow.ActionCancel), string(workflow.StateAvailable), 1)
	return nil
}

func (s *objectiveService) GuidePending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error) {
	if !actor.IsGuideOrSub() || actor.SubunitID == "" {
		return nil, forbidden("only guides and sub-guides validate proposals")
	}
	recs, err := s.objectives.ListWithOwner(ctx, model.ObjectiveFilter{
		GroupID:   actor.GroupID,
		SectionID: actor.SectionID,
		SubunitID: actor.SubunitID,
		States:    []string{string(workflow.StateProposed)},
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.ObjectiveWithOwner, 0, len(recs))
	for _, r := range recs {
		if r.UserID != actor.ID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *objectiveService) LeaderPending(ctx context.Context, actor *model.User) ([]model.ObjectiveWithOwner, error) {
	if !actor.IsUnitLeader(actor.GroupID, actor.SectionID) {
		return nil, forbidden("only the unit leader reviews the section")
	}
	recs, err := s.objectives.ListWithOwner(ctx, model.ObjectiveFilter{
		GroupID:   actor.GroupID,
		SectionID: actor.SectionID,
		States: []string{
			string(workflow.StateProposed),
			string(workflow.StateValidated),
			string(workflow.StateRealized),
		},
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.ObjectiveWithOwner, 0, len(recs))
	for _, r := range recs {
		if workflow.AwaitsLeader(workflow.State(r.State), r.OwnerIsGuideSub) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *objectiveService) Decide(ctx context.Context, actor *model.User, ownerID, objectiveID string, action workflow.Action) (*model.MemberObjective, error) {
	switch action {
	case workflow.ActionValidate, workflow.ActionConfirm, workflow.ActionRealize,
		workflow.ActionComplete, workflow.ActionReject:
	default:
		return nil, invalid("%q is not a review decision", action)
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return nil, lookup("member", err)
	}
	rec, err := s.objectives.Find(ctx, ownerID, objectiveID)
	if err != nil {
		return nil, lookup("objective record", err)
	}
	next, err := workflow.Apply(action, rec, actor, owner, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.objectives.Save(ctx, next); err != nil {
		return nil, err
	}
	s.record(string(action), next.State, 1)

	if workflow.State(next.State) == workflow.StateCompleted {
		section := next.Section
		if section == "" {
			section, _ = catalogSection(owner)
		}
		catalog, err := s.catalog.ListBySection(ctx, section)
		if err != nil {
			s.log.Warn("merit check skipped", zap.String("member_id", owner.ID), zap.Error(err))
		} else {
			s.checkMerit(ctx, owner, section, len(catalog))
		}
	}
	return next, nil
}

// checkMerit raises a merit-badge notification once every objective of the
// section catalogue is completed, unless one is still pending for the member.
// Failures are logged: the transition stands.
func (s *objectiveService) checkMerit(ctx context.Context, owner *model.User, section string, catalogSize int) {
	if catalogSize == 0 {
		return
	}
	done, err := s.objectives.CountCompleted(ctx, owner.ID, section)
	if err != nil {
		s.log.Warn("merit check failed", zap.String("member_id", owner.ID), zap.Error(err))
		return
	}
	if done != catalogSize {
		return
	}
	pending, err := s.notifications.HasPending(ctx, owner.ID, model.ActionMeritBadge)
	if err != nil {
		s.log.Warn("merit check failed", zap.String("member_id", owner.ID), zap.Error(err))
		return
	}
	if pending {
		return
	}
	n := &model.Notification{
		ID:          newID("ntf"),
		GroupID:     owner.GroupID,
		SectionID:   owner.SectionID,
		Action:      model.ActionMeritBadge,
		Description: meritDescription,
		MemberName:  owner.Name,
		MemberID:    owner.ID,
		SubunitID:   owner.SubunitID,
		CreatedAt:   s.clock(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Error("merit notification failed", zap.String("member_id", owner.ID), zap.Error(err))
		return
	}
	s.log.Info("merit badge earned", zap.String("member_id", owner.ID), zap.String("section", section))
}

func (s *objectiveService) SetCompletedHolders(ctx context.Context, actor *model.User, objectiveID string, userIDs []string) (*AssignResult, error) {
	if !actor.IsUnitLeader(actor.GroupID, actor.SectionID) {
		return nil, forbidden("only the unit leader assigns objectives")
	}
	section, err := catalogSection(actor)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.ListBySection(ctx, section)
	if err != nil {
		return nil, err
	}
	if !containsObjective(catalog, objectiveID) {
		return nil, lookup("objective", sql.ErrNoRows)
	}

	members, err := s.users.List(ctx, model.UserFilter{GroupID: actor.GroupID, SectionID: actor.SectionID, Kind: model.KindElemento})
	if err != nil {
		return nil, err
	}
	selected := make(map[string]bool)
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	for _, id := range dedupe(userIDs) {
		if !known[id] {
			return nil, invalid("user %q is not a member of the section", id)
		}
		selected[id] = true
	}

	holders, err := s.objectives.ListWithOwner(ctx, model.ObjectiveFilter{
		GroupID:     actor.GroupID,
		SectionID:   actor.SectionID,
		ObjectiveID: objectiveID,
	})
	if err != nil {
		return nil, err
	}
	current := make(map[string]workflow.State, len(holders))
	for _, h := range holders {
		current[h.UserID] = workflow.State(h.State)
	}

	res := &AssignResult{Added: []string{}, Removed: []string{}}
	var added []*model.User
	for i := range members {
		m := &members[i]
		state, has := current[m.ID]
		if !has {
			state = workflow.StateAvailable
		}
		switch {
		case selected[m.ID] && state != workflow.StateCompleted:
			if err := workflow.Allowed(workflow.ActionAssign, state, actor, m); err != nil {
				return nil, err
			}
			res.Added = append(res.Added, m.ID)
			added = append(added, m)
		case !selected[m.ID] && state == workflow.StateCompleted:
			res.Removed = append(res.Removed, m.ID)
		}
	}

	if err := s.objectives.SetHolders(ctx, objectiveID, section, res.Added, res.Removed, s.clock()); err != nil {
		return nil, err
	}
	s.record(string(workflow.ActionAssign), string(workflow.StateCompleted), len(res.Added))
	s.record("unassign", string(workflow.StateAvailable), len(res.Removed))

	for _, m := range added {
		s.checkMerit(ctx, m, section, len(catalog))
	}
	return res, nil
}

func containsObjective(catalog []model.CatalogObjective, id string) bool {
	for _, o := range catalog {
		if o.ID == id {
			return true
		}
	}
	return false
}

// dedupe drops blanks and repeats, keeping the first occurrence order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
