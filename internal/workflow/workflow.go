// Package workflow implements the approval pipeline of a member's educational
// objective. It is pure: callers load the record and the actors, ask Apply for the
// next record, and persist the result.
package workflow

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"azimute/internal/model"
)

// State is the lifecycle state of a member objective.
type State string

const (
	StateAvailable State = "DISPONIVEL"
	StateProposed  State = "ESCOLHA"
	StateValidated State = "VALIDADO"
	StateConfirmed State = "CONFIRMADO"
	StateRealized  State = "REALIZADO"
	StateCompleted State = "CONCLUIDO"
	StateRejected  State = "RECUSADO"

	// StateInReview is what a member sees while peers or leaders hold the record.
	StateInReview State = "EM_ANALISE"
)

// Action is a transition request.
type Action string

const (
	ActionPropose  Action = "propose"
	ActionCancel   Action = "cancel"
	ActionValidate Action = "validate"
	ActionConfirm  Action = "confirm"
	ActionRealize  Action = "realize"
	ActionComplete Action = "complete"
	ActionReject   Action = "reject"
	ActionAssign   Action = "assign"
)

var (
	ErrInvalidTransition = errors.New("invalid objective transition")
	ErrForbidden         = errors.New("actor may not perform this transition")
	ErrUnknownAction     = errors.New("unknown objective action")
)

// rule describes one action: the states it leaves from and who may fire it.
type rule struct {
	from      []State
	to        func(owner *model.User) State
	authorize func(actor, owner *model.User) bool
	// fromGuideOwner extends from when the owner leads their sub-unit.
	fromGuideOwner []State
}

func fixed(s State) func(*model.User) State {
	return func(*model.User) State { return s }
}

var rules = map[Action]rule{
	ActionPropose: {
		from: []State{StateAvailable, StateRejected},
		to: func(owner *model.User) State {
			if owner.IsGuideOrSub() {
				return StateValidated
			}
			return StateProposed
		},
		authorize: isOwner,
	},
	ActionCancel: {
		from:      []State{StateProposed},
		to:        fixed(StateAvailable),
		authorize: isOwner,
	},
	ActionValidate: {
		from:      []State{StateProposed},
		to:        fixed(StateValidated),
		authorize: isPeerGuide,
	},
	ActionConfirm: {
		from:           []State{StateValidated},
		fromGuideOwner: []State{StateProposed},
		to:             fixed(StateConfirmed),
		authorize:      isUnitLeader,
	},
	ActionRealize: {
		from: []State{StateConfirmed},
		to:   fixed(StateRealized),
		authorize: func(actor, owner *model.User) bool {
			return isPeerGuide(actor, owner) || isUnitLeader(actor, owner)
		},
	},
	ActionComplete: {
		from:      []State{StateConfirmed, StateRealized},
		to:        fixed(StateCompleted),
		authorize: isUnitLeader,
	},
	ActionReject: {
		from:      []State{StateProposed, StateValidated, StateConfirmed, StateRealized},
		to:        fixed(StateRejected),
		authorize: isUnitLeader,
	},
	ActionAssign: {
		from:      []State{StateAvailable, StateProposed, StateValidated, StateConfirmed, StateRealized, StateRejected},
		to:        fixed(StateCompleted),
		authorize: isUnitLeader,
	},
}

// ParseAction maps a request string to a leader/guide decision.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if _, ok := rules[a]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Target returns the state an action leads to for the given owner, without
// checking preconditions.
func Target(a Action, owner *model.User) (State, error) {
	r, ok := rules[a]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	return r.to(owner), nil
}

// Allowed reports whether actor may fire a on a record in state current owned by owner.
func Allowed(a Action, current State, actor, owner *model.User) error {
	r, ok := rules[a]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, a)
	}
	if actor == nil || owner == nil || actor.GroupID != owner.GroupID || !r.authorize(actor, owner) {
		return fmt.Errorf("%w: %s by %s", ErrForbidden, a, actorLabel(actor))
	}
	from := r.from
	if owner.IsGuideOrSub() {
		from = append(slices.Clone(from), r.fromGuideOwner...)
	}
	if !slices.Contains(from, current) {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, current)
	}
	return nil
}

// Apply validates the transition and returns the updated record. rec may be nil
// for an objective with no record yet (available). For ActionCancel the returned
// record is nil: the caller deletes it.
func Apply(a Action, rec *model.MemberObjective, actor, owner *model.User, now time.Time) (*model.MemberObjective, error) {
	current := StateAvailable
	if rec != nil {
		current = State(rec.State)
	}
	if rec != nil && rec.Blocked && a != ActionAssign {
		return nil, fmt.Errorf("%w: record is blocked", ErrInvalidTransition)
	}
	if err := Allowed(a, current, actor, owner); err != nil {
		return nil, err
	}
	if a == ActionCancel {
		return nil, nil
	}

	next := model.MemberObjective{UserID: owner.ID}
	if rec != nil {
		next = *rec
	}
	to, _ := Target(a, owner)
	next.State = string(to)
	next.UpdatedAt = now
	t := now

	switch a {
	case ActionPropose:
		next.Blocked = false
		next.ChosenAt = &t
		next.SubmittedAt = &t
		next.RejectedAt = nil
		if to == StateValidated {
			next.ValidatedAt = &t
			next.ValidatedBy = ""
		}
	case ActionValidate:
		next.ValidatedAt = &t
		next.ValidatedBy = actor.ID
	case ActionConfirm:
		next.ConfirmedAt = &t
	case ActionRealize:
		next.RealizedAt = &t
	case ActionComplete:
		next.CompletedAt = &t
		next.Blocked = true
	case ActionReject:
		next.RejectedAt = &t
	case ActionAssign:
		next.CompletedAt = &t
		next.Blocked = true
		next.AssignedByLeader = true
	}
	return &next, nil
}

// Visible maps a raw state to what the owning member is shown.
func Visible(s State) State {
	switch s {
	case StateValidated, StateRealized:
		return StateInReview
	case "":
		return StateAvailable
	default:
		return s
	}
}

// Selectable reports whether a member may (re)propose an objective whose record is rec.
func Selectable(rec *model.MemberObjective) bool {
	if rec == nil {
		return true
	}
	return State(rec.State) == StateRejected && !rec.Blocked
}

// Locked reports whether a record is out of the member's hands.
func Locked(rec *model.MemberObjective) bool {
	if rec == nil {
		return false
	}
	switch State(rec.State) {
	case StateValidated, StateRealized, StateConfirmed, StateCompleted:
		return true
	}
	return rec.Blocked
}

// CountsTowardProgress reports whether a record counts in progress statistics:
// anything a peer or leader has accepted.
func CountsTowardProgress(s State) bool {
	switch s {
	case StateValidated, StateConfirmed, StateRealized, StateCompleted:
		return true
	}
	return false
}

// AwaitsLeader reports whether a record sits in the unit leader's queue.
func AwaitsLeader(s State, ownerIsGuideOrSub bool) bool {
	return s == StateValidated || s == StateRealized || (s == StateProposed && ownerIsGuideOrSub)
}

func isOwner(actor, owner *model.User) bool {
	return actor.ID == owner.ID && owner.IsElemento()
}

// isPeerGuide: a guide or sub-guide of the owner's sub-unit acting on someone else's record.
func isPeerGuide(actor, owner *model.User) bool {
	return actor.ID != owner.ID &&
		actor.IsGuideOrSub() &&
		owner.IsElemento() &&
		actor.SectionID == owner.SectionID &&
		actor.SubunitID != "" &&
		actor.SubunitID == owner.SubunitID
}

func isUnitLeader(actor, owner *model.User) bool {
	return owner.IsElemento() && actor.IsUnitLeader(owner.GroupID, owner.SectionID)
}

func actorLabel(u *model.User) string {
	if u == nil {
		return "anonymous"
	}
	return u.ID
}
