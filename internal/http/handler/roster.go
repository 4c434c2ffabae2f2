package handler

import (
	"github.com/gofiber/fiber/v2"

	"azimute/internal/repository"
	"azimute/internal/service"
)

type createSubunitRequest struct {
	Name string `json:"nome" validate:"required,max=60"`
}

type subunitStatusRequest struct {
	Active *bool `json:"ativo" validate:"required"`
}

type subunitLeaderRequest struct {
	MemberID string `json:"uid"`
}

type memberUpdateRequest struct {
	SubunitID *string `json:"patrulhaId"`
	Stage     *string `json:"etapaProgresso"`
	Totem     *string `json:"totem" validate:"omitempty,max=80"`
}

type leaderUpdateRequest struct {
	Totem     *string  `json:"totem" validate:"omitempty,max=80"`
	SectionID *string  `json:"secaoDocId"`
	Roles     []string `json:"funcoes" validate:"omitempty,dive,required"`
}

// ListSubunits
//
// @Summary Sub-units of a section
// @Tags roster
// @Produce json
// @Param section query string false "section document id (defaults to the actor's)"
// @Success 200 {array} model.Subunit
// @Security BearerAuth
// @Router /api/v1/subunits [get]
func ListSubunits(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListSubunits(c.UserContext(), actor(c), c.Query("section"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// CreateSubunit
//
// @Summary Create a sub-unit in the leader's section
// @Tags roster
// @Accept json
// @Produce json
// @Param body body createSubunitRequest true "sub-unit"
// @Success 201 {object} model.Subunit
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/subunits [post]
func CreateSubunit(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSubunitRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		su, err := svc.CreateSubunit(c.UserContext(), actor(c), req.Name)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(su)
	}
}

// SetSubunitActive activates or deactivates a sub-unit.
//
// @Summary Activate or deactivate a sub-unit
// @Tags roster
// @Accept json
// @Param id path string true "sub-unit id"
// @Param body body subunitStatusRequest true "status"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/subunits/{id} [patch]
func SetSubunitActive(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req subunitStatusRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if err := svc.SetSubunitActive(c.UserContext(), actor(c), c.Params("id"), *req.Active); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetSubunitLeader fills or clears the guide or sub-guide slot of a sub-unit.
//
// @Summary Assign guide or sub-guide
// @Tags roster
// @Accept json
// @Param id path string true "sub-unit id"
// @Param slot path string true "guide or subguide"
// @Param body body subunitLeaderRequest true "member id, empty to clear"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/subunits/{id}/leaders/{slot} [put]
func SetSubunitLeader(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slot := repository.LeaderSlot(c.Params("slot"))
		if slot != repository.SlotGuide && slot != repository.SlotSubGuide {
			return writeError(c, fiber.StatusBadRequest, "INVALID_SLOT", "slot must be guide or subguide")
		}
		var req subunitLeaderRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if err := svc.SetSubunitLeader(c.UserContext(), actor(c), c.Params("id"), slot, req.MemberID); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListMembers
//
// @Summary Members visible to the actor
// @Tags roster
// @Produce json
// @Success 200 {array} model.User
// @Security BearerAuth
// @Router /api/v1/members [get]
func ListMembers(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListMembers(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// UpdateMember
//
// @Summary Change a member's sub-unit, stage or totem
// @Tags roster
// @Accept json
// @Produce json
// @Param id path string true "member id"
// @Param body body memberUpdateRequest true "fields to change"
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /api/v1/members/{id} [patch]
func UpdateMember(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req memberUpdateRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		u, err := svc.UpdateMember(c.UserContext(), actor(c), c.Params("id"), service.MemberUpdate{
			SubunitID: req.SubunitID,
			Stage:     req.Stage,
			Totem:     req.Totem,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// ListLeaders
//
// @Summary Leaders of the group
// @Tags roster
// @Produce json
// @Success 200 {array} model.User
// @Security BearerAuth
// @Router /api/v1/leaders [get]
func ListLeaders(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListLeaders(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// UpdateLeader
//
// @Summary Change a leader's totem, section or functions
// @Tags roster
// @Accept json
// @Produce json
// @Param id path string true "leader id"
// @Param body body leaderUpdateRequest true "fields to change"
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /api/v1/leaders/{id} [patch]
func UpdateLeader(svc service.RosterService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req leaderUpdateRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		u, err := svc.UpdateLeader(c.UserContext(), actor(c), c.Params("id"), service.LeaderUpdate{
			Totem:     req.Totem,
			SectionID: req.SectionID,
			Roles:     req.Roles,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}
