package handler

import (
	"github.com/gofiber/fiber/v2"

	"azimute/internal/service"
	"azimute/internal/workflow"
)

type submitRequest struct {
	ObjectiveIDs []string `json:"objectiveIds" validate:"required,min=1,dive,required"`
}

type decisionRequest struct {
	Action string `json:"action" validate:"required,oneof=validate confirm realize complete reject"`
}

type holdersRequest struct {
	UserIDs []string `json:"userIds" validate:"dive,required"`
}

// GetBoard
//
// @Summary Member objective board
// @Tags objectives
// @Produce json
// @Success 200 {object} service.Board
// @Security BearerAuth
// @Router /api/v1/objectives/board [get]
func GetBoard(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		board, err := svc.Board(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(board)
	}
}

// SubmitObjectives proposes a set of objectives for the acting member.
//
// @Summary Submit objectives
// @Tags objectives
// @Accept json
// @Produce json
// @Param body body submitRequest true "objective ids"
// @Success 201 {object} service.SubmitResult
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/objectives/submissions [post]
func SubmitObjectives(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req submitRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		res, err := svc.Submit(c.UserContext(), actor(c), req.ObjectiveIDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// CancelObjective
//
// @Summary Withdraw a pending proposal
// @Tags objectives
// @Param objectiveId path string true "objective id"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/objectives/{objectiveId} [delete]
func CancelObjective(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Cancel(c.UserContext(), actor(c), c.Params("objectiveId")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GuidePending
//
// @Summary Proposals awaiting the guide
// @Tags objectives
// @Produce json
// @Success 200 {array} model.ObjectiveWithOwner
// @Security BearerAuth
// @Router /api/v1/objectives/pending/guide [get]
func GuidePending(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.GuidePending(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// LeaderPending
//
// @Summary Records awaiting the unit leader
// @Tags objectives
// @Produce json
// @Success 200 {array} model.ObjectiveWithOwner
// @Security BearerAuth
// @Router /api/v1/objectives/pending/leader [get]
func LeaderPending(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.LeaderPending(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// DecideObjective applies a guide or leader decision to a member's record.
//
// @Summary Review decision
// @Tags objectives
// @Accept json
// @Produce json
// @Param ownerId path string true "member id"
// @Param objectiveId path string true "objective id"
// @Param body body decisionRequest true "decision"
// @Success 200 {object} model.MemberObjective
// @Failure 403 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/members/{ownerId}/objectives/{objectiveId}/decision [post]
func DecideObjective(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req decisionRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		action, err := workflow.ParseAction(req.Action)
		if err != nil {
			return writeServiceError(c, err)
		}
		rec, err := svc.Decide(c.UserContext(), actor(c), c.Params("ownerId"), c.Params("objectiveId"), action)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// SetCompletedHolders
//
// @Summary Set the members holding an objective as completed
// @Tags objectives
// @Accept json
// @Produce json
// @Param objectiveId path string true "objective id"
// @Param body body holdersRequest true "member ids"
// @Success 200 {object} service.AssignResult
// @Security BearerAuth
// @Router /api/v1/catalog/{objectiveId}/holders [put]
func SetCompletedHolders(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req holdersRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		res, err := svc.SetCompletedHolders(c.UserContext(), actor(c), c.Params("objectiveId"), req.UserIDs)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SectionStats
//
// @Summary Section progress radar
// @Tags stats
// @Produce json
// @Param section query string false "section document id (defaults to the actor's)"
// @Success 200 {object} service.SectionStats
// @Security BearerAuth
// @Router /api/v1/stats/section [get]
func SectionStats(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.SectionStats(c.UserContext(), actor(c), c.Query("section"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// GroupStats
//
// @Summary Group totals per section and area
// @Tags stats
// @Produce json
// @Success 200 {object} service.GroupStats
// @Security BearerAuth
// @Router /api/v1/stats/group [get]
func GroupStats(svc service.ObjectiveService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.GroupStats(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}
