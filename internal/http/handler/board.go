package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/service"
)

type notificationPage struct {
	Items  []model.Notification `json:"items"`
	Total  int                  `json:"total"`
	Limit  int                  `json:"limit"`
	Offset int                  `json:"offset"`
}

type publishRequest struct {
	Title     string     `json:"titulo" validate:"required,max=200"`
	Body      string     `json:"descricao" validate:"max=5000"`
	Link      string     `json:"link" validate:"omitempty,url"`
	Target    string     `json:"alvo" validate:"required"`
	Role      string     `json:"cargo" validate:"required"`
	ExpiresAt *time.Time `json:"dataFim"`
}

// ListNotifications
//
// @Summary Secretary notifications, newest first
// @Tags notifications
// @Produce json
// @Param filter query string false "PENDENTES, RESOLVIDAS or TODAS"
// @Param limit query int false "page size"
// @Param offset query int false "offset"
// @Success 200 {object} notificationPage
// @Security BearerAuth
// @Router /api/v1/notifications [get]
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, err := service.ParseNotificationFilter(c.Query("filter"))
		if err != nil {
			return writeServiceError(c, err)
		}
		limit, ok := queryInt(c, "limit", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		page := service.NormalizePage(repository.PageQuery{Limit: limit, Offset: offset})
		res, err := svc.List(c.UserContext(), actor(c), filter, page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(notificationPage{Items: res.Items, Total: res.Total, Limit: page.Limit, Offset: page.Offset})
	}
}

// ResolveNotification
//
// @Summary Mark a notification as resolved
// @Tags notifications
// @Produce json
// @Param id path string true "notification id"
// @Success 200 {object} model.Notification
// @Security BearerAuth
// @Router /api/v1/notifications/{id}/resolve [post]
func ResolveNotification(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.Resolve(c.UserContext(), actor(c), c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(n)
	}
}

// PostDestinations lists the tags the actor may publish to as a role.
//
// @Summary Allowed bulletin destinations
// @Tags bulletin
// @Produce json
// @Param role query string true "publishing function"
// @Success 200 {object} map[string][]string
// @Security BearerAuth
// @Router /api/v1/posts/destinations [get]
func PostDestinations(svc service.BulletinService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tags, err := svc.Destinations(actor(c), c.Query("role"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": tags})
	}
}

// PublishPost
//
// @Summary Publish a bulletin post
// @Tags bulletin
// @Accept json
// @Produce json
// @Param body body publishRequest true "post"
// @Success 201 {object} model.Post
// @Failure 403 {object} errorPayload
// @Security BearerAuth
// @Router /api/v1/posts [post]
func PublishPost(svc service.BulletinService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req publishRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		p, err := svc.Publish(c.UserContext(), actor(c), service.PostInput{
			Title:     req.Title,
			Body:      req.Body,
			Link:      req.Link,
			Target:    req.Target,
			Role:      req.Role,
			ExpiresAt: req.ExpiresAt,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PostFeed
//
// @Summary Posts addressed to the actor
// @Tags bulletin
// @Produce json
// @Success 200 {array} model.Post
// @Security BearerAuth
// @Router /api/v1/posts [get]
func PostFeed(svc service.BulletinService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Feed(c.UserContext(), actor(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"items": items})
	}
}

// ArchivePost hides a post from the actor's feed.
//
// @Summary Archive a post for the reader
// @Tags bulletin
// @Param id path string true "post id"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/posts/{id}/archive [post]
func ArchivePost(svc service.BulletinService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Archive(c.UserContext(), actor(c), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
