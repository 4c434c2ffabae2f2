package handler

import (
	"github.com/gofiber/fiber/v2"

	"azimute/internal/service"
)

type loginRequest struct {
	NIN      string `json:"nin" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type forceChangePasswordRequest struct {
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Login exchanges a NIN and password for a bearer token.
//
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "credentials"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} errorPayload
// @Router /api/v1/auth/login [post]
func Login(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		res, err := svc.Login(c.UserContext(), req.NIN, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// Me returns the authenticated user's profile.
//
// @Summary Current profile
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /api/v1/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(actor(c))
	}
}

// ChangePassword
//
// @Summary Change own password
// @Tags auth
// @Accept json
// @Param body body changePasswordRequest true "passwords"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/me/password [post]
func ChangePassword(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req changePasswordRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if err := svc.ChangePassword(c.UserContext(), actor(c), req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ForceChangePassword completes the password change required after a reset or import.
//
// @Summary Forced password change
// @Tags auth
// @Accept json
// @Param body body forceChangePasswordRequest true "passwords"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/me/password/force [post]
func ForceChangePassword(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req forceChangePasswordRequest
		if ok, err := bindJSON(c, &req); !ok {
			return err
		}
		if err := svc.ForceChangePassword(c.UserContext(), actor(c), req.NewPassword, req.ConfirmPassword); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ResetPassword
//
// @Summary Reset a user's password to the default
// @Tags auth
// @Param id path string true "user id"
// @Success 204
// @Security BearerAuth
// @Router /api/v1/users/{id}/password/reset [post]
func ResetPassword(svc service.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.ResetPassword(c.UserContext(), actor(c), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
