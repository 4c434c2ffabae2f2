package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"azimute/internal/http/middleware"
	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/service"
	serviceMocks "azimute/internal/service/mocks"
	"azimute/internal/workflow"
)

var (
	member = &model.User{ID: "m1", GroupID: "1104_Paranhos", SectionID: "1104expedicao", Kind: model.KindElemento, Active: true}
	chief  = &model.User{ID: "cu1", GroupID: "1104_Paranhos", SectionID: "1104expedicao", Kind: model.KindDirigente, Roles: []string{model.RoleChefeUnidade}, Active: true}
)

// withUser stands in for middleware.Auth.
func withUser(u *model.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalKey, u)
		return c.Next()
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	mockSvc := new(serviceMocks.MockAccountService)
	app := fiber.New()
	app.Post("/login", Login(mockSvc))

	t.Run("success", func(t *testing.T) {
		exp := time.Date(2026, 2, 20, 22, 0, 0, 0, time.UTC)
		mockSvc.On("Login", mock.Anything, "1234567890123", "secret").
			Return(&service.LoginResult{Token: "tok", ExpiresAt: exp, User: member}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", `{"nin":"1234567890123","password":"secret"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res service.LoginResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "tok", res.Token)
		assert.Equal(t, "m1", res.User.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing password", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", `{"nin":"1234567890123"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
		require.Len(t, res.Error.Details, 1)
		assert.Equal(t, fieldError{Field: "password", Rule: "required"}, res.Error.Details[0])
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", `{"nin":`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "1234567890123", "wrong").Return(nil, service.ErrInvalidCredentials).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", `{"nin":"1234567890123","password":"wrong"}`))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("restricted account", func(t *testing.T) {
		mockSvc.On("Login", mock.Anything, "1234567890123", "aux").Return(nil, service.ErrAccountRestricted).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", `{"nin":"1234567890123","password":"aux"}`))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "ACCOUNT_RESTRICTED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestChangePassword(t *testing.T) {
	mockSvc := new(serviceMocks.MockAccountService)
	app := fiber.New()
	app.Post("/me/password", withUser(member), ChangePassword(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("ChangePassword", mock.Anything, member, "old", "newpass", "newpass").Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/me/password",
			`{"currentPassword":"old","newPassword":"newpass","confirmPassword":"newpass"}`))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("short password", func(t *testing.T) {
		mockSvc.On("ChangePassword", mock.Anything, member, "old", "abc", "abc").
			Return(fmt.Errorf("%w: password too short", service.ErrValidation)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/me/password",
			`{"currentPassword":"old","newPassword":"abc","confirmPassword":"abc"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
		assert.Contains(t, res.Error.Message, "password too short")
	})
}

func TestSubmitObjectives(t *testing.T) {
	mockSvc := new(serviceMocks.MockObjectiveService)
	app := fiber.New()
	app.Post("/submissions", withUser(member), SubmitObjectives(mockSvc))

	t.Run("success", func(t *testing.T) {
		ids := []string{"EXPLORADORES_F1", "EXPLORADORES_A2"}
		mockSvc.On("Submit", mock.Anything, member, ids).
			Return(&service.SubmitResult{CycleID: "2025-2026", FirstSubmission: true}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/submissions", `{"objectiveIds":["EXPLORADORES_F1","EXPLORADORES_A2"]}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res service.SubmitResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "2025-2026", res.CycleID)
		assert.True(t, res.FirstSubmission)
		mockSvc.AssertExpectations(t)
	})

	t.Run("empty selection", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/submissions", `{"objectiveIds":[]}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		require.Len(t, res.Error.Details, 1)
		assert.Equal(t, "objectiveIds", res.Error.Details[0].Field)
	})

	t.Run("not selectable", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, member, []string{"EXPLORADORES_F1"}).
			Return(nil, fmt.Errorf("EXPLORADORES_F1: %w", workflow.ErrInvalidTransition)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/submissions", `{"objectiveIds":["EXPLORADORES_F1"]}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_TRANSITION", decodeError(t, resp.Body).Error.Code)
	})
}

func TestDecideObjective(t *testing.T) {
	mockSvc := new(serviceMocks.MockObjectiveService)
	app := fiber.New()
	app.Post("/members/:ownerId/objectives/:objectiveId/decision", withUser(chief), DecideObjective(mockSvc))
	target := "/members/m1/objectives/EXPLORADORES_F1/decision"

	t.Run("confirm", func(t *testing.T) {
		rec := &model.MemberObjective{UserID: "m1", ObjectiveID: "EXPLORADORES_F1", State: string(workflow.StateConfirmed)}
		mockSvc.On("Decide", mock.Anything, chief, "m1", "EXPLORADORES_F1", workflow.ActionConfirm).Return(rec, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, target, `{"action":"confirm"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res model.MemberObjective
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "CONFIRMADO", res.State)
		mockSvc.AssertExpectations(t)
	})

	t.Run("member actions are not decisions", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, target, `{"action":"propose"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		require.Len(t, res.Error.Details, 1)
		assert.Equal(t, "oneof", res.Error.Details[0].Rule)
	})

	t.Run("forbidden", func(t *testing.T) {
		mockSvc.On("Decide", mock.Anything, chief, "m1", "EXPLORADORES_F1", workflow.ActionReject).
			Return(nil, fmt.Errorf("%w: reject by cu1", workflow.ErrForbidden)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, target, `{"action":"reject"}`))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("unknown record", func(t *testing.T) {
		mockSvc.On("Decide", mock.Anything, chief, "m1", "EXPLORADORES_F1", workflow.ActionComplete).
			Return(nil, fmt.Errorf("objective record %w", service.ErrNotFound)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, target, `{"action":"complete"}`))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Decide", mock.Anything, chief, "m1", "EXPLORADORES_F1", workflow.ActionRealize).
			Return(nil, errors.New("connection reset")).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, target, `{"action":"realize"}`))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp.Body)
		assert.Equal(t, "internal server error", res.Error.Message)
	})
}

func TestSetCompletedHolders(t *testing.T) {
	mockSvc := new(serviceMocks.MockObjectiveService)
	app := fiber.New()
	app.Put("/catalog/:objectiveId/holders", withUser(chief), SetCompletedHolders(mockSvc))

	mockSvc.On("SetCompletedHolders", mock.Anything, chief, "EXPLORADORES_F1", []string{"m1"}).
		Return(&service.AssignResult{Added: []string{"m1"}, Removed: []string{"m2"}}, nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/catalog/EXPLORADORES_F1/holders", `{"userIds":["m1"]}`))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var res service.AssignResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, []string{"m2"}, res.Removed)
	mockSvc.AssertExpectations(t)
}

func TestRosterHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockRosterService)
	app := fiber.New()
	app.Post("/subunits", withUser(chief), CreateSubunit(mockSvc))
	app.Patch("/subunits/:id", withUser(chief), SetSubunitActive(mockSvc))
	app.Put("/subunits/:id/leaders/:slot", withUser(chief), SetSubunitLeader(mockSvc))
	app.Patch("/members/:id", withUser(chief), UpdateMember(mockSvc))

	t.Run("create duplicate", func(t *testing.T) {
		mockSvc.On("CreateSubunit", mock.Anything, chief, "Lobo").
			Return(nil, fmt.Errorf("subunit %w", service.ErrConflict)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/subunits", `{"nome":"Lobo"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("deactivate", func(t *testing.T) {
		mockSvc.On("SetSubunitActive", mock.Anything, chief, "lobo", false).Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/subunits/lobo", `{"ativo":false}`))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("status is required", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/subunits/lobo", `{}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("assign guide", func(t *testing.T) {
		mockSvc.On("SetSubunitLeader", mock.Anything, chief, "lobo", repository.SlotGuide, "m1").Return(nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/subunits/lobo/leaders/guide", `{"uid":"m1"}`))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("unknown slot", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/subunits/lobo/leaders/captain", `{"uid":"m1"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SLOT", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("update member stage", func(t *testing.T) {
		stage := "RUMO"
		updated := *member
		updated.Stage = stage
		mockSvc.On("UpdateMember", mock.Anything, chief, "m1", service.MemberUpdate{Stage: &stage}).Return(&updated, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPatch, "/members/m1", `{"etapaProgresso":"RUMO"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res model.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "RUMO", res.Stage)
	})

	mockSvc.AssertExpectations(t)
}

func TestListNotifications(t *testing.T) {
	secretary := &model.User{ID: "sa1", GroupID: "1104_Paranhos", Kind: model.KindDirigente, Roles: []string{model.RoleSecretarioAgrupamento}}
	mockSvc := new(serviceMocks.MockNotificationService)
	app := fiber.New()
	app.Get("/notifications", withUser(secretary), ListNotifications(mockSvc))

	t.Run("defaults", func(t *testing.T) {
		page := &repository.PageResult[model.Notification]{
			Items: []model.Notification{{ID: "ntf_1", Action: model.ActionMeritBadge}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, secretary, service.FilterPending, repository.PageQuery{Limit: 50}).Return(page, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notifications", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res notificationPage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, 1, res.Total)
		assert.Equal(t, 50, res.Limit)
		assert.Len(t, res.Items, 1)
	})

	t.Run("clamped page", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, secretary, service.FilterAll, repository.PageQuery{Limit: 200, Offset: 10}).
			Return(&repository.PageResult[model.Notification]{}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notifications?filter=todas&limit=1000&offset=10", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown filter", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notifications?filter=OUTRAS", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/notifications?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp.Body).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestPublishPost(t *testing.T) {
	mockSvc := new(serviceMocks.MockBulletinService)
	app := fiber.New()
	app.Post("/posts", withUser(chief), PublishPost(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Publish", mock.Anything, chief, mock.MatchedBy(func(in service.PostInput) bool {
			return in.Title == "Acampamento" && in.Target == "1104expedicao_GUIAS" &&
				in.Role == model.RoleChefeUnidade && in.ExpiresAt != nil && in.ExpiresAt.Year() == 2026
		})).Return(&model.Post{ID: "pst_1", Title: "Acampamento"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/posts",
			`{"titulo":"Acampamento","alvo":"1104expedicao_GUIAS","cargo":"CHEFE_UNIDADE","dataFim":"2026-04-01T00:00:00Z"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var res model.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "pst_1", res.ID)
	})

	t.Run("invalid link", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/posts",
			`{"titulo":"Acampamento","alvo":"GERAL","cargo":"CHEFE_UNIDADE","link":"not a url"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp.Body)
		require.Len(t, res.Error.Details, 1)
		assert.Equal(t, fieldError{Field: "link", Rule: "url"}, res.Error.Details[0])
	})

	t.Run("target not allowed", func(t *testing.T) {
		mockSvc.On("Publish", mock.Anything, chief, mock.Anything).
			Return(nil, fmt.Errorf("%w: target SECRETARIA", service.ErrForbidden)).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/posts",
			`{"titulo":"Aviso","alvo":"SECRETARIA","cargo":"CHEFE_UNIDADE"}`))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		part.Write(content)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestImportUsers(t *testing.T) {
	mockSvc := new(serviceMocks.MockImportService)
	app := fiber.New()
	app.Post("/imports/users", ImportUsers(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "roster.xlsx", []byte("xlsx"), map[string]string{"reset": "true"})
		summary := &service.UserImportSummary{ArchiveKey: "imports/users/2026/02/x.xlsx", Created: 3}
		mockSvc.On("ImportUsers", mock.Anything, "roster.xlsx", mock.Anything, service.ImportOptions{Reset: true}).Return(summary, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/imports/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/imports/users", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("invalid reset flag", func(t *testing.T) {
		body, ct := multipartBody(t, "roster.xlsx", []byte("xlsx"), map[string]string{"reset": "maybe"})

		req := httptest.NewRequest(http.MethodPost, "/imports/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_RESET", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("unreadable spreadsheet", func(t *testing.T) {
		body, ct := multipartBody(t, "roster.xlsx", []byte("garbage"), nil)
		mockSvc.On("ImportUsers", mock.Anything, "roster.xlsx", mock.Anything, service.ImportOptions{}).
			Return(nil, fmt.Errorf("%w: missing columns nin", service.ErrValidation)).Once()

		req := httptest.NewRequest(http.MethodPost, "/imports/users", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func newRouter(t *testing.T) (*fiber.App, *serviceMocks.MockAccountService, Services) {
	t.Helper()
	accounts := new(serviceMocks.MockAccountService)
	svc := Services{
		Accounts:      accounts,
		Objectives:    new(serviceMocks.MockObjectiveService),
		Roster:        new(serviceMocks.MockRosterService),
		Catalog:       new(serviceMocks.MockCatalogService),
		Imports:       new(serviceMocks.MockImportService),
		Notifications: new(serviceMocks.MockNotificationService),
		Bulletin:      new(serviceMocks.MockBulletinService),
	}
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, nil, svc)
	return app, accounts, svc
}

func TestRouting(t *testing.T) {
	app, accounts, svc := newRouter(t)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("api requires a token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("login is public", func(t *testing.T) {
		accounts.On("Login", mock.Anything, "1234567890123", "x").Return(nil, service.ErrInvalidCredentials).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"nin":"1234567890123","password":"x"}`))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("forced password change", func(t *testing.T) {
		forced := *member
		forced.ForcePasswordChange = true
		accounts.On("Authenticate", mock.Anything, "forced").Return(&forced, nil).Twice()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
		req.Header.Set("Authorization", "Bearer forced")
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "PASSWORD_CHANGE_REQUIRED", decodeError(t, resp.Body).Error.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer forced")
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var me model.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
		assert.True(t, me.ForcePasswordChange)
	})

	t.Run("imports need the group chief", func(t *testing.T) {
		accounts.On("Authenticate", mock.Anything, "cu").Return(chief, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/archive?key=imports/users/x.xlsx", nil)
		req.Header.Set("Authorization", "Bearer cu")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("archive link", func(t *testing.T) {
		ca := &model.User{ID: "ca1", GroupID: "1104_Paranhos", Kind: model.KindDirigente, Roles: []string{model.RoleChefeAgrupamento}}
		accounts.On("Authenticate", mock.Anything, "ca").Return(ca, nil).Once()
		imports := svc.Imports.(*serviceMocks.MockImportService)
		imports.On("ArchiveURL", mock.Anything, "imports/users/x.xlsx").Return("https://minio/presigned", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/archive?key=imports/users/x.xlsx", nil)
		req.Header.Set("Authorization", "Bearer ca")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "https://minio/presigned", body["url"])
	})

	accounts.AssertExpectations(t)
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "azimute_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	app := fiber.New()
	RegisterMetrics(app, reg)

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "azimute_test_total 1")
}
