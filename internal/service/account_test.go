package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"azimute/internal/auth"
	"azimute/internal/config"
	"azimute/internal/model"
	repoMocks "azimute/internal/repository/mocks"
)

func mustHash(t *testing.T, pwd string) []byte {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func newTestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tk, err := auth.NewTokens(config.AuthConfig{Secret: "test-secret", Issuer: "azimute", TokenTTL: time.Hour})
	require.NoError(t, err)
	return tk
}

func TestAccountService_Login(t *testing.T) {
	ctx := context.Background()
	hash := mustHash(t, "segredo1")

	tests := []struct {
		name       string
		nin        string
		password   string
		setupMocks func(m *repoMocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "happy path",
			nin:      " 1234567890123 ",
			password: "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(&model.User{ID: "u1", GroupID: testGroup, Kind: model.KindElemento, Active: true, PasswordHash: hash}, nil)
			},
		},
		{
			name:       "malformed NIN",
			nin:        "12345",
			password:   "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:     "unknown user",
			nin:      "1234567890123",
			password: "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			nin:      "1234567890123",
			password: "outra",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(&model.User{ID: "u1", Active: true, PasswordHash: hash}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "inactive account",
			nin:      "1234567890123",
			password: "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(&model.User{ID: "u1", Active: false, PasswordHash: hash}, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "auxiliary leader",
			nin:      "1234567890123",
			password: "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(&model.User{ID: "u1", Kind: model.KindDirigente, Roles: []string{model.RoleAuxiliar}, Active: true, PasswordHash: hash}, nil)
			},
			wantErr: ErrAccountRestricted,
		},
		{
			name:     "repository failure",
			nin:      "1234567890123",
			password: "segredo1",
			setupMocks: func(m *repoMocks.MockUserRepository) {
				m.On("FindByNIN", ctx, "1234567890123").Return(nil, errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockUserRepository)
			tt.setupMocks(mRepo)
			svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{ResetPassword: "Reset2026"})

			res, err := svc.Login(ctx, tt.nin, tt.password)
			switch {
			case tt.name == "repository failure":
				assert.EqualError(t, err, "db down")
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, res.Token)
				assert.Equal(t, "u1", res.User.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	ctx := context.Background()
	tokens := newTestTokens(t)
	mRepo := new(repoMocks.MockUserRepository)
	svc := NewAccountService(mRepo, tokens, AccountOptions{})

	raw, _, err := tokens.Issue("u1", testGroup, string(model.KindElemento))
	require.NoError(t, err)
	mRepo.On("FindByID", ctx, "u1").Return(&model.User{ID: "u1", Active: true}, nil)

	u, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	other, _, err := tokens.Issue("gone", testGroup, string(model.KindElemento))
	require.NoError(t, err)
	mRepo.On("FindByID", ctx, "gone").Return(nil, sql.ErrNoRows)
	_, err = svc.Authenticate(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAccountService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	actor := &model.User{ID: "u1", PasswordHash: mustHash(t, "antiga1")}

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("SetPassword", ctx, "u1", mock.MatchedBy(func(h []byte) bool {
			return bcrypt.CompareHashAndPassword(h, []byte("novinha")) == nil
		}), false, now).Return(nil)
		svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{Clock: func() time.Time { return now }})

		require.NoError(t, svc.ChangePassword(ctx, actor, "antiga1", "novinha", "novinha"))
		mRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc := NewAccountService(new(repoMocks.MockUserRepository), newTestTokens(t), AccountOptions{})
		err := svc.ChangePassword(ctx, actor, "errada", "novinha", "novinha")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		svc := NewAccountService(new(repoMocks.MockUserRepository), newTestTokens(t), AccountOptions{})
		err := svc.ChangePassword(ctx, actor, "antiga1", "novinha", "novinho")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("forced change requires the flag", func(t *testing.T) {
		svc := NewAccountService(new(repoMocks.MockUserRepository), newTestTokens(t), AccountOptions{})
		err := svc.ForceChangePassword(ctx, actor, "novinha", "novinha")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("forced change clears the flag", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("SetPassword", ctx, "u1", mock.Anything, false, now).Return(nil)
		svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{Clock: func() time.Time { return now }})

		flagged := &model.User{ID: "u1", ForcePasswordChange: true}
		require.NoError(t, svc.ForceChangePassword(ctx, flagged, "novinha", "novinha"))
		mRepo.AssertExpectations(t)
	})
}

func TestAccountService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	secretary := testLeader("sa1", model.RoleSecretarioAgrupamento)
	cu := testLeader("cu1", model.RoleChefeUnidade)
	otherCU := testLeader("cu2", model.RoleChefeUnidade)
	otherCU.SectionID = "1104alcateia"

	tests := []struct {
		name    string
		actor   *model.User
		target  *model.User
		wantErr error
	}{
		{"secretary resets a leader", secretary, testLeader("d1", model.RoleChefeUnidadeAdjunto), nil},
		{"unit leader resets a member", cu, testMember("m1", "lobo"), nil},
		{"unit leader cannot reset a leader", cu, testLeader("d1"), ErrForbidden},
		{"secretary cannot reset a member", secretary, testMember("m1", "lobo"), ErrForbidden},
		{"unit leader of another section", otherCU, testMember("m1", "lobo"), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockUserRepository)
			mRepo.On("FindByID", ctx, tt.target.ID).Return(tt.target, nil)
			if tt.wantErr == nil {
				mRepo.On("SetPassword", ctx, tt.target.ID, mock.MatchedBy(func(h []byte) bool {
					return bcrypt.CompareHashAndPassword(h, []byte("Reset2026")) == nil
				}), true, mock.Anything).Return(nil)
			}
			svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{ResetPassword: "Reset2026"})

			err := svc.ResetPassword(ctx, tt.actor, tt.target.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				mRepo.AssertNotCalled(t, "SetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			mRepo.AssertExpectations(t)
		})
	}

	t.Run("unknown target", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)
		svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{})
		assert.ErrorIs(t, svc.ResetPassword(ctx, secretary, "ghost"), ErrNotFound)
	})
}

func TestAccountService_ResetPasswordByNIN(t *testing.T) {
	ctx := context.Background()

	t.Run("resets and flags", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByNIN", ctx, "1234567890123").Return(testMember("m1", "lobo"), nil)
		mRepo.On("SetPassword", ctx, "m1", mock.MatchedBy(func(h []byte) bool {
			return bcrypt.CompareHashAndPassword(h, []byte("Reset2026")) == nil
		}), true, mock.Anything).Return(nil)
		svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{ResetPassword: "Reset2026"})

		u, err := svc.ResetPasswordByNIN(ctx, "1234 5678 90123")
		require.NoError(t, err)
		assert.True(t, u.ForcePasswordChange)
		mRepo.AssertExpectations(t)
	})

	t.Run("malformed NIN", func(t *testing.T) {
		svc := NewAccountService(new(repoMocks.MockUserRepository), newTestTokens(t), AccountOptions{})
		_, err := svc.ResetPasswordByNIN(ctx, "42")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown NIN", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		mRepo.On("FindByNIN", ctx, "1234567890123").Return(nil, sql.ErrNoRows)
		svc := NewAccountService(mRepo, newTestTokens(t), AccountOptions{})
		_, err := svc.ResetPasswordByNIN(ctx, "1234567890123")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
