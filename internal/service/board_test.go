package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"azimute/internal/model"
	"azimute/internal/repository"
	repoMocks "azimute/internal/repository/mocks"
)

func TestParseNotificationFilter(t *testing.T) {
	f, err := ParseNotificationFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterPending, f)

	f, err = ParseNotificationFilter("todas")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseNotificationFilter("ARQUIVADAS")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	sa := testLeader("sa1", model.RoleSecretarioAgrupamento)
	page := &repository.PageResult[model.Notification]{Items: []model.Notification{{ID: "ntf_1"}}, Total: 1}

	tests := []struct {
		name   string
		filter NotificationFilter
		match  func(q repository.NotificationQuery) bool
	}{
		{"pending", FilterPending, func(q repository.NotificationQuery) bool { return q.Resolved != nil && !*q.Resolved }},
		{"resolved", FilterResolved, func(q repository.NotificationQuery) bool { return q.Resolved != nil && *q.Resolved }},
		{"all", FilterAll, func(q repository.NotificationQuery) bool { return q.Resolved == nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockNotificationRepository)
			mRepo.On("List", ctx, mock.MatchedBy(func(q repository.NotificationQuery) bool {
				return q.GroupID == testGroup && q.Page.Limit == defaultPageSize && tt.match(q)
			})).Return(page, nil)
			svc := NewNotificationService(mRepo, nil)

			got, err := svc.List(ctx, sa, tt.filter, repository.PageQuery{Offset: -3})
			require.NoError(t, err)
			assert.Equal(t, 1, got.Total)
			mRepo.AssertExpectations(t)
		})
	}

	t.Run("unit leader is refused", func(t *testing.T) {
		svc := NewNotificationService(new(repoMocks.MockNotificationRepository), nil)
		_, err := svc.List(ctx, testLeader("cu1", model.RoleChefeUnidade), FilterAll, repository.PageQuery{})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestNotificationService_Resolve(t *testing.T) {
	ctx := context.Background()
	sa := testLeader("sa1", model.RoleSecretarioAgrupamento)
	clock := func() time.Time { return testNow }

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockNotificationRepository)
		mRepo.On("FindByID", ctx, "ntf_1").Return(&model.Notification{ID: "ntf_1", GroupID: testGroup}, nil)
		mRepo.On("Resolve", ctx, "ntf_1", "sa1", testNow).Return(nil)
		svc := NewNotificationService(mRepo, clock)

		n, err := svc.Resolve(ctx, sa, "ntf_1")
		require.NoError(t, err)
		assert.True(t, n.Resolved)
		assert.Equal(t, "sa1", n.ResolvedBy)
		mRepo.AssertExpectations(t)
	})

	t.Run("already resolved", func(t *testing.T) {
		mRepo := new(repoMocks.MockNotificationRepository)
		mRepo.On("FindByID", ctx, "ntf_1").Return(&model.Notification{ID: "ntf_1", GroupID: testGroup, Resolved: true, ResolvedBy: "sa0"}, nil)
		svc := NewNotificationService(mRepo, clock)

		n, err := svc.Resolve(ctx, sa, "ntf_1")
		require.NoError(t, err)
		assert.Equal(t, "sa0", n.ResolvedBy)
		mRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("other group", func(t *testing.T) {
		mRepo := new(repoMocks.MockNotificationRepository)
		mRepo.On("FindByID", ctx, "ntf_1").Return(&model.Notification{ID: "ntf_1", GroupID: "outro"}, nil)
		svc := NewNotificationService(mRepo, clock)

		_, err := svc.Resolve(ctx, sa, "ntf_1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		mRepo := new(repoMocks.MockNotificationRepository)
		mRepo.On("FindByID", ctx, "nope").Return(nil, sql.ErrNoRows)
		svc := NewNotificationService(mRepo, clock)

		_, err := svc.Resolve(ctx, sa, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBulletinService_Destinations(t *testing.T) {
	svc := NewBulletinService(new(repoMocks.MockPostRepository), 0, nil)

	sa := testLeader("sa1", model.RoleSecretarioAgrupamento)
	tags, err := svc.Destinations(sa, model.RoleSecretarioAgrupamento)
	require.NoError(t, err)
	assert.Equal(t, []string{"DIRECAO_AGRUP", "CHEFIA_LOBITOS", "CHEFIA_EXPLORADORES", "CHEFIA_PIONEIROS", "CHEFIA_CAMINHEIROS", "GERAL", "DIRIGENTES_AGRUP", "TODOS_GUIAS"}, tags)

	ca := testLeader("ca1", model.RoleChefeAgrupamento)
	tags, err = svc.Destinations(ca, model.RoleChefeAgrupamento)
	require.NoError(t, err)
	assert.Equal(t, []string{"DIRECAO_AGRUP", "SECRETARIA", "DIRIGENTES_AGRUP", "CHEFIA_LOBITOS", "CHEFIA_EXPLORADORES", "CHEFIA_PIONEIROS", "CHEFIA_CAMINHEIROS"}, tags)

	cu := testLeader("cu1", model.RoleChefeUnidade)
	tags, err = svc.Destinations(cu, model.RoleChefeUnidade)
	require.NoError(t, err)
	assert.Equal(t, []string{"DIRECAO_AGRUP", "1104EXPEDICAO", "1104EXPEDICAO_GUIAS", "1104EXPEDICAO_DIRIGENTES"}, tags)

	_, err = svc.Destinations(cu, model.RoleSecretarioAgrupamento)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Destinations(testMember("m1", "lobo"), model.RoleChefeUnidade)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReaderTags(t *testing.T) {
	guide := testMember("g1", "lobo")
	guide.IsSubGuide = true
	noSection := testMember("m2", "")
	noSection.SectionID = ""

	tests := []struct {
		name string
		user *model.User
		want []string
	}{
		{"member", testMember("m1", "lobo"), []string{"GERAL", "1104EXPEDICAO"}},
		{"guide", guide, []string{"GERAL", "1104EXPEDICAO", "1104EXPEDICAO_GUIAS", "TODOS_GUIAS"}},
		{"member without section", noSection, []string{"GERAL"}},
		{"plain leader", testLeader("d1", model.RoleChefeUnidadeAdjunto), []string{"GERAL", "DIRIGENTES_AGRUP", "1104EXPEDICAO", "1104EXPEDICAO_DIRIGENTES"}},
		{"leader without functions", testLeader("d2"), []string{"GERAL", "DIRIGENTES_AGRUP", "1104EXPEDICAO", "1104EXPEDICAO_DIRIGENTES"}},
		{"unit leader", testLeader("cu1", model.RoleChefeUnidade), []string{
			"GERAL", "DIRIGENTES_AGRUP", "DIRECAO_AGRUP", "1104EXPEDICAO", "1104EXPEDICAO_DIRIGENTES",
			"1104EXPEDICAO_GUIAS", "TODOS_GUIAS", "CHEFIA_EXPLORADORES",
		}},
		{"secretary", testLeader("sa1", model.RoleSecretarioAgrupamento), []string{
			"GERAL", "DIRIGENTES_AGRUP", "DIRECAO_AGRUP", "SECRETARIA", "1104EXPEDICAO", "1104EXPEDICAO_DIRIGENTES",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReaderTags(tt.user))
		})
	}
}

func TestBulletinService_Publish(t *testing.T) {
	ctx := context.Background()
	cu := testLeader("cu1", model.RoleChefeUnidade)
	cu.Name = "Chefe Rita"
	clock := func() time.Time { return testNow }

	t.Run("default expiry and uppercase target", func(t *testing.T) {
		mRepo := new(repoMocks.MockPostRepository)
		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Post) bool {
			return p.Targets[0] == "1104EXPEDICAO_GUIAS" &&
				p.AuthorRole == "CHEFE UNIDADE" &&
				p.ExpiresAt.Equal(testNow.Add(60*24*time.Hour)) &&
				p.GroupID == testGroup
		})).Return(nil)
		svc := NewBulletinService(mRepo, 0, clock)

		p, err := svc.Publish(ctx, cu, PostInput{Title: " Acampamento ", Body: "Levar saco-cama", Target: "1104expedicao_guias", Role: model.RoleChefeUnidade})
		require.NoError(t, err)
		assert.Equal(t, "Acampamento", p.Title)
		assert.Equal(t, "Chefe Rita", p.Author)
		mRepo.AssertExpectations(t)
	})

	t.Run("explicit expiry", func(t *testing.T) {
		mRepo := new(repoMocks.MockPostRepository)
		until := testNow.Add(72 * time.Hour)
		mRepo.On("Create", ctx, mock.MatchedBy(func(p *model.Post) bool { return p.ExpiresAt.Equal(until) })).Return(nil)
		svc := NewBulletinService(mRepo, 0, clock)

		_, err := svc.Publish(ctx, cu, PostInput{Title: "Reunião", Target: "DIRECAO_AGRUP", Role: model.RoleChefeUnidade, ExpiresAt: &until})
		require.NoError(t, err)
	})

	t.Run("target outside the role", func(t *testing.T) {
		svc := NewBulletinService(new(repoMocks.MockPostRepository), 0, clock)
		_, err := svc.Publish(ctx, cu, PostInput{Title: "x", Target: "GERAL", Role: model.RoleChefeUnidade})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("expiry in the past", func(t *testing.T) {
		svc := NewBulletinService(new(repoMocks.MockPostRepository), 0, clock)
		past := testNow.Add(-time.Hour)
		_, err := svc.Publish(ctx, cu, PostInput{Title: "x", Target: "DIRECAO_AGRUP", Role: model.RoleChefeUnidade, ExpiresAt: &past})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing title", func(t *testing.T) {
		svc := NewBulletinService(new(repoMocks.MockPostRepository), 0, clock)
		_, err := svc.Publish(ctx, cu, PostInput{Target: "DIRECAO_AGRUP", Role: model.RoleChefeUnidade})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestBulletinService_FeedAndArchive(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return testNow }
	m := testMember("m1", "lobo")

	mRepo := new(repoMocks.MockPostRepository)
	mRepo.On("Feed", ctx, testGroup, "m1", []string{"GERAL", "1104EXPEDICAO"}, testNow).Return([]model.Post{{ID: "pst_1"}}, nil)
	mRepo.On("FindByID", ctx, "pst_1").Return(&model.Post{ID: "pst_1", GroupID: testGroup}, nil)
	mRepo.On("FindByID", ctx, "pst_2").Return(&model.Post{ID: "pst_2", GroupID: "outro"}, nil)
	mRepo.On("Archive", ctx, "pst_1", "m1", testNow).Return(nil)
	svc := NewBulletinService(mRepo, 0, clock)

	feed, err := svc.Feed(ctx, m)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	require.NoError(t, svc.Archive(ctx, m, "pst_1"))
	assert.ErrorIs(t, svc.Archive(ctx, m, "pst_2"), ErrNotFound)
	mRepo.AssertExpectations(t)
}
