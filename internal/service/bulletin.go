package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/taxonomy"
)

// Audience tags of the bulletin board.
const (
	TagGeneral      = "GERAL"
	TagLeaders      = "DIRIGENTES_AGRUP"
	TagDirection    = "DIRECAO_AGRUP"
	TagSecretariat  = "SECRETARIA"
	TagAllGuides    = "TODOS_GUIAS"
	suffixGuides    = "_GUIAS"
	suffixLeaders   = "_DIRIGENTES"
	prefixSectionCU = "CHEFIA_"
)

const defaultPostValidity = 60 * 24 * time.Hour

// publishingRoles are the functions a leader can publish as.
var publishingRoles = []string{
	model.RoleSecretarioAgrupamento,
	model.RoleChefeAgrupamento,
	model.RoleChefeUnidade,
}

// PostInput is a new bulletin post. Role is the function the author publishes as.
type PostInput struct {
	Title     string
	Body      string
	Link      string
	Target    string
	Role      string
	ExpiresAt *time.Time
}

// BulletinService runs the group bulletin board.
type BulletinService interface {
	// Destinations lists the tags the actor may address when publishing as role.
	Destinations(actor *model.User, role string) ([]string, error)
	Publish(ctx context.Context, actor *model.User, in PostInput) (*model.Post, error)
	// Feed returns the posts addressed to the actor that are neither expired nor archived.
	Feed(ctx context.Context, actor *model.User) ([]model.Post, error)
	Archive(ctx context.Context, actor *model.User, postID string) error
}

type bulletinService struct {
	posts    repository.PostRepository
	validity time.Duration
	clock    Clock
}

// NewBulletinService constructs a new BulletinService. validity is the lifetime
// of posts published without an expiry; zero means 60 days.
func NewBulletinService(posts repository.PostRepository, validity time.Duration, clock Clock) BulletinService {
	if clock == nil {
		clock = systemClock
	}
	if validity <= 0 {
		validity = defaultPostValidity
	}
	return &bulletinService{posts: posts, validity: validity, clock: clock}
}

func sectionTag(u *model.User) string {
	return strings.ToUpper(strings.TrimSpace(u.SectionID))
}

func chiefTags() []string {
	out := make([]string, 0, 4)
	for _, sec := range taxonomy.Sections() {
		out = append(out, prefixSectionCU+string(sec))
	}
	return out
}

func (s *bulletinService) Destinations(actor *model.User, role string) ([]string, error) {
	if !actor.IsDirigente() || !slices.Contains(publishingRoles, role) || !actor.HasRole(role) {
		return nil, forbidden("cannot publish as %q", role)
	}
	tags := []string{TagDirection}
	switch role {
	case model.RoleSecretarioAgrupamento:
		tags = append(tags, chiefTags()...)
		tags = append(tags, TagGeneral, TagLeaders, TagAllGuides)
	case model.RoleChefeAgrupamento:
		tags = append(tags, TagSecretariat, TagLeaders)
		tags = append(tags, chiefTags()...)
	case model.RoleChefeUnidade:
		sec := sectionTag(actor)
		if sec == "" {
			return nil, invalid("a unit leader needs a section to publish to")
		}
		tags = append(tags, sec, sec+suffixGuides, sec+suffixLeaders)
	}
	return tags, nil
}

// ReaderTags returns the audience tags a user listens to.
func ReaderTags(u *model.User) []string {
	tags := []string{TagGeneral}
	sec := sectionTag(u)
	switch u.Kind {
	case model.KindDirigente:
		tags = append(tags, TagLeaders)
		if slices.ContainsFunc(publishingRoles, u.HasRole) {
			tags = append(tags, TagDirection)
		}
		if u.HasRole(model.RoleSecretarioAgrupamento) {
			tags = append(tags, TagSecretariat)
		}
		if sec == "" {
			break
		}
		tags = append(tags, sec, sec+suffixLeaders)
		if u.HasRole(model.RoleChefeUnidade) {
			tags = append(tags, sec+suffixGuides, TagAllGuides)
			if section, ok := taxonomy.SectionFromDocID(u.SectionID); ok {
				tags = append(tags, prefixSectionCU+string(section))
			}
		}
	case model.KindElemento:
		if sec == "" {
			break
		}
		tags = append(tags, sec)
		if u.IsGuide || u.IsSubGuide {
			tags = append(tags, sec+suffixGuides, TagAllGuides)
		}
	}
	return tags
}

func (s *bulletinService) Publish(ctx context.Context, actor *model.User, in PostInput) (*model.Post, error) {
	allowed, err := s.Destinations(actor, in.Role)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("a title is required")
	}
	target := strings.ToUpper(strings.TrimSpace(in.Target))
	if !slices.Contains(allowed, target) {
		return nil, forbidden("destination %q is not available to %s", in.Target, in.Role)
	}

	now := s.clock()
	expires := now.Add(s.validity)
	if in.ExpiresAt != nil {
		if !in.ExpiresAt.After(now) {
			return nil, invalid("the expiry date must be in the future")
		}
		expires = *in.ExpiresAt
	}

	p := &model.Post{
		ID:         newID("pst"),
		GroupID:    actor.GroupID,
		Title:      title,
		Body:       strings.TrimSpace(in.Body),
		Link:       strings.TrimSpace(in.Link),
		Targets:    []string{target},
		Author:     actor.Name,
		AuthorRole: strings.ReplaceAll(in.Role, "_", " "),
		AuthorID:   actor.ID,
		CreatedAt:  now,
		ExpiresAt:  expires,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *bulletinService) Feed(ctx context.Context, actor *model.User) ([]model.Post, error) {
	return s.posts.Feed(ctx, actor.GroupID, actor.ID, ReaderTags(actor), s.clock())
}

func (s *bulletinService) Archive(ctx context.Context, actor *model.User, postID string) error {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return lookup("post", err)
	}
	if p.GroupID != actor.GroupID {
		return lookup("post", repositoryMiss)
	}
	return s.posts.Archive(ctx, postID, actor.ID, s.clock())
}
