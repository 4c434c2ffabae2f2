package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"azimute/internal/auth"
	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/spreadsheet"
	"azimute/internal/storage"
	"azimute/internal/taxonomy"
)

// Roster spreadsheet columns.
const (
	colNIN        = "nin"
	colName       = "nome"
	colGroup      = "agrupamentoId"
	colSectionDoc = "secaoDocId"
	colKind       = "tipo"
	colSubunit    = "patrulhaId"
	colStage      = "etapaProgresso"
	colGuide      = "isGuia"
	colSubGuide   = "isSubGuia"
	colRoles      = "funcoes"
)

// archiveURLExpiry bounds the lifetime of a presigned archive link.
const archiveURLExpiry = 15 * time.Minute

// ImportOptions tunes a roster import.
type ImportOptions struct {
	// Reset deletes every account of the configured e-mail domain first.
	Reset bool
}

// RowError is a spreadsheet row the import could not apply.
type RowError struct {
	Line    int    `json:"linha"`
	NIN     string `json:"nin,omitempty"`
	Message string `json:"erro"`
}

// UserImportSummary reports what a roster import wrote.
type UserImportSummary struct {
	ArchiveKey string     `json:"arquivo"`
	Deleted    int64      `json:"removidos"`
	Created    int        `json:"criados"`
	Updated    int        `json:"atualizados"`
	Subunits   int        `json:"subunidades"`
	Errors     []RowError `json:"erros"`
}

// ImportService loads spreadsheets. Every file is archived in object storage
// before it is parsed; an unreadable file is removed from the archive again.
type ImportService interface {
	ImportUsers(ctx context.Context, filename string, r io.Reader, opts ImportOptions) (*UserImportSummary, error)
	ImportCatalog(ctx context.Context, filename string, r io.Reader) (*CatalogImportSummary, error)
	// ArchiveURL presigns a download link for an archived import file.
	ArchiveURL(ctx context.Context, key string) (string, error)
	// OpenArchive streams an archived import file.
	OpenArchive(ctx context.Context, key string) (io.ReadCloser, error)
}

// ImportDeps wires the import service.
type ImportDeps struct {
	Users          repository.UserRepository
	Subunits       repository.SubunitRepository
	Catalog        CatalogService
	Storage        storage.Storage
	EmailDomain    string
	ImportPassword string
	Logger         *zap.Logger
	Clock          Clock
}

type importService struct {
	users          repository.UserRepository
	subunits       repository.SubunitRepository
	catalog        CatalogService
	store          storage.Storage
	emailDomain    string
	importPassword string
	log            *zap.Logger
	clock          Clock
}

// NewImportService constructs a new ImportService.
func NewImportService(d ImportDeps) ImportService {
	if d.Clock == nil {
		d.Clock = systemClock
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &importService{
		users:          d.Users,
		subunits:       d.Subunits,
		catalog:        d.Catalog,
		store:          d.Storage,
		emailDomain:    d.EmailDomain,
		importPassword: d.ImportPassword,
		log:            d.Logger.With(zap.String("component", "import")),
		clock:          d.Clock,
	}
}

// archive uploads the file and returns its key and content.
func (s *importService) archive(ctx context.Context, kind, filename string, r io.Reader) (string, []byte, error) {
	if r == nil {
		return "", nil, invalid("no file uploaded")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", nil, invalid("uploaded file is empty")
	}

	key := storage.ImportKey(kind, filename, s.clock())
	_, err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: storage.XLSXContentType,
		Metadata:    map[string]string{"original-filename": filename},
	})
	if err != nil {
		return "", nil, fmt.Errorf("archive upload: %w", err)
	}
	s.log.Info("import archived", zap.String("key", key), zap.Int("bytes", len(data)))
	return key, data, nil
}

// open parses an archived file. When the content is not a usable spreadsheet
// the archive entry is deleted.
func (s *importService) open(ctx context.Context, key string, data []byte, cols ...string) (*spreadsheet.Sheet, error) {
	sheet, err := spreadsheet.Read(bytes.NewReader(data))
	if err == nil {
		err = sheet.RequireColumns(cols...)
	}
	if err == nil {
		return sheet, nil
	}
	if derr := s.store.Delete(ctx, key); derr != nil {
		return nil, fmt.Errorf("rollback archive failed: %w", derr)
	}
	return nil, invalid("%v", err)
}

func (s *importService) ImportCatalog(ctx context.Context, filename string, r io.Reader) (*CatalogImportSummary, error) {
	key, data, err := s.archive(ctx, storage.KindCatalog, filename, r)
	if err != nil {
		return nil, err
	}
	sheet, err := s.open(ctx, key, data, colSection, colArea, colTrail, colOpportunity)
	if err != nil {
		return nil, err
	}
	sum, err := s.catalog.Import(ctx, sheet)
	if err != nil {
		return nil, err
	}
	sum.ArchiveKey = key
	return sum, nil
}

func (s *importService) ImportUsers(ctx context.Context, filename string, r io.Reader, opts ImportOptions) (*UserImportSummary, error) {
	if s.importPassword == "" {
		return nil, errors.New("import password is not configured")
	}
	key, data, err := s.archive(ctx, storage.KindUsers, filename, r)
	if err != nil {
		return nil, err
	}
	sheet, err := s.open(ctx, key, data, colNIN, colName, colGroup, colSectionDoc, colKind)
	if err != nil {
		return nil, err
	}

	sum := &UserImportSummary{ArchiveKey: key, Errors: []RowError{}}
	if opts.Reset {
		n, err := s.users.DeleteByEmailSuffix(ctx, s.emailDomain)
		if err != nil {
			return nil, fmt.Errorf("reset users: %w", err)
		}
		sum.Deleted = n
		s.log.Warn("users reset before import", zap.Int64("deleted", n))
	}

	hash, err := auth.HashPassword(s.importPassword)
	if err != nil {
		return nil, fmt.Errorf("hash import password: %w", err)
	}

	now := s.clock()
	sections := map[string]bool{}
	subunits := map[model.SubunitRef]*model.Subunit{}
	for _, row := range sheet.Rows {
		u, err := s.parseUserRow(row, now)
		if err != nil {
			sum.Errors = append(sum.Errors, RowError{Line: row.Line, NIN: row.Get(colNIN), Message: err.Error()})
			continue
		}

		secKey := u.GroupID + "/" + u.SectionID
		if !sections[secKey] {
			if err := s.subunits.EnsureSection(ctx, u.GroupID, u.SectionID); err != nil {
				sum.Errors = append(sum.Errors, RowError{Line: row.Line, NIN: u.NIN, Message: err.Error()})
				continue
			}
			sections[secKey] = true
			if taxonomy.IsLobitos(u.SectionID) {
				for _, band := range taxonomy.LobitosBands {
					ref := model.SubunitRef{GroupID: u.GroupID, SectionID: u.SectionID, ID: band}
					subunits[ref] = newImportedSubunit(ref, band, now)
				}
			}
		}
		// pack bands are fixed; only other sections take their sub-units from the sheet
		if u.IsElemento() && u.SubunitID != "" && !taxonomy.IsLobitos(u.SectionID) {
			ref := model.SubunitRef{GroupID: u.GroupID, SectionID: u.SectionID, ID: u.SubunitID}
			if subunits[ref] == nil {
				subunits[ref] = newImportedSubunit(ref, row.Get(colSubunit), now)
			}
		}

		u.PasswordHash = hash
		created, err := s.users.UpsertByNIN(ctx, u)
		if err != nil {
			sum.Errors = append(sum.Errors, RowError{Line: row.Line, NIN: u.NIN, Message: lookup("user", err).Error()})
			continue
		}
		if created {
			sum.Created++
		} else {
			sum.Updated++
		}
		if u.IsGuide && u.SubunitID != "" {
			if su := subunits[model.SubunitRef{GroupID: u.GroupID, SectionID: u.SectionID, ID: u.SubunitID}]; su != nil {
				su.GuideUID = u.ID
			}
		}
	}

	refs := make([]model.SubunitRef, 0, len(subunits))
	for ref := range subunits {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i], refs[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		if a.SectionID != b.SectionID {
			return a.SectionID < b.SectionID
		}
		return a.ID < b.ID
	})
	for _, ref := range refs {
		if err := s.subunits.Upsert(ctx, subunits[ref]); err != nil {
			sum.Errors = append(sum.Errors, RowError{Message: fmt.Sprintf("sub-unit %s/%s: %v", ref.SectionID, ref.ID, err)})
			continue
		}
		sum.Subunits++
	}

	s.log.Info("users imported",
		zap.String("key", key),
		zap.Int("created", sum.Created),
		zap.Int("updated", sum.Updated),
		zap.Int("subunits", sum.Subunits),
		zap.Int("errors", len(sum.Errors)),
	)
	return sum, nil
}

func newImportedSubunit(ref model.SubunitRef, name string, now time.Time) *model.Subunit {
	if name == "" {
		name = ref.ID
	}
	return &model.Subunit{
		GroupID:   ref.GroupID,
		SectionID: ref.SectionID,
		ID:        ref.ID,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// parseUserRow validates a roster row and builds the profile it describes.
func (s *importService) parseUserRow(row spreadsheet.Row, now time.Time) (*model.User, error) {
	nin := auth.NormalizeNIN(row.Get(colNIN))
	if !auth.ValidNIN(nin) {
		return nil, fmt.Errorf("NIN %q must have 13 digits", nin)
	}
	name := strings.Join(strings.Fields(row.Get(colName)), " ")
	group := row.Get(colGroup)
	section := row.Get(colSectionDoc)
	switch {
	case name == "":
		return nil, errors.New("nome em falta")
	case group == "":
		return nil, errors.New("agrupamentoId em falta")
	case section == "":
		return nil, errors.New("secaoDocId em falta")
	}

	kind := model.Kind(taxonomy.NormalizeKey(row.Get(colKind)))
	if kind != model.KindElemento && kind != model.KindDirigente {
		return nil, fmt.Errorf("tipo %q desconhecido", row.Get(colKind))
	}

	stage := strings.ReplaceAll(taxonomy.NormalizeKey(row.Get(colStage)), " ", "_")
	if stage != "" && !taxonomy.IsStage(stage) {
		return nil, fmt.Errorf("etapa %q desconhecida", row.Get(colStage))
	}

	var roles []string
	for _, r := range model.SplitRoles(row.Get(colRoles)) {
		r = strings.ReplaceAll(taxonomy.NormalizeKey(r), " ", "_")
		if !slices.Contains(knownRoles, r) {
			return nil, fmt.Errorf("função %q desconhecida", r)
		}
		roles = append(roles, r)
	}
	if roles == nil {
		roles = []string{}
	}

	u := &model.User{
		ID:                  uuid.NewString(),
		NIN:                 nin,
		Email:               auth.EmailForNIN(nin, s.emailDomain),
		Name:                name,
		GroupID:             group,
		SectionID:           section,
		Kind:                kind,
		Stage:               stage,
		Roles:               roles,
		Active:              true,
		ForcePasswordChange: true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if kind == model.KindElemento {
		id, err := importedSubunitID(section, row.Get(colSubunit))
		if err != nil {
			return nil, err
		}
		u.SubunitID = id
		u.IsGuide = row.Bool(colGuide)
		u.IsSubGuide = row.Bool(colSubGuide) && !u.IsGuide
	}
	return u, nil
}

// importedSubunitID turns the roster's sub-unit label into an id. Pack labels
// must name one of the fixed bands.
func importedSubunitID(sectionID, label string) (string, error) {
	if !taxonomy.IsLobitos(sectionID) {
		return strings.Join(strings.Fields(label), "_"), nil
	}
	if strings.TrimSpace(label) == "" {
		return "", nil
	}
	band, ok := taxonomy.LobitosBand(label)
	if !ok {
		return "", fmt.Errorf("bando %q desconhecido (bandos: %s)", label, strings.Join(taxonomy.LobitosBands, ", "))
	}
	return band, nil
}

func (s *importService) ArchiveURL(ctx context.Context, key string) (string, error) {
	if !storage.IsImportKey(key) {
		return "", invalid("%q is not an archived import", key)
	}
	return s.store.PresignGet(ctx, key, archiveURLExpiry)
}

func (s *importService) OpenArchive(ctx context.Context, key string) (io.ReadCloser, error) {
	if !storage.IsImportKey(key) {
		return nil, invalid("%q is not an archived import", key)
	}
	rc, _, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("archive %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", key, err)
	}
	return rc, nil
}
