package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"azimute/internal/model"
	"azimute/internal/repository"
	"azimute/internal/spreadsheet"
	"azimute/internal/taxonomy"
)

// Catalogue spreadsheet columns.
const (
	colSection     = "secao"
	colArea        = "areaDesenvolvimento"
	colTrail       = "trilhoEducativo"
	colOpportunity = "oportunidadeEducativa"
)

const catalogBatchSize = 450

// codePattern splits "F1 - Description" into letter, number and text. The
// letter may be written in either case.
var codePattern = regexp.MustCompile(`(?i)^([FACESI])\s*(\d+)\s*[-–—]\s*(.+)$`)

// CatalogImportSummary reports what a catalogue import wrote.
type CatalogImportSummary struct {
	ArchiveKey string         `json:"arquivo,omitempty"`
	Imported   int            `json:"importados"`
	Skipped    int            `json:"ignorados"`
	PerSection map[string]int `json:"porSecao"`
	PerArea    map[string]int `json:"porArea"`
	Warnings   []string       `json:"avisos"`
}

// CatalogService exposes the objective catalogue.
type CatalogService interface {
	// List returns the catalogue of a section, given by name ("Exploradores")
	// or by section document id ("1104expedicao").
	List(ctx context.Context, section string) ([]model.CatalogObjective, error)

	// Import upserts the objectives of a catalogue spreadsheet.
	Import(ctx context.Context, sheet *spreadsheet.Sheet) (*CatalogImportSummary, error)
}

type catalogService struct {
	catalog repository.CatalogRepository
	log     *zap.Logger
	clock   Clock
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(catalog repository.CatalogRepository, log *zap.Logger, clock Clock) CatalogService {
	if clock == nil {
		clock = systemClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &catalogService{catalog: catalog, log: log.With(zap.String("component", "catalog")), clock: clock}
}

// resolveSection accepts a section name or a section document id.
func resolveSection(s string) (taxonomy.Section, bool) {
	key := taxonomy.NormalizeKey(s)
	for _, sec := range taxonomy.Sections() {
		if string(sec) == key {
			return sec, true
		}
	}
	return taxonomy.SectionFromDocID(s)
}

func (s *catalogService) List(ctx context.Context, section string) ([]model.CatalogObjective, error) {
	sec, ok := resolveSection(section)
	if !ok {
		return nil, invalid("unknown section %q", section)
	}
	return s.catalog.ListBySection(ctx, string(sec))
}

func (s *catalogService) Import(ctx context.Context, sheet *spreadsheet.Sheet) (*CatalogImportSummary, error) {
	if err := sheet.RequireColumns(colSection, colArea, colTrail, colOpportunity); err != nil {
		return nil, invalid("%v", err)
	}

	now := s.clock()
	sum := &CatalogImportSummary{PerSection: map[string]int{}, PerArea: map[string]int{}, Warnings: []string{}}
	items := make([]model.CatalogObjective, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		o, warn := parseCatalogRow(row)
		if warn != "" {
			sum.Skipped++
			sum.Warnings = append(sum.Warnings, fmt.Sprintf("linha %d: %s", row.Line, warn))
			continue
		}
		o.CreatedAt, o.UpdatedAt = now, now
		items = append(items, o)
		sum.PerSection[o.Section]++
		sum.PerArea[string(taxonomy.NormalizeArea(o.Area))]++
	}

	for start := 0; start < len(items); start += catalogBatchSize {
		end := min(start+catalogBatchSize, len(items))
		if err := s.catalog.UpsertBatch(ctx, items[start:end]); err != nil {
			return nil, fmt.Errorf("catalog batch %d-%d: %w", start, end, err)
		}
		sum.Imported += end - start
	}

	s.log.Info("catalog imported",
		zap.Int("imported", sum.Imported),
		zap.Int("skipped", sum.Skipped),
	)
	return sum, nil
}

// parseCatalogRow maps a row to an objective, or explains why it is skipped.
func parseCatalogRow(row spreadsheet.Row) (model.CatalogObjective, string) {
	section := taxonomy.NormalizeKey(row.Get(colSection))
	area := row.Get(colArea)
	text := row.Get(colOpportunity)
	switch {
	case section == "":
		return model.CatalogObjective{}, "secção em falta"
	case area == "":
		return model.CatalogObjective{}, "área de desenvolvimento em falta"
	case text == "":
		return model.CatalogObjective{}, "oportunidade educativa em falta"
	}

	o := model.CatalogObjective{
		Section:     section,
		Area:        area,
		Trail:       row.Get(colTrail),
		Description: text,
	}
	if m := codePattern.FindStringSubmatch(text); m != nil {
		o.Code = strings.ToUpper(m[1]) + m[2]
		o.Description = strings.TrimSpace(m[3])
		o.ID = section + "_" + o.Code
	} else {
		o.ID = fmt.Sprintf("%s_LINHA_%d", section, row.Line)
	}
	return o, ""
}
