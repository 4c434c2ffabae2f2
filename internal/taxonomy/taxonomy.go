// Package taxonomy holds the organisational vocabulary of a CNE scout group:
// sections, development areas, progress stages and the scouting-year cycle.
package taxonomy

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Section identifies an age section.
type Section string

const (
	SectionLobitos      Section = "LOBITOS"
	SectionExploradores Section = "EXPLORADORES"
	SectionPioneiros    Section = "PIONEIROS"
	SectionCaminheiros  Section = "CAMINHEIROS"
)

// sectionMarkers maps the substring found in a section document id to its section.
// Order matters: it is also the display order of sections.
var sectionMarkers = []struct {
	marker  string
	section Section
	term    Terminology
}{
	{"alcateia", SectionLobitos, Terminology{Singular: "Bando", Plural: "Bandos"}},
	{"expedicao", SectionExploradores, Terminology{Singular: "Patrulha", Plural: "Patrulhas"}},
	{"comunidade", SectionPioneiros, Terminology{Singular: "Equipa", Plural: "Equipas"}},
	{"cla", SectionCaminheiros, Terminology{Singular: "Tribo", Plural: "Tribos"}},
}

// Terminology is the name given to a sub-unit inside a section.
type Terminology struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

var defaultTerminology = Terminology{Singular: "Subunidade", Plural: "Subunidades"}

// LobitosBands are the fixed bands created for every Lobitos section.
var LobitosBands = []string{"branco", "castanho", "cinzento", "preto", "ruivo"}

// LobitosBand maps a band label such as "Bando Branco" or "RUIVO" onto its
// fixed band id. The second result is false when the label names no band.
func LobitosBand(label string) (string, bool) {
	for _, word := range strings.Split(SlugifyID(label), "_") {
		if slices.Contains(LobitosBands, word) {
			return word, true
		}
	}
	return "", false
}

// SectionFromDocID derives the section from a section document id such as
// "1104alcateia". The second result is false when no section matches.
func SectionFromDocID(secaoDocID string) (Section, bool) {
	s := foldLower(secaoDocID)
	for _, m := range sectionMarkers {
		if strings.Contains(s, m.marker) {
			return m.section, true
		}
	}
	return "", false
}

// IsLobitos reports whether the section document id belongs to a Lobitos pack.
func IsLobitos(secaoDocID string) bool {
	s, ok := SectionFromDocID(secaoDocID)
	return ok && s == SectionLobitos
}

// SubunitTerms returns the sub-unit terminology of a section document id.
func SubunitTerms(secaoDocID string) Terminology {
	s := foldLower(secaoDocID)
	for _, m := range sectionMarkers {
		if strings.Contains(s, m.marker) {
			return m.term
		}
	}
	return defaultTerminology
}

// SectionRank orders section document ids the way the group lists them.
// Unknown sections sort last.
func SectionRank(secaoDocID string) int {
	s := foldLower(secaoDocID)
	for i, m := range sectionMarkers {
		if strings.Contains(s, m.marker) {
			return i
		}
	}
	return 99
}

// Sections returns every known section in display order.
func Sections() []Section {
	out := make([]Section, 0, len(sectionMarkers))
	for _, m := range sectionMarkers {
		out = append(out, m.section)
	}
	return out
}

// Area is a development area.
type Area string

const (
	AreaFisico      Area = "FISICO"
	AreaAfetivo     Area = "AFETIVO"
	AreaCaracter    Area = "CARACTER"
	AreaEspiritual  Area = "ESPIRITUAL"
	AreaIntelectual Area = "INTELECTUAL"
	AreaSocial      Area = "SOCIAL"

	// AreaOther is returned by AreaKey for labels outside the known areas.
	AreaOther Area = "OUTRA"
)

// AreaOrder lists the development areas in their canonical order.
var AreaOrder = []Area{AreaFisico, AreaAfetivo, AreaCaracter, AreaEspiritual, AreaIntelectual, AreaSocial}

var areaNames = map[Area]string{
	AreaFisico:      "Físico",
	AreaAfetivo:     "Afetivo",
	AreaCaracter:    "Caráter",
	AreaEspiritual:  "Espiritual",
	AreaIntelectual: "Intelectual",
	AreaSocial:      "Social",
}

var areaAliases = map[string]Area{
	"CARATER":  AreaCaracter,
	"AFECTIVO": AreaAfetivo,
}

// Name returns the display name of a development area.
func (a Area) Name() string {
	if n, ok := areaNames[a]; ok {
		return n
	}
	return string(a)
}

// NormalizeArea folds a spreadsheet label ("Físico ", "caráter") into its key.
// Unknown labels are returned normalised but otherwise untouched.
func NormalizeArea(label string) Area {
	k := strings.Join(strings.Fields(NormalizeKey(label)), "_")
	if a, ok := areaAliases[k]; ok {
		return a
	}
	return Area(k)
}

// AreaKey is NormalizeArea restricted to the known areas.
func AreaKey(label string) Area {
	a := NormalizeArea(label)
	if _, ok := areaNames[a]; ok {
		return a
	}
	return AreaOther
}

// Stage is a progress stage (etapa de progresso).
type Stage string

var stageNames = map[Stage]string{
	"PATA_TENRA":     "Pata Tenra",
	"LOBO_VALENTE":   "Lobo Valente",
	"LOBO_CORTES":    "Lobo Cortês",
	"LOBO_AMIGO":     "Lobo Amigo",
	"APELO":          "Apelo",
	"ALIANCA":        "Aliança",
	"RUMO":           "Rumo",
	"DESCOBERTA":     "Descoberta",
	"DESPRENDIMENTO": "Desprendimento",
	"CONHECIMENTO":   "Conhecimento",
	"VONTADE":        "Vontade",
	"CONSTRUCAO":     "Construção",
	"CAMINHO":        "Caminho",
	"COMUNIDADE":     "Comunidade",
	"SERVICO":        "Serviço",
	"PARTIDA":        "Partida",
}

// StageName returns the display name of a stage; "—" for an empty stage.
func StageName(s string) string {
	if s == "" {
		return "—"
	}
	if n, ok := stageNames[Stage(s)]; ok {
		return n
	}
	return s
}

// IsStage reports whether s is a known stage.
func IsStage(s string) bool {
	_, ok := stageNames[Stage(s)]
	return ok
}

// CycleID returns the scouting year containing t. The year starts in October,
// so 2025-10-01 and 2026-03-15 both belong to "2025-2026".
func CycleID(t time.Time) string {
	y := t.Year()
	if t.Month() < time.October {
		y--
	}
	return fmt.Sprintf("%d-%d", y, y+1)
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// SlugifyID turns a display name into a document id: accents stripped,
// lower-cased, runs of other characters collapsed into "_".
func SlugifyID(name string) string {
	s := nonAlnum.ReplaceAllString(foldLower(name), "_")
	return strings.Trim(s, "_")
}

// NormalizeKey trims, strips diacritics and upper-cases s.
func NormalizeKey(s string) string {
	return strings.ToUpper(stripMarks(strings.TrimSpace(s)))
}

func foldLower(s string) string {
	return strings.ToLower(stripMarks(strings.TrimSpace(s)))
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
