package service

import (
	"context"
	"math"
	"sort"

	"azimute/internal/model"
	"azimute/internal/taxonomy"
	"azimute/internal/workflow"
)

const noSubunit = "sem_subunidade"

// AreaStat compares the catalogue size of an area with what members achieved.
type AreaStat struct {
	Area     taxonomy.Area `json:"area"`
	Name     string        `json:"nome"`
	Catalog  int           `json:"catalogo"`
	Achieved int           `json:"alcancados"`
}

// TrailStat is AreaStat broken down by educational trail.
type TrailStat struct {
	Area     taxonomy.Area `json:"area"`
	Trail    string        `json:"trilho"`
	Catalog  int           `json:"catalogo"`
	Achieved int           `json:"alcancados"`
}

// SubunitStat is the progress of one sub-unit.
type SubunitStat struct {
	SubunitID string      `json:"patrulhaId"`
	Members   int         `json:"elementos"`
	Areas     []AreaStat  `json:"areas"`
	Trails    []TrailStat `json:"trilhos"`
}

// SectionStats is the progress dashboard of a section.
type SectionStats struct {
	GroupID   string        `json:"agrupamentoId"`
	SectionID string        `json:"secaoDocId"`
	Section   string        `json:"secao"`
	Members   int           `json:"elementos"`
	Areas     []AreaStat    `json:"areas"`
	Trails    []TrailStat   `json:"trilhos"`
	Subunits  []SubunitStat `json:"subunidades"`
}

// AreaShare is an area's share of the validated objectives.
type AreaShare struct {
	Area    taxonomy.Area `json:"area"`
	Name    string        `json:"nome"`
	Count   int           `json:"total"`
	Percent int           `json:"percentagem"`
}

// SectionShare groups AreaShare by section.
type SectionShare struct {
	Section taxonomy.Section `json:"secao"`
	Total   int              `json:"total"`
	Areas   []AreaShare      `json:"areas"`
}

// GroupStats is the group-wide distribution of objectives across areas.
type GroupStats struct {
	GroupID  string         `json:"agrupamentoId"`
	Total    int            `json:"total"`
	Areas    []AreaShare    `json:"areas"`
	Sections []SectionShare `json:"secoes"`
}

type trailKey struct {
	area  taxonomy.Area
	trail string
}

type tally struct {
	areas  map[taxonomy.Area]int
	trails map[trailKey]int
}

func newTally() *tally {
	return &tally{areas: map[taxonomy.Area]int{}, trails: map[trailKey]int{}}
}

func trailOf(label string) string {
	if label == "" {
		return "Geral"
	}
	return label
}

func (t *tally) add(area taxonomy.Area, trail string) {
	t.areas[area]++
	t.trails[trailKey{area, trailOf(trail)}]++
}

// against renders t next to the catalogue tally, in catalogue order.
func (t *tally) against(catalog *tally) ([]AreaStat, []TrailStat) {
	areas := make([]AreaStat, 0, len(taxonomy.AreaOrder))
	for _, a := range taxonomy.AreaOrder {
		areas = append(areas, AreaStat{Area: a, Name: a.Name(), Catalog: catalog.areas[a], Achieved: t.areas[a]})
	}
	trails := make([]TrailStat, 0, len(catalog.trails))
	for _, k := range sortedTrails(catalog.trails) {
		trails = append(trails, TrailStat{Area: k.area, Trail: k.trail, Catalog: catalog.trails[k], Achieved: t.trails[k]})
	}
	return areas, trails
}

func sortedTrails(m map[trailKey]int) []trailKey {
	rank := make(map[taxonomy.Area]int, len(taxonomy.AreaOrder))
	for i, a := range taxonomy.AreaOrder {
		rank[a] = i
	}
	keys := make([]trailKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].area != keys[j].area {
			return rank[keys[i].area] < rank[keys[j].area]
		}
		return keys[i].trail < keys[j].trail
	})
	return keys
}

func (s *objectiveService) SectionStats(ctx context.Context, actor *model.User, sectionID string) (*SectionStats, error) {
	if sectionID == "" {
		sectionID = actor.SectionID
	}
	if !actor.IsDirigente() {
		return nil, forbidden("only leaders see section statistics")
	}
	if sectionID != actor.SectionID && !actor.HasRole(model.RoleChefeAgrupamento) {
		return nil, forbidden("statistics of another section")
	}
	sec, ok := taxonomy.SectionFromDocID(sectionID)
	if !ok {
		return nil, invalid("section %q has no objective catalogue", sectionID)
	}

	catalog, err := s.catalog.ListBySection(ctx, string(sec))
	if err != nil {
		return nil, err
	}
	members, err := s.users.List(ctx, model.UserFilter{GroupID: actor.GroupID, SectionID: sectionID, Kind: model.KindElemento})
	if err != nil {
		return nil, err
	}
	recs, err := s.objectives.ListWithOwner(ctx, model.ObjectiveFilter{GroupID: actor.GroupID, SectionID: sectionID})
	if err != nil {
		return nil, err
	}

	cat := newTally()
	for _, o := range catalog {
		if a := taxonomy.AreaKey(o.Area); a != taxonomy.AreaOther {
			cat.add(a, o.Trail)
		}
	}

	headcount := map[string]int{}
	for _, m := range members {
		headcount[subunitKey(m.SubunitID)]++
	}

	total := newTally()
	bySubunit := map[string]*tally{}
	for _, r := range recs {
		if !workflow.CountsTowardProgress(workflow.State(r.State)) {
			continue
		}
		a := taxonomy.AreaKey(r.Area)
		if a == taxonomy.AreaOther {
			continue
		}
		total.add(a, r.Trail)
		key := subunitKey(r.OwnerSubunitID)
		if bySubunit[key] == nil {
			bySubunit[key] = newTally()
		}
		bySubunit[key].add(a, r.Trail)
	}

	out := &SectionStats{GroupID: actor.GroupID, SectionID: sectionID, Section: string(sec), Members: len(members)}
	out.Areas, out.Trails = total.against(cat)

	keys := make([]string, 0, len(headcount))
	for k := range headcount {
		keys = append(keys, k)
	}
	for k := range bySubunit {
		if _, ok := headcount[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := bySubunit[k]
		if t == nil {
			t = newTally()
		}
		st := SubunitStat{SubunitID: k, Members: headcount[k]}
		st.Areas, st.Trails = t.against(cat)
		out.Subunits = append(out.Subunits, st)
	}
	return out, nil
}

func subunitKey(id string) string {
	if id == "" {
		return noSubunit
	}
	return id
}

func (s *objectiveService) GroupStats(ctx context.Context, actor *model.User) (*GroupStats, error) {
	if !actor.IsDirigente() || !actor.HasRole(model.RoleChefeAgrupamento) {
		return nil, forbidden("only the group leader sees group statistics")
	}
	recs, err := s.objectives.ListWithOwner(ctx, model.ObjectiveFilter{
		GroupID: actor.GroupID,
		States: []string{
			string(workflow.StateValidated),
			string(workflow.StateRealized),
			string(workflow.StateConfirmed),
			string(workflow.StateCompleted),
		},
	})
	if err != nil {
		return nil, err
	}

	global := map[taxonomy.Area]int{}
	perSection := map[taxonomy.Section]map[taxonomy.Area]int{}
	for _, r := range recs {
		sec, ok := taxonomy.SectionFromDocID(r.OwnerSectionID)
		if !ok {
			continue
		}
		a := taxonomy.AreaKey(r.Area)
		if a == taxonomy.AreaOther {
			continue
		}
		global[a]++
		if perSection[sec] == nil {
			perSection[sec] = map[taxonomy.Area]int{}
		}
		perSection[sec][a]++
	}

	out := &GroupStats{GroupID: actor.GroupID}
	out.Total, out.Areas = shares(global)
	for _, sec := range taxonomy.Sections() {
		n, areas := shares(perSection[sec])
		out.Sections = append(out.Sections, SectionShare{Section: sec, Total: n, Areas: areas})
	}
	return out, nil
}

func shares(counts map[taxonomy.Area]int) (int, []AreaShare) {
	total := 0
	for _, n := range counts {
		total += n
	}
	out := make([]AreaShare, 0, len(taxonomy.AreaOrder))
	for _, a := range taxonomy.AreaOrder {
		sh := AreaShare{Area: a, Name: a.Name(), Count: counts[a]}
		if total > 0 {
			sh.Percent = int(math.Round(float64(counts[a]) * 100 / float64(total)))
		}
		out = append(out, sh)
	}
	return total, out
}
