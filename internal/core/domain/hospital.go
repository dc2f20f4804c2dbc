package domain

import (
	"math"
	"sort"
	"strings"
)

// DiseaseCategory is the closed taxonomy a hospital is classified into
type DiseaseCategory string

const (
	CategoryHeart   DiseaseCategory = "heart"
	CategoryBone    DiseaseCategory = "bone"
	CategoryCancer  DiseaseCategory = "cancer"
	CategoryNeuro   DiseaseCategory = "neuro"
	CategoryDental  DiseaseCategory = "dental"
	CategoryEye     DiseaseCategory = "eye"
	CategorySkin    DiseaseCategory = "skin"
	CategoryChild   DiseaseCategory = "child"
	CategoryWomen   DiseaseCategory = "women"
	CategoryGeneral DiseaseCategory = "general"
)

// categoryKeywords is the ordered keyword table for category detection.
// Detection is first-match-wins in this order; reordering entries changes
// classification results.
var categoryKeywords = []struct {
	Category DiseaseCategory
	Keywords []string
}{
	{CategoryHeart, []string{"heart", "cardiac", "cardio"}},
	{CategoryBone, []string{"bone", "ortho", "joint", "fracture"}},
	{CategoryCancer, []string{"cancer", "onco", "tumor", "tumour"}},
	{CategoryNeuro, []string{"neuro", "brain", "stroke"}},
	{CategoryDental, []string{"dental", "dentist", "tooth"}},
	{CategoryEye, []string{"eye", "ophthal", "vision"}},
	{CategorySkin, []string{"skin", "derma"}},
	{CategoryChild, []string{"child", "pediatric", "paediatric"}},
	{CategoryWomen, []string{"women", "gyne", "maternity", "obstet"}},
}

// DetectCategory classifies free text (hospital name plus description)
// into exactly one category by first-match keyword search, falling back to
// "general". Assignment happens once per hospital at ingestion time, not
// per query.
func DetectCategory(text string) DiseaseCategory {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Category
			}
		}
	}
	return CategoryGeneral
}

// DefaultSpecialty is assigned when source data carries no specialty tags
const DefaultSpecialty = "General"

// Hospital represents a candidate care facility. The name doubles as the
// identifier for dedup. DistanceKm is a cache for the current user
// location only; it is never trusted across a reload. It may be +Inf
// (unknown), which encoding/json cannot represent, so it is excluded from
// serialization; handlers expose it through FormatDistance instead.
type Hospital struct {
	Name        string          `json:"name"`
	Coordinates *Coordinates    `json:"coordinates,omitempty"`
	Phone       string          `json:"phone"`
	Category    DiseaseCategory `json:"category"`
	Specialties []string        `json:"specialties"`
	Emergency   bool            `json:"emergency"`
	DistanceKm  float64         `json:"-"`
}

// MatchesQuery reports whether a trimmed, case-insensitive query selects
// this hospital: by detected category, by substring of any specialty tag,
// or by substring of the name.
func (h *Hospital) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if q == string(h.Category) {
		return true
	}
	for _, s := range h.Specialties {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(h.Name), q)
}

// HasSpecialty reports an exact, case-insensitive specialty tag match
func (h *Hospital) HasSpecialty(specialty string) bool {
	for _, s := range h.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

// SortHospitalsByDistance orders hospitals by ascending cached distance.
// Unknown distances are +Inf and therefore sort last; the sort is stable
// so equal distances keep their prior order.
func SortHospitalsByDistance(hospitals []*Hospital) {
	sort.SliceStable(hospitals, func(i, j int) bool {
		return hospitals[i].DistanceKm < hospitals[j].DistanceKm
	})
}

// HasKnownDistance reports whether the cached distance is a usable number
func (h *Hospital) HasKnownDistance() bool {
	return !math.IsInf(h.DistanceKm, 0) && !math.IsNaN(h.DistanceKm) && h.DistanceKm >= 0
}
