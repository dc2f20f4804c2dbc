package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/vitaljournal/journal-service/internal/core/domain"
	"github.com/vitaljournal/journal-service/internal/core/ports"
)

// NearestResultLimit caps the "nearest by disease type" result set
const NearestResultLimit = 3

// HospitalService implements hospital ingestion, location tracking and
// lookup. The current location is the only shared mutable state; it is
// guarded so concurrent request handlers read a consistent pair. Cached
// distances are recomputed from the stored coordinates after every load
// and never trusted across a reload.
type HospitalService struct {
	hospitalRepo ports.HospitalRepository

	mu       sync.RWMutex
	location *domain.Coordinates
}

// NewHospitalService creates a new hospital service
func NewHospitalService(hospitalRepo ports.HospitalRepository) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
	}
}

// IngestCandidates normalizes raw facility data and stores it, keyed by
// name. Malformed fields are handled permissively: missing name becomes
// "Unnamed", missing phone "N/A", empty specialties default to "General".
// The disease category is detected exactly once here, not per query.
func (s *HospitalService) IngestCandidates(ctx context.Context, candidates []ports.HospitalCandidate) (int, error) {
	stored := 0
	for _, c := range candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = "Unnamed"
		}

		phone := strings.TrimSpace(c.Phone)
		if phone == "" {
			phone = "N/A"
		}

		var coords *domain.Coordinates
		if c.Latitude != nil && c.Longitude != nil &&
			!math.IsNaN(*c.Latitude) && !math.IsNaN(*c.Longitude) {
			coords = &domain.Coordinates{Latitude: *c.Latitude, Longitude: *c.Longitude}
		}

		specialties := cleanTags(c.Specialties)
		if len(specialties) == 0 {
			specialties = []string{domain.DefaultSpecialty}
		}

		hospital := &domain.Hospital{
			Name:        name,
			Coordinates: coords,
			Phone:       phone,
			Category:    domain.DetectCategory(name + " " + c.Description),
			Specialties: specialties,
			Emergency:   c.Emergency,
			DistanceKm:  domain.Distance(s.Location(), coords),
		}

		if err := s.hospitalRepo.UpsertHospital(ctx, hospital); err != nil {
			return stored, fmt.Errorf("failed to store hospital %q: %w", name, err)
		}
		stored++
	}

	return stored, nil
}

// ReplaceCandidates drops every stored hospital and ingests the batch as
// the new full directory. Used by full-refresh feeds whose payload is
// authoritative rather than incremental.
func (s *HospitalService) ReplaceCandidates(ctx context.Context, candidates []ports.HospitalCandidate) (int, error) {
	if err := s.hospitalRepo.ClearHospitals(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear hospitals: %w", err)
	}
	return s.IngestCandidates(ctx, candidates)
}

// SetLocation updates the current coordinates; nil clears them. Last
// writer wins, readers always see the latest committed pair.
func (s *HospitalService) SetLocation(coords *domain.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = coords
}

// Location returns the current coordinates, nil when unknown
func (s *HospitalService) Location() *domain.Coordinates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.location == nil {
		return nil
	}
	loc := *s.location
	return &loc
}

// FindNearest returns up to the 3 closest hospitals matching a free-text
// disease/specialty query, ascending by distance with unknown-distance
// entries last. An empty hospital cache or an unmatched query yields an
// empty result, not an error.
func (s *HospitalService) FindNearest(ctx context.Context, query string) ([]*domain.Hospital, error) {
	hospitals, err := s.loadWithDistances(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		if h.MatchesQuery(query) {
			matched = append(matched, h)
		}
	}

	domain.SortHospitalsByDistance(matched)
	if len(matched) > NearestResultLimit {
		matched = matched[:NearestResultLimit]
	}
	return matched, nil
}

// ListFiltered returns the full filtered hospital set sorted ascending by
// distance, unbounded, for browsing
func (s *HospitalService) ListFiltered(ctx context.Context, filter ports.HospitalFilter) ([]*domain.Hospital, error) {
	hospitals, err := s.loadWithDistances(ctx)
	if err != nil {
		return nil, err
	}

	specialty := strings.TrimSpace(filter.Specialty)
	allSpecialties := specialty == "" || strings.EqualFold(specialty, "all")

	filtered := make([]*domain.Hospital, 0, len(hospitals))
	for _, h := range hospitals {
		if filter.EmergencyOnly && !h.Emergency {
			continue
		}
		if !allSpecialties && !h.HasSpecialty(specialty) {
			continue
		}
		filtered = append(filtered, h)
	}

	domain.SortHospitalsByDistance(filtered)
	return filtered, nil
}

// Interface compliance check
var _ ports.HospitalService = (*HospitalService)(nil)

// loadWithDistances loads the hospital cache and recomputes every cached
// distance from the current location
func (s *HospitalService) loadWithDistances(ctx context.Context) ([]*domain.Hospital, error) {
	hospitals, err := s.hospitalRepo.ListHospitals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	loc := s.Location()
	for _, h := range hospitals {
		h.DistanceKm = domain.Distance(loc, h.Coordinates)
	}
	return hospitals, nil
}
