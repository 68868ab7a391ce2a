package pet

import "strings"

// Filter defines parameters for listing pets. All provided dimensions are
// ANDed together. Search matches name or breed, case-insensitive substring.
type Filter struct {
	ShelterID    string
	Species      string
	Availability Availability
	Search       string
	Page         int
	PageSize     int
}

// Matches is the pure predicate behind the pet listing. The repository builds
// the equivalent SQL; this form exists so filtering logic is testable without
// a database and usable over in-memory collections.
func (f Filter) Matches(p *Pet) bool {
	if f.ShelterID != "" && p.ShelterID != f.ShelterID {
		return false
	}
	if f.Species != "" && !strings.EqualFold(p.Species, f.Species) {
		return false
	}
	if f.Availability != "" && p.Availability != f.Availability {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Breed), needle) {
			return false
		}
	}
	return true
}
