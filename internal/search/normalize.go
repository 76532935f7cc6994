package search

import (
	"strings"

	"github.com/caretrials/trial-search-service/internal/adapter/registry"
	"github.com/caretrials/trial-search-service/internal/domain"
)

// substanceTypes are the intervention types kept for allergy checking.
var substanceTypes = map[string]bool{
	"drug":               true,
	"biological":         true,
	"dietary supplement": true,
}

// normalizeStudy converts a raw registry study into a Trial. Missing fields
// default to empty values, gender to "All". Locations are filled in later by
// the pipeline's enrichment pass.
func normalizeStudy(study registry.Study) domain.Trial {
	ps := study.ProtocolSection

	gender := ps.Eligibility.Sex
	if gender == "" {
		gender = "All"
	}

	conditions := []string(ps.Conditions.Conditions)
	if conditions == nil {
		conditions = []string{}
	}

	return domain.Trial{
		ID:         ps.Identification.NCTID,
		Title:      ps.Identification.BriefTitle,
		Conditions: conditions,
		Summary:    ps.Description.BriefSummary,
		Status:     ps.Status.OverallStatus,
		Gender:     gender,
		AgeRange: domain.AgeRange{
			Min: ps.Eligibility.MinimumAge,
			Max: ps.Eligibility.MaximumAge,
		},
		Compensation:        domain.ExtractCompensation(ps.Description.DetailedDescription),
		EligibilityCriteria: ps.Eligibility.EligibilityCriteria,
		Substances:          filterSubstances(ps.Interventions.Interventions),
	}
}

// filterSubstances keeps Drug, Biological, and Dietary Supplement
// interventions, case-insensitively.
func filterSubstances(interventions []registry.Intervention) []domain.Substance {
	substances := []domain.Substance{}
	for _, iv := range interventions {
		if substanceTypes[strings.ToLower(iv.Type)] {
			substances = append(substances, domain.Substance{Type: iv.Type, Name: iv.Name})
		}
	}
	return substances
}

// parseCity extracts the city portion of a free-text location: the text
// before the first comma, trimmed. "Boston, MA" -> "Boston".
func parseCity(location string) string {
	city, _, _ := strings.Cut(location, ",")
	return strings.TrimSpace(city)
}

// joinAddress builds a geocodable address from the non-empty parts of
// city/state/country. An empty result means the site has no usable
// geographic data.
func joinAddress(city, state, country string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{city, state, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// orderByCity returns locations with same-city entries first, preserving
// relative order within each group. City matching is a case-insensitive
// substring test against the user's parsed city.
func orderByCity(locations []registry.StudyLocation, userCity string) []registry.StudyLocation {
	if userCity == "" {
		return locations
	}

	target := strings.ToLower(userCity)
	sameCity := make([]registry.StudyLocation, 0, len(locations))
	other := make([]registry.StudyLocation, 0, len(locations))
	for _, loc := range locations {
		if strings.Contains(strings.ToLower(loc.City), target) {
			sameCity = append(sameCity, loc)
		} else {
			other = append(other, loc)
		}
	}
	return append(sameCity, other...)
}
