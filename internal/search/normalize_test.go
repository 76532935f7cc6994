package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretrials/trial-search-service/internal/adapter/registry"
)

func TestNormalizeStudy_Defaults(t *testing.T) {
	trial := normalizeStudy(registry.Study{})

	assert.Empty(t, trial.ID)
	assert.Empty(t, trial.Title)
	assert.Equal(t, "All", trial.Gender, "absent sex defaults to All")
	assert.NotNil(t, trial.Conditions)
	assert.Empty(t, trial.Conditions)
	assert.NotNil(t, trial.Substances)
	assert.Empty(t, trial.Substances)
}

func TestNormalizeStudy_FullRecord(t *testing.T) {
	study := registry.Study{
		ProtocolSection: registry.ProtocolSection{
			Identification: registry.IdentificationModule{NCTID: "NCT01234567", BriefTitle: "Asthma Study"},
			Description:    registry.DescriptionModule{BriefSummary: "Summary.", DetailedDescription: "Details."},
			Status:         registry.StatusModule{OverallStatus: "RECRUITING"},
			Conditions:     registry.ConditionsModule{Conditions: []string{"Asthma"}},
			Eligibility: registry.EligibilityModule{
				Sex:                 "FEMALE",
				MinimumAge:          "18 Years",
				MaximumAge:          "65 Years",
				EligibilityCriteria: "Inclusion: adults.",
			},
		},
	}

	trial := normalizeStudy(study)

	assert.Equal(t, "NCT01234567", trial.ID)
	assert.Equal(t, "Asthma Study", trial.Title)
	assert.Equal(t, "RECRUITING", trial.Status)
	assert.Equal(t, "FEMALE", trial.Gender)
	assert.Equal(t, "18 Years", trial.AgeRange.Min)
	assert.Equal(t, "65 Years", trial.AgeRange.Max)
	assert.Equal(t, "Inclusion: adults.", trial.EligibilityCriteria)
}

func TestNormalizeStudy_CompensationDeterministic(t *testing.T) {
	study := registry.Study{
		ProtocolSection: registry.ProtocolSection{
			Description: registry.DescriptionModule{DetailedDescription: "A detailed plan."},
		},
	}
	assert.Equal(t, normalizeStudy(study).Compensation, normalizeStudy(study).Compensation)
}

func TestFilterSubstances(t *testing.T) {
	interventions := []registry.Intervention{
		{Type: "Drug", Name: "Albuterol"},
		{Type: "DRUG", Name: "Salbutamol"},
		{Type: "Biological", Name: "Omalizumab"},
		{Type: "dietary supplement", Name: "Vitamin D"},
		{Type: "Behavioral", Name: "Exercise"},
		{Type: "Device", Name: "Inhaler"},
	}

	substances := filterSubstances(interventions)

	require.Len(t, substances, 4)
	assert.Equal(t, "Albuterol", substances[0].Name)
	assert.Equal(t, "Salbutamol", substances[1].Name)
	assert.Equal(t, "Omalizumab", substances[2].Name)
	assert.Equal(t, "Vitamin D", substances[3].Name)
}

func TestParseCity(t *testing.T) {
	assert.Equal(t, "Boston", parseCity("Boston, MA"))
	assert.Equal(t, "Boston", parseCity("Boston"))
	assert.Equal(t, "San Francisco", parseCity(" San Francisco , CA, USA"))
	assert.Equal(t, "", parseCity(""))
}

func TestJoinAddress(t *testing.T) {
	assert.Equal(t, "Boston, MA, United States", joinAddress("Boston", "MA", "United States"))
	assert.Equal(t, "Boston, United States", joinAddress("Boston", "", "United States"))
	assert.Equal(t, "United States", joinAddress("", "", "United States"))
	assert.Equal(t, "", joinAddress("", "", ""))
	assert.Equal(t, "", joinAddress(" ", " ", " "))
}

func TestOrderByCity(t *testing.T) {
	locations := []registry.StudyLocation{
		{City: "Chicago"},
		{City: "Boston"},
		{City: "Cambridge"},
		{City: "South Boston"},
	}

	ordered := orderByCity(locations, "boston")

	require.Len(t, ordered, 4)
	assert.Equal(t, "Boston", ordered[0].City)
	assert.Equal(t, "South Boston", ordered[1].City, "substring match, original order preserved")
	assert.Equal(t, "Chicago", ordered[2].City)
	assert.Equal(t, "Cambridge", ordered[3].City)
}

func TestOrderByCity_NoUserCity(t *testing.T) {
	locations := []registry.StudyLocation{{City: "Chicago"}, {City: "Boston"}}
	assert.Equal(t, locations, orderByCity(locations, ""))
}
