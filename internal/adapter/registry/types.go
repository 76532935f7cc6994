package registry

import "encoding/json"

// Response types mirror the ClinicalTrials.gov v2 schema. Field paths must
// be preserved exactly; the live registry is the contract.

type searchResponse struct {
	Studies []Study `json:"studies"`
}

// Study is one raw registry record. A record whose JSON cannot be decoded
// is kept with DecodeErr set instead of failing the whole batch; callers
// skip such records individually.
type Study struct {
	ProtocolSection ProtocolSection `json:"protocolSection"`
	DecodeErr       error           `json:"-"`
}

func (s *Study) UnmarshalJSON(data []byte) error {
	type alias Study
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		s.DecodeErr = err
		return nil
	}
	*s = Study(a)
	return nil
}

// ProtocolSection groups the nested study modules.
type ProtocolSection struct {
	Identification IdentificationModule    `json:"identificationModule"`
	Description    DescriptionModule       `json:"descriptionModule"`
	Status         StatusModule            `json:"statusModule"`
	Conditions     ConditionsModule        `json:"conditionsModule"`
	Eligibility    EligibilityModule       `json:"eligibilityModule"`
	Contacts       ContactsLocationsModule `json:"contactsLocationsModule"`
	Interventions  ArmsInterventionsModule `json:"armsInterventionsModule"`
}

type IdentificationModule struct {
	NCTID      string `json:"nctId"`
	BriefTitle string `json:"briefTitle"`
}

type DescriptionModule struct {
	BriefSummary        string `json:"briefSummary"`
	DetailedDescription string `json:"detailedDescription"`
}

type StatusModule struct {
	OverallStatus string `json:"overallStatus"`
}

type ConditionsModule struct {
	Conditions ConditionList `json:"conditions"`
}

// ConditionList accepts both registry encodings of conditions: a list of
// strings and, in some historical records, a bare string.
type ConditionList []string

func (c *ConditionList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*c = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ConditionList{s}
	return nil
}

type EligibilityModule struct {
	Sex                 string `json:"sex"`
	MinimumAge          string `json:"minimumAge"`
	MaximumAge          string `json:"maximumAge"`
	EligibilityCriteria string `json:"eligibilityCriteria"`
}

type ContactsLocationsModule struct {
	Locations []StudyLocation `json:"locations"`
}

type StudyLocation struct {
	Facility Facility `json:"facility"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	Country  string   `json:"country"`
	Zip      string   `json:"zip"`
}

// Facility accepts both historical registry encodings: a bare string and an
// object {"name": ...}.
type Facility struct {
	Name string
}

func (f *Facility) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	f.Name = obj.Name
	return nil
}

type ArmsInterventionsModule struct {
	Interventions []Intervention `json:"interventions"`
}

type Intervention struct {
	Type string `json:"interventionType"`
	Name string `json:"interventionName"`
}
