// Package domain models clinical-trial study data from the ClinicalTrials.gov
// v2 API.
//
// # Data Source
//
// Studies come from https://clinicaltrials.gov/api/v2/studies. The response is
// a JSON object with a "studies" array; each study nests its fields under
// protocolSection modules (identificationModule, descriptionModule,
// statusModule, conditionsModule, eligibilityModule, contactsLocationsModule,
// armsInterventionsModule). The registry adapter preserves these field paths
// exactly; renaming any of them breaks compatibility with the live registry.
//
// # Registry Conventions
//
// Sex/gender:
//
//	eligibilityModule.sex is "ALL", "MALE", "FEMALE", or absent.
//	An absent value is presented as "All".
//
// Age range:
//
//	minimumAge/maximumAge are free-form registry strings such as "18 Years"
//	or "6 Months". They are passed through untouched; parsing them is the
//	frontend's problem.
//
// Facility:
//
//	contactsLocationsModule.locations[].facility has historically appeared
//	both as a bare string and as an object {"name": ...}. Both forms are
//	accepted during normalization.
//
// Interventions:
//
//	armsInterventionsModule.interventions[] entries carry interventionType
//	and interventionName. Only Drug, Biological, and Dietary Supplement
//	types (case-insensitive) are kept, for allergy checking downstream.
//
// # Compensation
//
// The registry does not expose compensation as structured data. Compensation
// here is a deterministic stand-in derived from a hash of the study's detailed
// description: a per-call seeded generator picks presence (75%), an amount in
// $50 increments between $100 and $2000, and a narrative tier. Reprocessing
// the same study always yields the same values, which keeps cached and fresh
// results consistent. See [ExtractCompensation].
//
// # Distance
//
// Distances are great-circle miles (Earth radius 3958.8 mi) rounded to one
// decimal place. See [Distance].
package domain
