package models

import "time"

type ModelVariant string

const (
	VariantSIS  ModelVariant = "sis"
	VariantSEIR ModelVariant = "seir"
)

// ModelParameters holds the derived epidemic rates for one (track, variant)
// pair. Sigma is only meaningful for SEIR and stays zero for SIS.
type ModelParameters struct {
	Beta            float64 `json:"beta"`
	Gamma           float64 `json:"gamma"`
	Sigma           float64 `json:"sigma,omitempty"`
	InitialInfected float64 `json:"initial_infected"`
	TotalPopulation float64 `json:"total_population"`
}

// DataPoint is one reported day of compartment counts. Exposed and Recovered
// stay zero for SIS.
type DataPoint struct {
	Date            time.Time `json:"date"`
	Susceptible     float64   `json:"susceptible"`
	Exposed         float64   `json:"exposed,omitempty"`
	Infected        float64   `json:"infected"`
	Recovered       float64   `json:"recovered,omitempty"`
	TotalPopulation float64   `json:"total_population"`
}

// Series is a date-ascending run of daily points, either historical
// (ending today) or predicted (starting after today).
type Series []DataPoint
