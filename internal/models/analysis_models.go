package models

// AnalysisRequest is the envelope the routing layer hands to the engine.
// A directly supplied Track takes precedence over any cached copy for the
// same TrackID.
type AnalysisRequest struct {
	TrackID     string       `json:"track_id" validate:"required_without=Track"`
	Variant     ModelVariant `json:"variant" validate:"required,oneof=sis seir"`
	HorizonDays int          `json:"horizon_days,omitempty" validate:"omitempty,gt=1,lte=365"`
	Track       *Track       `json:"track,omitempty"`
}

type AnalysisResponse struct {
	AnalysisID  string          `json:"analysis_id"`
	Track       Track           `json:"track"`
	Variant     ModelVariant    `json:"variant"`
	Parameters  ModelParameters `json:"parameters"`
	History     Series          `json:"history"`
	Predictions Series          `json:"predictions"`
	Insights    Insights        `json:"insights"`
}
