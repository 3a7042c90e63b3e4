package models

// Requests for the analysis HTTP endpoints. Defined in domain for
// consistency and reuse.

type AnalysisRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type SignalsRequest struct {
	Symbol        string  `query:"symbol" json:"symbol" validate:"required"`
	Limit         int     `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
	MinConfidence float64 `query:"min_confidence" json:"min_confidence" validate:"gte=0,lte=100"`
	From          string  `query:"from" json:"from"`
	To            string  `query:"to" json:"to"`
}

type AdvancedRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type StateRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
