package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-scorer/internal/types"
)

// Analysis is a persisted analysis row. Result is always present; Enhanced
// and ML are set when the caller ran the fusion layer.
type Analysis struct {
	ID         uuid.UUID                     `json:"id"`
	FinalScore float64                       `json:"final_score"`
	Grade      types.Grade                   `json:"grade"`
	Result     *types.AnalysisResult         `json:"result"`
	Enhanced   *types.EnhancedAnalysisResult `json:"enhanced,omitempty"`
	ML         *types.MLScore                `json:"ml,omitempty"`
	CreatedAt  time.Time                     `json:"created_at"`
}

// AnalysisSummary is the lightweight list view of an analysis.
type AnalysisSummary struct {
	ID         uuid.UUID   `json:"id"`
	FinalScore float64     `json:"final_score"`
	Grade      types.Grade `json:"grade"`
	Enhanced   bool        `json:"enhanced"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AnalysisFilters holds optional filters for listing analyses.
type AnalysisFilters struct {
	Grade    types.Grade
	MinScore float64
	Limit    int
}
