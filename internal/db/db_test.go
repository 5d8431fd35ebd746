package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-scorer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalysis_KeepsUUID(t *testing.T) {
	id := uuid.New()
	result := &types.AnalysisResult{ID: id.String(), FinalScore: 72.5, Grade: types.GradeC}

	a, err := NewAnalysis(result, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, id, a.ID)
	assert.Equal(t, 72.5, a.FinalScore)
	assert.Equal(t, types.GradeC, a.Grade)
	assert.Nil(t, a.Enhanced)
}

func TestNewAnalysis_AssignsIDWhenMissing(t *testing.T) {
	result := &types.AnalysisResult{ID: "not-a-uuid", FinalScore: 40, Grade: types.GradeF}

	a, err := NewAnalysis(result, nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, a.ID.String(), result.ID)
}

func TestNewAnalysis_EnhancedScoreWins(t *testing.T) {
	result := &types.AnalysisResult{FinalScore: 65, Grade: types.GradeD}
	enhanced := &types.EnhancedAnalysisResult{FinalScore: 79.5, Grade: types.GradeC}
	ml := &types.MLScore{Score: 94, Method: "embedding"}

	a, err := NewAnalysis(result, enhanced, ml)
	require.NoError(t, err)

	assert.Equal(t, 79.5, a.FinalScore)
	assert.Equal(t, types.GradeC, a.Grade)
	assert.Equal(t, a.ID.String(), enhanced.ID)
	assert.Same(t, ml, a.ML)
}

func TestNewAnalysis_NilResult(t *testing.T) {
	a, err := NewAnalysis(nil, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestDecodeColumns(t *testing.T) {
	var a Analysis
	err := decodeColumns(&a,
		[]byte(`{"final_score": 81, "grade": "B", "breakdown": {"readability": 9}}`),
		nil,
		[]byte(`{"score": 88, "method": "ranker", "explanation": "x", "similarity": 0.8}`),
	)
	require.NoError(t, err)

	assert.Equal(t, 81.0, a.Result.FinalScore)
	assert.Equal(t, 9.0, a.Result.Breakdown[types.Readability])
	assert.Nil(t, a.Enhanced)
	require.NotNil(t, a.ML)
	assert.Equal(t, "ranker", a.ML.Method)
}

func TestDecodeColumns_BadJSON(t *testing.T) {
	var a Analysis
	err := decodeColumns(&a, []byte(`{`), nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode result")
}

func TestMarshalOptional(t *testing.T) {
	b, err := marshalOptional(false, nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = marshalOptional(true, map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(b))
}
