package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusApproved, StatusRejected, StatusManualReview} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("pending").Valid())
	assert.False(t, Status("").Valid())
}

func TestCreateValidationRequest_Validation(t *testing.T) {
	doc, course := uuid.New(), uuid.New()
	tests := []struct {
		name    string
		request CreateValidationRequest
		wantErr bool
	}{
		{name: "valid default mode", request: CreateValidationRequest{DocumentID: doc, CourseID: course}},
		{name: "valid first mode", request: CreateValidationRequest{DocumentID: doc, CourseID: course, Mode: ModeFirst}},
		{name: "missing document", request: CreateValidationRequest{CourseID: course}, wantErr: true},
		{name: "missing course", request: CreateValidationRequest{DocumentID: doc}, wantErr: true},
		{name: "unknown mode", request: CreateValidationRequest{DocumentID: doc, CourseID: course, Mode: "best"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateValidationRequest_EffectiveMode(t *testing.T) {
	assert.Equal(t, ModeAll, (&CreateValidationRequest{}).EffectiveMode())
	assert.Equal(t, ModeFirst, (&CreateValidationRequest{Mode: ModeFirst}).EffectiveMode())
}

func TestBatchValidationRequest_Validation(t *testing.T) {
	doc := uuid.New()
	assert.NoError(t, (&BatchValidationRequest{DocumentID: doc, CourseIDs: []uuid.UUID{uuid.New()}}).Validate())
	assert.Error(t, (&BatchValidationRequest{DocumentID: doc}).Validate())
	assert.Error(t, (&BatchValidationRequest{DocumentID: doc, CourseIDs: []uuid.UUID{uuid.Nil}}).Validate())

	tooMany := make([]uuid.UUID, 51)
	for i := range tooMany {
		tooMany[i] = uuid.New()
	}
	assert.Error(t, (&BatchValidationRequest{DocumentID: doc, CourseIDs: tooMany}).Validate())
}

func TestValidationResult_JSON(t *testing.T) {
	score := 1.0
	result := ValidationResult{
		Status:         StatusApproved,
		RequiredMonths: 12,
		FoundMonths:    14,
		PositionMatch:  StringPtr("Auxiliar Administrativo"),
		Details: ValidationDetails{
			PositionFound:     StringPtr("Auxiliar Administrativo"),
			AcceptedPositions: []string{"Auxiliar Administrativo"},
			SimilarityScore:   &score,
			Reason:            "meets all requirements",
		},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "approved", raw["status"])
	details := raw["details"].(map[string]any)
	assert.Nil(t, details["company"])
	assert.Contains(t, details, "company")
	assert.Equal(t, "meets all requirements", details["reason"])
	assert.Equal(t, map[string]any{"start": nil, "end": nil}, details["dates"])
}

func TestValidationDetails_OmitsMissingScore(t *testing.T) {
	data, err := json.Marshal(ValidationDetails{Reason: "duration could not be determined"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "similarity_score")
}
