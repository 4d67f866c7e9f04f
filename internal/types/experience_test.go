package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceRecord_IsEmpty(t *testing.T) {
	assert.True(t, ExperienceRecord{}.IsEmpty())
	assert.False(t, ExperienceRecord{CompanyName: StringPtr("Loja Azul")}.IsEmpty())
	assert.False(t, ExperienceRecord{MonthsWorked: IntPtr(0)}.IsEmpty())
}

func TestExperienceRecord_Months(t *testing.T) {
	assert.Equal(t, 0, ExperienceRecord{}.Months())
	assert.Equal(t, 7, ExperienceRecord{MonthsWorked: IntPtr(7)}.Months())
}

func TestExperienceRecord_JSON(t *testing.T) {
	var rec ExperienceRecord
	err := json.Unmarshal([]byte(`{"company_name": "Comercial Silva", "position": null, "months_worked": 18}`), &rec)
	require.NoError(t, err)
	assert.Equal(t, "Comercial Silva", StringValue(rec.CompanyName))
	assert.Nil(t, rec.Position)
	assert.Equal(t, 18, rec.Months())

	data, err := json.Marshal(ExperienceRecord{Position: StringPtr("Vendedor")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position": "Vendedor"}`, string(data))
}

func TestStringValue(t *testing.T) {
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, "x", StringValue(StringPtr("x")))
}

func TestCreateDocumentRequest_Validation(t *testing.T) {
	assert.NoError(t, (&CreateDocumentRequest{Filename: "ctps.pdf", FileType: FileTypePDF}).Validate())
	assert.NoError(t, (&CreateDocumentRequest{Filename: "ctps.txt"}).Validate())
	assert.Error(t, (&CreateDocumentRequest{FileType: FileTypeText}).Validate())
	assert.Error(t, (&CreateDocumentRequest{Filename: "ctps.doc", FileType: "docx"}).Validate())
}
