package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/experience-validator/internal/types"
)

func TestMigrationNames(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])

	sqlBytes, err := migrationFS.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	for _, table := range []string{"courses", "documents", "extractions", "validations"} {
		assert.Contains(t, string(sqlBytes), "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("other")))
	assert.False(t, isUniqueViolation(nil))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(nil))
	assert.Nil(t, nullIfEmpty(types.StringPtr("")))
	assert.Equal(t, "x", *nullIfEmpty(types.StringPtr("x")))
}

func TestStringArray_ScanValue(t *testing.T) {
	var a StringArray
	require.NoError(t, a.Scan([]byte(`["Conferente","Estoquista"]`)))
	assert.Equal(t, StringArray{"Conferente", "Estoquista"}, a)

	require.NoError(t, a.Scan(`["Expedidor"]`))
	assert.Equal(t, StringArray{"Expedidor"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Equal(t, StringArray{}, a)

	assert.Error(t, a.Scan(42))

	v, err := StringArray(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = StringArray{"Cuidador"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["Cuidador"]`, string(v.([]byte)))
}

func TestCourse_Policy(t *testing.T) {
	c := &Course{MinimumMonths: 18, AcceptedPositions: StringArray{"Cuidador"}}
	p := c.Policy()
	assert.Equal(t, 18, p.MinimumMonths)
	assert.Equal(t, []string{"Cuidador"}, p.AcceptedPositions)

	p.AcceptedPositions[0] = "changed"
	assert.Equal(t, "Cuidador", c.AcceptedPositions[0])
}

func TestExtraction_Records(t *testing.T) {
	rows := []Extraction{
		{Ordinal: 1, Position: types.StringPtr("Conferente"), MonthsWorked: types.IntPtr(14)},
		{Ordinal: 2, CompanyName: types.StringPtr("Loja Azul")},
	}
	recs := Records(rows)
	require.Len(t, recs, 2)
	assert.Equal(t, "Conferente", *recs[0].Position)
	assert.Equal(t, 14, *recs[0].MonthsWorked)
	assert.Equal(t, "Loja Azul", *recs[1].CompanyName)
	assert.Nil(t, recs[1].MonthsWorked)
}

func TestCourse_JSON(t *testing.T) {
	c := Course{Name: "Técnico em Logística", Code: "TEC-LOG", MinimumMonths: 12, AcceptedPositions: StringArray{"Conferente"}}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accepted_positions":["Conferente"]`)
	assert.NotContains(t, string(data), `"description"`)
}

func TestSeedCourses(t *testing.T) {
	seed := SeedCourses()
	require.Len(t, seed, 5)

	codes := map[string]bool{}
	for _, c := range seed {
		require.NoError(t, c.Validate(), c.Code)
		assert.NotEmpty(t, c.AcceptedPositions, c.Code)
		codes[c.Code] = true
	}
	for _, code := range []string{"TEC-INFO", "TEC-ADM", "TEC-ENF", "TEC-CONT", "TEC-LOG"} {
		assert.True(t, codes[code], code)
	}
	assert.Equal(t, 18, *seed[2].MinimumMonths)
}
