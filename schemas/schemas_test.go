package schemas

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	names, err := fs.Glob(FS, "*.schema.json")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{CoursePolicy, ExperienceRecords}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, name := range []string{CoursePolicy, ExperienceRecords} {
		t.Run(name, func(t *testing.T) {
			data, err := Load(name)
			require.NoError(t, err)
			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err)
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("missing.schema.json")
	assert.Error(t, err)
}
