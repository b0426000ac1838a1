package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range []string{ResumeFile, JSONResumeFile} {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			assert.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestEmbeddedSchemas_Compile(t *testing.T) {
	for name, content := range map[string]string{ResumeFile: Resume, JSONResumeFile: JSONResume} {
		t.Run(name, func(t *testing.T) {
			require.NotEmpty(t, content)
			_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
			assert.NoError(t, err)
		})
	}
}
