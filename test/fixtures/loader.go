package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// LoadPactResponse loads a recorded chainweb Pact API response body.
func LoadPactResponse(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join(fixturesDir(), "pact", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture Pact response: %s", filename)
	return data
}
