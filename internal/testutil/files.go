package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles writes files, keyed by relative path, under a fresh temporary
// directory and returns that directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return root
}

// ScenarioProject writes the shop fixture manifests plus extra files, such
// as a selectors.yml, to a temporary project directory.
func ScenarioProject(t *testing.T, extra map[string]string) string {
	t.Helper()
	files := make(map[string]string, len(ScenarioHCL)+len(extra))
	for name, content := range ScenarioHCL {
		files[name] = content
	}
	for name, content := range extra {
		files[name] = content
	}
	return WriteFiles(t, files)
}
