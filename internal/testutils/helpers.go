package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateInstallRoot creates a temporary installation layout with a VERSION
// file and the bundled template directory. It returns the install root.
func CreateInstallRoot(t *testing.T, version string) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "docforge")
	err := os.MkdirAll(filepath.Join(root, "data", "templates"), 0755)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(root, "VERSION"), []byte(version), 0644)
	require.NoError(t, err)

	return root
}

// CreateAlternateTemplates creates the templates directory next to root, as
// laid out when docforge is installed as a dependency.
func CreateAlternateTemplates(t *testing.T, root string) string {
	t.Helper()

	dir := filepath.Join(filepath.Dir(root), "templates")
	require.NoError(t, os.MkdirAll(dir, 0755))

	return dir
}

// WriteConfigFile writes a docforge YAML configuration into a temporary
// directory and returns its path.
func WriteConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".docforge.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}
