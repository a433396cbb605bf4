package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linkstore/internal/links"
	"github.com/roach88/linkstore/internal/testutil"
)

// menuOptions wires a shared store and a temp data dir via a config file.
func menuOptions(t *testing.T, store *testutil.MemoryStore) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("data_dir: blobs\n"), 0o644))
	return &RootOptions{
		ConfigPath: configPath,
		Format:     "text",
		StoreFactory: func(string) (links.Store, func() error, error) {
			return store, func() error { return nil }, nil
		},
	}
}

func runMenu(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := NewMenuCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMenu_ImportAndShow(t *testing.T) {
	store := testutil.NewMemoryStore()
	opts := menuOptions(t, store)

	treePath := filepath.Join(t.TempDir(), "menu.json")
	tree := `[
  {"label": "Home", "to": "/"},
  {"label": "Admin", "items": [{"label": "Users", "to": "/admin/users"}]}
]`
	require.NoError(t, os.WriteFile(treePath, []byte(tree), 0o644))

	out, err := runMenu(t, opts, "import", treePath)
	require.NoError(t, err)
	assert.Contains(t, out, "stored 3 item(s)")
	assert.Equal(t, 3, store.Len())

	out, err = runMenu(t, opts, "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "Home"`)
	assert.Contains(t, out, `"label": "Users"`)
}

func TestMenu_ImportRejectsInvalidItem(t *testing.T) {
	store := testutil.NewMemoryStore()
	opts := menuOptions(t, store)

	treePath := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(treePath, []byte(`[{"to": "/no-label"}]`), 0o644))

	_, err := runMenu(t, opts, "import", treePath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, 0, store.Len(), "nothing stored on validation failure")
}

func TestMenu_StatsAndClear(t *testing.T) {
	store := testutil.NewMemoryStore()
	opts := menuOptions(t, store)

	treePath := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, os.WriteFile(treePath, []byte(`[{"label": "Home"}]`), 0o644))
	_, err := runMenu(t, opts, "import", treePath)
	require.NoError(t, err)

	out, err := runMenu(t, opts, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, `"totalLinks": 1`)

	_, err = runMenu(t, opts, "clear")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())
}
