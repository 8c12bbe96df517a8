package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// TestMain builds the pinboard binary once before running tests.
func TestMain(m *testing.M) {
	projectRoot, err := FindProjectRoot()
	if err != nil {
		buildErr = err
		os.Exit(1)
	}

	tmpDir, err := os.MkdirTemp("", "pinboard-test-*")
	if err != nil {
		buildErr = err
		os.Exit(1)
	}
	pinboardBin = filepath.Join(tmpDir, "pinboard")

	cmd := exec.Command("go", "build", "-o", pinboardBin, "./cmd/pinboard")
	cmd.Dir = projectRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		buildErr = &BuildError{Err: err, Output: string(output)}
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func TestInitCreatesCache(t *testing.T) {
	tests := []struct {
		backend string
		file    string
	}{
		{backend: types.CacheJSON, file: "snapshot.json"},
		{backend: types.CacheSQLite, file: "pinboard.db"},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			env := NewTestEnv(t, tt.backend)
			env.MustRun("init")
			_, err := os.Stat(filepath.Join(env.DataDir, tt.file))
			assert.NoError(t, err)
		})
	}
}

func TestVersion(t *testing.T) {
	env := NewTestEnv(t, types.CacheJSON)
	result := env.MustRun("version")
	assert.Contains(t, result.Stdout, "pinboard")
}

func TestClientAndCardLifecycle(t *testing.T) {
	for _, backend := range []string{types.CacheJSON, types.CacheSQLite} {
		t.Run(backend, func(t *testing.T) {
			env := NewTestEnv(t, backend)

			acme := ParseJSON[types.Client](t, env.MustRun("client", "add", "--name", "  Acme ").Stdout)
			assert.Equal(t, "Acme", acme.Name)
			beta := ParseJSON[types.Client](t, env.MustRun("client", "add", "--name", "Beta").Stdout)

			env.MustRun("client", "use", acme.ID)
			card := ParseJSON[types.ContentCard](t, env.MustRun("card", "add", "--title", "Launch", "--tag", "promo").Stdout)
			assert.Equal(t, acme.ID, card.ClientID, "defaults to the current client")
			assert.Equal(t, types.DefaultCardStatus, card.Status)
			env.MustRun("card", "add", "--client", acme.ID)
			env.MustRun("card", "add", "--client", beta.ID)

			dup := ParseJSON[types.ContentCard](t, env.MustRun("card", "duplicate", card.ID).Stdout)
			assert.NotEqual(t, card.ID, dup.ID)
			assert.Equal(t, "Launch (copy)", dup.Title)
			assert.Equal(t, []string{"promo"}, dup.Tags)

			updated := ParseJSON[types.ContentCard](t, env.MustRun("card", "update", card.ID, "--status", "Done", "--favorite").Stdout)
			assert.Equal(t, "Done", updated.Status)
			assert.True(t, updated.IsFavorite)

			favorites := ParseJSON[[]types.ContentCard](t, env.MustRun("card", "list", "--favorite").Stdout)
			require.Len(t, favorites, 1)
			assert.Equal(t, card.ID, favorites[0].ID)

			deleted := ParseJSON[map[string]any](t, env.MustRun("client", "delete", acme.ID).Stdout)
			assert.EqualValues(t, 3, deleted["cardsRemoved"])

			cards := ParseJSON[[]types.ContentCard](t, env.MustRun("card", "list").Stdout)
			require.Len(t, cards, 1)
			assert.Equal(t, beta.ID, cards[0].ClientID)

			clients := ParseJSON[[]types.Client](t, env.MustRun("client", "list").Stdout)
			require.Len(t, clients, 1)
			assert.Equal(t, "Beta", clients[0].Name)
		})
	}
}

func TestUnknownIDsAreUserErrors(t *testing.T) {
	env := NewTestEnv(t, types.CacheJSON)

	tests := [][]string{
		{"client", "update", "nope", "--name", "x"},
		{"client", "delete", "nope"},
		{"client", "use", "nope"},
		{"card", "update", "nope", "--title", "x"},
		{"card", "delete", "nope"},
		{"card", "duplicate", "nope"},
	}
	for _, args := range tests {
		result := env.Run(args...)
		assert.Equal(t, 1, result.ExitCode, "%v", args)
		assert.Contains(t, result.Stderr, "nope")
	}
}

func TestSyncWithoutRemote(t *testing.T) {
	env := NewTestEnv(t, types.CacheJSON)
	env.MustRun("client", "add", "--name", "Acme")

	res := ParseJSON[map[string]any](t, env.MustRun("sync").Stdout)
	assert.Equal(t, false, res["remote"])
	assert.EqualValues(t, 1, res["clients"])
}

func TestCorruptCacheStartsEmpty(t *testing.T) {
	env := NewTestEnv(t, types.CacheJSON)
	require.NoError(t, os.MkdirAll(env.DataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.DataDir, "snapshot.json"), []byte("{not json"), 0o644))

	clients := ParseJSON[[]types.Client](t, env.MustRun("client", "list").Stdout)
	assert.Empty(t, clients)
}
