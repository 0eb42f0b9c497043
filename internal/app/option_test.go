package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edward-yakop/go-hfsnap/internal/hub"
)

func TestParseOption_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HF_ENDPOINT", "")

	opt, err := ParseOption(ArgsList{ModelDir: DefaultModelDir})
	require.NoError(t, err)

	assert.Equal(t, DefaultModelDir, opt.ModelDir)
	assert.Equal(t, filepath.Join(DefaultModelDir, "cache"), opt.CacheDir)
	assert.Equal(t, "ByteDance-Seed/BAGEL-7B-MoT", opt.Repo.ID)
	assert.Equal(t, "main", opt.Repo.Revision)
	assert.Equal(t, hub.DefaultEndpoint, opt.Endpoint)
	assert.Empty(t, opt.Token)
}

func TestParseOption_Environment(t *testing.T) {
	t.Setenv("HF_TOKEN", "hf_env")
	t.Setenv("HF_ENDPOINT", "https://mirror.example")

	opt, err := ParseOption(ArgsList{ModelDir: "m"})
	require.NoError(t, err)
	assert.Equal(t, "hf_env", opt.Token)
	assert.Equal(t, "https://mirror.example", opt.Endpoint)

	opt, err = ParseOption(ArgsList{ModelDir: "m", Token: "hf_flag", Endpoint: "https://flag.example"})
	require.NoError(t, err)
	assert.Equal(t, "hf_flag", opt.Token)
	assert.Equal(t, "https://flag.example", opt.Endpoint)
}

func TestParseOption_Overrides(t *testing.T) {
	opt, err := ParseOption(ArgsList{ModelDir: "m", CacheDir: "/tmp/c", RepoID: "acme/tiny", Revision: "v1"})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/c", opt.CacheDir)
	assert.Equal(t, "acme/tiny", opt.Repo.ID)
	assert.Equal(t, "tiny", opt.Repo.Name())
	assert.Equal(t, "v1", opt.Repo.Revision)
	assert.Equal(t, DefaultRepoConfig().EssentialFiles, opt.Repo.EssentialFiles)
}

func TestParseOption_Invalid(t *testing.T) {
	for _, args := range []ArgsList{
		{ModelDir: ""},
		{ModelDir: "m", RepoID: "no-owner"},
		{ModelDir: "m", RepoID: "a/b/c"},
		{ModelDir: "m", RepoID: "/b"},
	} {
		_, err := ParseOption(args)
		assert.Error(t, err, "%+v", args)
	}
}

func TestParseOption_BlankNameIsAPath(t *testing.T) {
	opt, err := ParseOption(ArgsList{ModelDir: "  "})
	require.NoError(t, err)
	assert.Equal(t, "  ", opt.ModelDir)
	assert.Equal(t, filepath.Join("  ", "cache"), opt.CacheDir)
}

func TestMissingFiles(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, []string{"a", "b"}, MissingFiles(dir, []string{"a", "b"}))
	assert.Empty(t, MissingFiles(dir, nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ok", KindOK.String())
	assert.Equal(t, "retrieval failed", KindRetrievalFailed.String())
	assert.Equal(t, "incomplete", KindIncomplete.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
