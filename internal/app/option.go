package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/edward-yakop/go-hfsnap/internal/hub"
)

const (
	DefaultModelDir = "models/BAGEL-7B-MoT"
	cacheFolder     = "cache"
)

// ArgsList raw command line values
type ArgsList struct {
	Verbose  bool
	ModelDir string
	CacheDir string
	RepoID   string
	Revision string
	Token    string
	Endpoint string
}

// RepoConfig describes what is fetched and what must be present afterwards.
//
type RepoConfig struct {
	ID             string
	Revision       string
	AllowPatterns  []string
	EssentialFiles []string
}

// DefaultRepoConfig BAGEL-7B-MoT checkpoint
//
func DefaultRepoConfig() RepoConfig {
	return RepoConfig{
		ID:       "ByteDance-Seed/BAGEL-7B-MoT",
		Revision: "main",
		AllowPatterns: []string{
			"*.json",
			"*.safetensors",
			"*.bin",
			"*.py",
			"*.md",
			"*.txt",
		},
		EssentialFiles: []string{
			"llm_config.json",
			"vit_config.json",
			"ae.safetensors",
			"ema.safetensors",
		},
	}
}

// Name short display name of the repository, e.g. "BAGEL-7B-MoT".
func (r RepoConfig) Name() string {
	if i := strings.LastIndex(r.ID, "/"); i >= 0 {
		return r.ID[i+1:]
	}
	return r.ID
}

// AppOption resolved options
//
type AppOption struct {
	ModelDir string
	CacheDir string
	Repo     RepoConfig
	Token    string
	Endpoint string
}

// ParseOption parse input command line, falling back to HF_TOKEN and
// HF_ENDPOINT for the hub credentials.
//
func ParseOption(args ArgsList) (*AppOption, error) {
	if args.ModelDir == "" {
		return nil, errors.New("invalid model_dir parameter: empty path")
	}

	opt := AppOption{
		ModelDir: args.ModelDir,
		CacheDir: args.CacheDir,
		Repo:     DefaultRepoConfig(),
		Token:    args.Token,
		Endpoint: args.Endpoint,
	}
	if opt.CacheDir == "" {
		opt.CacheDir = DefaultCacheDir(opt.ModelDir)
	}
	if args.RepoID != "" {
		if strings.Count(args.RepoID, "/") != 1 || strings.HasPrefix(args.RepoID, "/") || strings.HasSuffix(args.RepoID, "/") {
			return nil, errors.Errorf("invalid repo_id parameter [%s], expected <owner>/<name>", args.RepoID)
		}
		opt.Repo.ID = args.RepoID
	}
	if args.Revision != "" {
		opt.Repo.Revision = args.Revision
	}
	if opt.Token == "" {
		opt.Token = os.Getenv("HF_TOKEN")
	}
	if opt.Endpoint == "" {
		opt.Endpoint = os.Getenv("HF_ENDPOINT")
	}
	if opt.Endpoint == "" {
		opt.Endpoint = hub.DefaultEndpoint
	}

	return &opt, nil
}

// DefaultCacheDir cache location used when none is given
func DefaultCacheDir(modelDir string) string {
	return filepath.Join(modelDir, cacheFolder)
}
