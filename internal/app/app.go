package app

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/edward-yakop/go-hfsnap/internal/core"
	"github.com/edward-yakop/go-hfsnap/internal/misc"
)

var log = misc.NewLogger("App", 2)

// App downloads a repository snapshot and verifies its essential files
//
type App struct {
	option  AppOption
	fetcher core.Fetcher
	out     io.Writer
}

// NewApp create an application instance. Status lines go to stdout unless
// changed with SetOutput.
//
func NewApp(opt *AppOption, fetcher core.Fetcher) *App {
	return &App{
		option:  *opt,
		fetcher: fetcher,
		out:     os.Stdout,
	}
}

func (app *App) SetOutput(w io.Writer) *App {
	app.out = w
	return app
}

// Request the snapshot request the App hands to its fetcher
func (app *App) Request() core.SnapshotRequest {
	opt := app.option
	cacheDir := opt.CacheDir
	if cacheDir == "" {
		cacheDir = DefaultCacheDir(opt.ModelDir)
	}
	return core.SnapshotRequest{
		RepoID:        opt.Repo.ID,
		Revision:      opt.Repo.Revision,
		LocalDir:      opt.ModelDir,
		CacheDir:      cacheDir,
		UseSymlinks:   false,
		Resume:        true,
		AllowPatterns: opt.Repo.AllowPatterns,
	}
}

// Execute ensure the model folder, fetch the snapshot into it and check the
// essential files
//
func (app *App) Execute(ctx context.Context) Result {
	var (
		opt       = app.option
		req       = app.Request()
		startTime = time.Now()
	)

	if err := os.MkdirAll(opt.ModelDir, 0755); err != nil {
		log.Error("Create folder (%s) failed: %v.", opt.ModelDir, err)
		err = errors.Wrap(err, "Create folder ["+opt.ModelDir+"] failed")
		app.failure("❌ Error downloading model: %v\n", err)
		return retrievalFailed(err)
	}

	app.info("Downloading %s model to %s\n", opt.Repo.Name(), opt.ModelDir)
	app.info("Repository: %s\n", req.RepoID)
	app.info("Cache directory: %s\n", req.CacheDir)

	if err := app.fetcher.Snapshot(ctx, req); err != nil {
		log.Error("Snapshot %s failed: %v.", req.RepoID, err)
		app.failure("❌ Error downloading model: %v\n", err)
		return retrievalFailed(err)
	}
	app.success("✅ Model downloaded successfully to %s\n", opt.ModelDir)

	missing := MissingFiles(opt.ModelDir, opt.Repo.EssentialFiles)
	if len(missing) > 0 {
		log.Warn("Missing essential files in %s: %v.", opt.ModelDir, missing)
		app.warning("⚠️  Warning: Missing essential files: %v\n", missing)
		return Result{Kind: KindIncomplete, Missing: missing}
	}

	app.success("✅ All essential model files verified\n")
	log.Info("Time cost: %v.", time.Since(startTime))
	return Result{Kind: KindOK}
}

func (app *App) info(format string, v ...interface{}) {
	_, _ = color.New(color.Reset).Fprintf(app.out, format, v...)
}

func (app *App) success(format string, v ...interface{}) {
	_, _ = color.New(color.FgGreen).Fprintf(app.out, format, v...)
}

func (app *App) warning(format string, v ...interface{}) {
	_, _ = color.New(color.FgYellow).Fprintf(app.out, format, v...)
}

func (app *App) failure(format string, v ...interface{}) {
	_, _ = color.New(color.FgRed).Fprintf(app.out, format, v...)
}
