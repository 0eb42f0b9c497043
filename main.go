package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"unknwon.dev/clog/v2"

	"github.com/edward-yakop/go-hfsnap/internal/app"
	"github.com/edward-yakop/go-hfsnap/internal/core"
	"github.com/edward-yakop/go-hfsnap/internal/hub"
	"github.com/edward-yakop/go-hfsnap/internal/misc"
)

type fetcherFactory func(opt *app.AppOption) core.Fetcher

func newHubFetcher(opt *app.AppOption) core.Fetcher {
	return hub.NewClient(hub.Options{
		Endpoint: opt.Endpoint,
		Token:    opt.Token,
	})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, newHubFetcher)
	stop()
	clog.Stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdout io.Writer, newFetcher fetcherFactory) int {
	args := app.ArgsList{}
	flags := pflag.NewFlagSet("hfsnap", pflag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.StringVar(&args.ModelDir,
		"model_dir", app.DefaultModelDir,
		"Directory to save the model")
	flags.StringVar(&args.CacheDir,
		"cache_dir", "",
		"Cache directory for hub downloads (default <model_dir>/cache)")
	flags.StringVar(&args.RepoID,
		"repo_id", "",
		"Repository to fetch (default "+app.DefaultRepoConfig().ID+")")
	flags.StringVar(&args.Revision,
		"revision", "",
		"Branch, tag or commit to fetch (default main)")
	flags.StringVar(&args.Token,
		"token", "",
		"Hub access token (default $HF_TOKEN)")
	flags.StringVar(&args.Endpoint,
		"endpoint", "",
		"Hub endpoint (default $HF_ENDPOINT or "+hub.DefaultEndpoint+")")
	flags.BoolVar(&args.Verbose,
		"verbose", false,
		"verbose output trace log")
	if err := flags.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}

	if err := misc.SetDefaultLog(args.Verbose); err != nil {
		fmt.Fprintf(stdout, "Error: %s\n", err)
		return 1
	}

	opt, err := app.ParseOption(args)
	if err != nil {
		fmt.Fprintln(stdout, "--------------------------------------------")
		fmt.Fprintf(stdout, "Error: %s\n", err)
		fmt.Fprintln(stdout, "--------------------------------------------")
		fmt.Fprintln(stdout, "Usage:")
		flags.PrintDefaults()
		return 1
	}

	result := app.NewApp(opt, newFetcher(opt)).
		SetOutput(stdout).
		Execute(ctx)

	if result.OK() {
		_, _ = color.New(color.FgGreen).Fprintln(stdout, "\n🎉 Model download completed successfully!")
		fmt.Fprintf(stdout, "You can now run the app with: python app.py --model_path %s\n", opt.ModelDir)
	} else {
		_, _ = color.New(color.FgRed).Fprintln(stdout, "\n❌ Model download failed!")
	}
	return result.ExitCode()
}
