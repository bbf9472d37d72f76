package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/triagekit/prlinked/internal/adapter/driven/github"
	"github.com/triagekit/prlinked/internal/application"
	"github.com/triagekit/prlinked/internal/config"
	"github.com/triagekit/prlinked/internal/domain/model"
)

// Exit codes for workflow callers: 0 means an open PR was found, 1 means
// none was found, 2 means a usage or configuration error.
const (
	exitFound    = 0
	exitNotFound = 1
	exitError    = 2
)

type cli struct {
	Owner   string `arg:"" help:"Repository owner."`
	Repo    string `arg:"" help:"Repository name."`
	Issue   int    `arg:"" help:"Issue number to check."`
	JSON    bool   `help:"Emit the result as JSON."`
	Verbose bool   `short:"v" help:"Enable debug logging."`
}

func main() {
	os.Exit(run())
}

// usageExit maps kong's failure exits onto the configuration-error code.
// Kong exits 1 on a malformed invocation, which callers would otherwise
// read as "no open PR found". Help keeps its zero exit.
func usageExit(code int) int {
	if code != 0 {
		return exitError
	}
	return 0
}

func run() int {
	var args cli
	kong.Parse(&args,
		kong.Name("prlinked"),
		kong.Description("Reports whether an issue already has an open pull request referencing it."),
		kong.UsageOnError(),
		kong.Exit(func(code int) { os.Exit(usageExit(code)) }),
	)

	level := slog.LevelInfo
	if args.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	req := model.LookupRequest{Owner: args.Owner, Repo: args.Repo, IssueNumber: args.Issue}
	if err := req.Validate(); err != nil {
		slog.Error("invalid arguments", "error", err)
		return exitError
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		return exitError
	}
	slog.Debug("config loaded",
		"api_base_url", cfg.APIBaseURL,
		"http_timeout", cfg.HTTPTimeout,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := githubadapter.NewClient(cfg.AuthHeaders(), cfg.APIBaseURL, cfg.HTTPTimeout)
	if err != nil {
		slog.Error("github client error", "error", err)
		return exitError
	}

	resolver := application.NewResolver(
		githubadapter.NewTimelineFinder(client),
		githubadapter.NewSearchFinder(client),
	)

	result := resolver.Resolve(ctx, req)

	if args.JSON {
		if err := json.NewEncoder(os.Stdout).Encode(result); err != nil {
			slog.Error("encoding result", "error", err)
			return exitError
		}
	} else if result.Found {
		fmt.Printf("issue %s has open PR #%d\n", req, result.PRNumber)
	} else {
		fmt.Printf("no open PR references issue %s\n", req)
	}

	if result.Found {
		return exitFound
	}
	return exitNotFound
}
