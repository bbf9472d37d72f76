// Package application contains the PR existence resolution service.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/triagekit/prlinked/internal/domain/model"
	"github.com/triagekit/prlinked/internal/domain/port/driven"
)

// Resolver answers whether an issue already has an open pull request
// referencing it. It tries its finder strategies in the order given at
// construction; each strategy is failure-isolated, so a broken primary
// never prevents the fallback from running.
//
// Resolver holds no per-call state and is safe for concurrent use.
type Resolver struct {
	finders []driven.PRFinder
}

// NewResolver creates a resolver that consults the given finders in
// priority order.
func NewResolver(finders ...driven.PRFinder) *Resolver {
	return &Resolver{finders: finders}
}

// Resolve reports whether an open pull request references the issue, and if
// so, its number. It never returns an error: transport failures, malformed
// responses, and panics inside a strategy are absorbed (with a warning log)
// and read as "no answer from that strategy". The caller cannot distinguish
// "service down" from "genuinely no open PR"; a negative result means
// "proceed as if no PR exists".
//
// A strategy that yields a PR ends the scan immediately; later strategies
// are only consulted when every earlier one produced nothing.
func (r *Resolver) Resolve(ctx context.Context, req model.LookupRequest) model.LookupResult {
	for _, finder := range r.finders {
		pr, err := findOpenPR(ctx, finder, req)
		if err != nil {
			slog.Warn("pr lookup attempt failed",
				"finder", finder.Name(),
				"issue", req.String(),
				"error", err,
			)
			continue
		}
		if pr != nil {
			return model.LookupResult{Found: true, PRNumber: pr.Number}
		}
	}

	return model.LookupResult{}
}

// findOpenPR isolates a single strategy call, converting a panic into an
// error so one misbehaving finder cannot abort the whole resolution.
func findOpenPR(ctx context.Context, finder driven.PRFinder, req model.LookupRequest) (pr *model.CandidatePR, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pr = nil
			err = fmt.Errorf("finder panicked: %v", rec)
		}
	}()
	return finder.FindOpenPR(ctx, req)
}
