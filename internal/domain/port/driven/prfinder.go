package driven

import (
	"context"

	"github.com/triagekit/prlinked/internal/domain/model"
)

// PRFinder defines the driven port for one strategy of locating an open
// pull request linked to an issue. Implementations perform exactly one
// outbound call per invocation.
type PRFinder interface {
	// Name identifies the strategy in logs.
	Name() string

	// FindOpenPR returns the first open pull request linked to the issue,
	// or nil when the strategy found none. A non-nil error means the lookup
	// could not be performed (transport or response-shape failure), not
	// that no PR exists.
	FindOpenPR(ctx context.Context, req model.LookupRequest) (*model.CandidatePR, error)
}
