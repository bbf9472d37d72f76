package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/triagekit/prlinked/internal/domain/model"
	"github.com/triagekit/prlinked/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRFinder = (*SearchFinder)(nil)

// SearchFinder is the fallback strategy: a single issue-search call scoped
// to open pull requests in the repository that mention the issue number.
type SearchFinder struct {
	client *Client
}

// NewSearchFinder returns a finder backed by the given client.
func NewSearchFinder(client *Client) *SearchFinder {
	return &SearchFinder{client: client}
}

// Name identifies the strategy in logs.
func (f *SearchFinder) Name() string { return "search" }

// FindOpenPR takes the first search item as the answer. Items are open by
// construction of the query (the state:open qualifier); their state field
// is not re-validated here. Only the first result page is consulted.
func (f *SearchFinder) FindOpenPR(ctx context.Context, req model.LookupRequest) (*model.CandidatePR, error) {
	query := fmt.Sprintf("%d repo:%s/%s type:pr state:open", req.IssueNumber, req.Owner, req.Repo)
	opts := &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: 10},
	}

	result, resp, err := f.client.gh.Search.Issues(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("searching open PRs for %s: %w", req, err)
	}

	logRateLimit(resp, req.Owner+"/"+req.Repo+"/search", len(result.Issues))

	if len(result.Issues) == 0 {
		return nil, nil
	}

	return &model.CandidatePR{
		Number: result.Issues[0].GetNumber(),
		State:  model.PRStateOpen,
	}, nil
}
