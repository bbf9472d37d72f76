package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/triagekit/prlinked/internal/domain/model"
	"github.com/triagekit/prlinked/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PRFinder = (*TimelineFinder)(nil)

const linkedPRQuery = `query($owner: String!, $repo: String!, $issue: Int!) {
	repository(owner: $owner, name: $repo) {
		issue(number: $issue) {
			timelineItems(itemTypes: [CROSS_REFERENCED_EVENT], first: 20) {
				nodes {
					... on CrossReferencedEvent {
						source {
							... on PullRequest {
								number
								state
							}
						}
					}
				}
			}
		}
	}
}`

// graphqlRequest is the JSON body sent to the GitHub GraphQL API.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse represents the expected shape of a GitHub GraphQL response
// for an issue's cross-referencing timeline items. Missing keys decode to
// zero values, which read as "no data" rather than failing.
type graphqlResponse struct {
	Data struct {
		Repository struct {
			Issue struct {
				TimelineItems struct {
					Nodes []struct {
						Source struct {
							Number int           `json:"number"`
							State  model.PRState `json:"state"`
						} `json:"source"`
					} `json:"nodes"`
				} `json:"timelineItems"`
			} `json:"issue"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// TimelineFinder is the structured-query strategy: one GraphQL round trip
// fetching the issue's cross-referencing timeline items and the state of
// each source pull request.
type TimelineFinder struct {
	client *Client
}

// NewTimelineFinder returns a finder backed by the given client.
func NewTimelineFinder(client *Client) *TimelineFinder {
	return &TimelineFinder{client: client}
}

// Name identifies the strategy in logs.
func (f *TimelineFinder) Name() string { return "timeline" }

// FindOpenPR returns the first timeline source whose state is OPEN, in list
// order. CLOSED, MERGED, and unrecognized states are skipped, and a list
// without an OPEN entry yields (nil, nil) so the caller can fall back.
func (f *TimelineFinder) FindOpenPR(ctx context.Context, req model.LookupRequest) (*model.CandidatePR, error) {
	reqBody := graphqlRequest{
		Query: linkedPRQuery,
		Variables: map[string]any{
			"owner": req.Owner,
			"repo":  req.Repo,
			"issue": req.IssueNumber,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling timeline query for %s: %w", req, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, f.client.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating timeline request for %s: %w", req, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("timeline query for %s: %w", req, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timeline query for %s: HTTP %d", req, resp.StatusCode)
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("decoding timeline response for %s: %w", req, err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("timeline query for %s: %s", req, gqlResp.Errors[0].Message)
	}

	for _, node := range gqlResp.Data.Repository.Issue.TimelineItems.Nodes {
		if node.Source.State.IsOpen() {
			return &model.CandidatePR{
				Number: node.Source.Number,
				State:  node.Source.State,
			}, nil
		}
	}

	return nil, nil
}
