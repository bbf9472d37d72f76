// Package model holds the domain types for issue-to-PR lookups.
package model

import "fmt"

// PRState is the lifecycle state of a pull request as reported by the
// GitHub GraphQL API. The API uses uppercase literals.
type PRState string

const (
	PRStateOpen   PRState = "OPEN"
	PRStateClosed PRState = "CLOSED"
	PRStateMerged PRState = "MERGED"
)

// IsOpen reports whether the state is exactly "OPEN". The comparison is
// case-sensitive: CLOSED, MERGED, and any unrecognized value (including a
// lowercase "open") are all treated as not open.
func (s PRState) IsOpen() bool {
	return s == PRStateOpen
}

// LookupRequest identifies the issue to check for a linked open PR.
type LookupRequest struct {
	Owner       string
	Repo        string
	IssueNumber int
}

// Validate checks that the request identifies an issue. The resolver itself
// never rejects input; validation belongs to the caller's boundary.
func (r LookupRequest) Validate() error {
	if r.Owner == "" {
		return fmt.Errorf("owner must not be empty")
	}
	if r.Repo == "" {
		return fmt.Errorf("repo must not be empty")
	}
	if r.IssueNumber <= 0 {
		return fmt.Errorf("issue number must be positive, got %d", r.IssueNumber)
	}
	return nil
}

// String formats the request as "owner/repo#N" for logs and errors.
func (r LookupRequest) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.IssueNumber)
}

// CandidatePR is a pull request produced by one of the finder strategies.
// State is whatever the API reported at query time; nothing is cached.
type CandidatePR struct {
	Number int
	State  PRState
}

// LookupResult is the resolver's answer. PRNumber is meaningful only when
// Found is true, and then always refers to an open pull request.
type LookupResult struct {
	Found    bool `json:"found"`
	PRNumber int  `json:"pr_number,omitempty"`
}
