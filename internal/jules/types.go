// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

package jules

// SessionState is the lifecycle state of a session, as reported by the API.
// Transitions happen upstream only; this client never advances state locally.
type SessionState string

const (
	StateUnspecified          SessionState = "STATE_UNSPECIFIED"
	StateQueued               SessionState = "QUEUED"
	StatePlanning             SessionState = "PLANNING"
	StateAwaitingPlanApproval SessionState = "AWAITING_PLAN_APPROVAL"
	StateAwaitingUserFeedback SessionState = "AWAITING_USER_FEEDBACK"
	StateInProgress           SessionState = "IN_PROGRESS"
	StatePaused               SessionState = "PAUSED"
	StateFailed               SessionState = "FAILED"
	StateCompleted            SessionState = "COMPLETED"
)

// Terminal reports whether the session has finished and will not change again.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// AutomationMode controls how much of a session runs without user input.
type AutomationMode string

const (
	AutomationModeUnspecified AutomationMode = "AUTOMATION_MODE_UNSPECIFIED"
	FullyAutomatic            AutomationMode = "FULLY_AUTOMATIC"
	SemiAutomatic             AutomationMode = "SEMI_AUTOMATIC"
)

// Branch is a git branch as the API describes it.
type Branch struct {
	DisplayName string `json:"displayName,omitempty"`
}

// GitHubRepo holds the repository metadata attached to a source.
type GitHubRepo struct {
	Owner         string   `json:"owner"`
	Repo          string   `json:"repo"`
	IsPrivate     bool     `json:"isPrivate,omitempty"`
	DefaultBranch *Branch  `json:"defaultBranch,omitempty"`
	Branches      []Branch `json:"branches,omitempty"`
}

// Source is a repository the API can work against. Its Name doubles as the
// URL path for get requests (e.g. "sources/github/owner/repo").
type Source struct {
	Name       string      `json:"name"`
	ID         string      `json:"id,omitempty"`
	GitHubRepo *GitHubRepo `json:"githubRepo,omitempty"`
}

// SourceContext pins a session to a source and optional branch.
type SourceContext struct {
	Source string `json:"source"`
	Branch string `json:"branch,omitempty"`
}

// PullRequest is a PR produced by a completed session.
type PullRequest struct {
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	State string `json:"state,omitempty"`
}

// SessionOutput wraps a single output artifact of a session.
type SessionOutput struct {
	PullRequest *PullRequest `json:"pullRequest,omitempty"`
}

// Session is an upstream-tracked coding task.
type Session struct {
	Name                string          `json:"name,omitempty"`
	ID                  string          `json:"id,omitempty"`
	Prompt              string          `json:"prompt,omitempty"`
	SourceContext       *SourceContext  `json:"sourceContext,omitempty"`
	Title               string          `json:"title,omitempty"`
	RequirePlanApproval bool            `json:"requirePlanApproval,omitempty"`
	AutomationMode      AutomationMode  `json:"automationMode,omitempty"`
	CreateTime          string          `json:"createTime,omitempty"`
	UpdateTime          string          `json:"updateTime,omitempty"`
	State               SessionState    `json:"state,omitempty"`
	URL                 string          `json:"url,omitempty"`
	Outputs             []SessionOutput `json:"outputs,omitempty"`
}

// Activity is one ordered record of work inside a session.
type Activity struct {
	Name       string         `json:"name,omitempty"`
	ID         string         `json:"id,omitempty"`
	CreateTime string         `json:"createTime,omitempty"`
	UpdateTime string         `json:"updateTime,omitempty"`
	State      string         `json:"state,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Content    map[string]any `json:"content,omitempty"`
}

// ListSourcesResponse is one page of sources.
type ListSourcesResponse struct {
	Sources       []Source `json:"sources"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// ListSessionsResponse is one page of sessions.
type ListSessionsResponse struct {
	Sessions      []Session `json:"sessions"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
}

// ListActivitiesResponse is one page of activities for a session.
type ListActivitiesResponse struct {
	Activities    []Activity `json:"activities"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// CreateSessionRequest is the body for session creation.
type CreateSessionRequest struct {
	Prompt              string         `json:"prompt"`
	SourceContext       SourceContext  `json:"sourceContext"`
	Title               string         `json:"title,omitempty"`
	RequirePlanApproval bool           `json:"requirePlanApproval,omitempty"`
	AutomationMode      AutomationMode `json:"automationMode,omitempty"`
}

// sendMessageRequest is the body for the :sendMessage custom verb.
type sendMessageRequest struct {
	Prompt string `json:"prompt"`
}

// Ack confirms a verb that returns an empty body on success
// (:sendMessage, :approvePlan).
type Ack struct {
	Success bool   `json:"success"`
	Session string `json:"session"`
}
