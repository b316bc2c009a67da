package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julesmcp/julesmcp/internal/jules"
)

// ListSourcesInput is the input schema for the list_sources tool.
type ListSourcesInput struct {
	PageSize  int    `json:"page_size,omitempty" jsonschema:"Number of sources to return (1-100, default 30)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"Opaque pagination token from a previous response"`
}

// GetSourceInput is the input schema for the get_source tool.
type GetSourceInput struct {
	SourceName string `json:"source_name" jsonschema:"Resource name of the source (e.g. sources/github/owner/repo)"`
}

// ListSessionsInput is the input schema for the list_sessions tool.
type ListSessionsInput struct {
	PageSize   int    `json:"page_size,omitempty" jsonschema:"Number of sessions to return (1-100, default 30)"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"Opaque pagination token from a previous response"`
	ActiveOnly bool   `json:"active_only,omitempty" jsonschema:"Drop COMPLETED and FAILED sessions from the page. Filtering happens after the page is fetched, so a page may hold fewer entries than page_size; follow nextPageToken rather than assuming full pages"`
}

// GetSessionInput is the input schema for the get_session tool.
type GetSessionInput struct {
	SessionName string `json:"session_name" jsonschema:"Resource name of the session (e.g. sessions/abc123)"`
}

// CreateSessionInput is the input schema for the create_session tool.
type CreateSessionInput struct {
	Prompt              string `json:"prompt" jsonschema:"The coding task description to work on"`
	Source              string `json:"source" jsonschema:"Resource name of the source repository (e.g. sources/github/owner/repo)"`
	Branch              string `json:"branch,omitempty" jsonschema:"Branch to start from (defaults to the repository default branch)"`
	Title               string `json:"title,omitempty" jsonschema:"Session title (auto-generated if not provided)"`
	RequirePlanApproval bool   `json:"require_plan_approval,omitempty" jsonschema:"Wait for plan approval before executing (default false)"`
}

// SendMessageInput is the input schema for the send_message tool.
type SendMessageInput struct {
	SessionName string `json:"session_name" jsonschema:"Resource name of the session (e.g. sessions/abc123)"`
	Message     string `json:"message" jsonschema:"The message to send to the session"`
}

// ApprovePlanInput is the input schema for the approve_plan tool.
type ApprovePlanInput struct {
	SessionName string `json:"session_name" jsonschema:"Resource name of the session (e.g. sessions/abc123)"`
}

// ListActivitiesInput is the input schema for the list_activities tool.
type ListActivitiesInput struct {
	SessionName string `json:"session_name" jsonschema:"Resource name of the session (e.g. sessions/abc123)"`
	PageSize    int    `json:"page_size,omitempty" jsonschema:"Number of activities to return (1-100, default 50)"`
	PageToken   string `json:"page_token,omitempty" jsonschema:"Opaque pagination token from a previous response"`
}

// CreatePullRequestInput is the input schema for the create_pull_request tool.
type CreatePullRequestInput struct {
	Prompt string `json:"prompt" jsonschema:"Description of the changes to make (be specific)"`
	Source string `json:"source" jsonschema:"Resource name of the source repository (e.g. sources/github/owner/repo)"`
	Branch string `json:"branch,omitempty" jsonschema:"Base branch to create the PR against (defaults to the repository default)"`
	Title  string `json:"title,omitempty" jsonschema:"Title for the session and PR"`
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// toolHandler binds the tool handlers to the shared Jules client. The client
// is read-only after construction, so concurrent tool calls need no locking.
type toolHandler struct {
	client *jules.Client
}

// registerTools adds all nine Jules tools to the MCP server. Tool and
// parameter names are part of the external contract and must not change.
func registerTools(server *mcp.Server, client *jules.Client) {
	h := &toolHandler{client: client}

	readOnly := &mcp.ToolAnnotations{
		ReadOnlyHint:    true,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}
	mutating := &mcp.ToolAnnotations{
		ReadOnlyHint:    false,
		DestructiveHint: boolPtr(false),
		OpenWorldHint:   boolPtr(true),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sources",
		Description: "List GitHub repositories Jules can work with. Paginated; pass nextPageToken back as page_token to continue.",
		Annotations: readOnly,
	}, h.listSources)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_source",
		Description: "Get details about a source repository, including branches and repo metadata.",
		Annotations: readOnly,
	}, h.getSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List Jules sessions (coding tasks). With active_only, COMPLETED and FAILED sessions are dropped after the page is fetched, so pages may come back short; follow nextPageToken to continue.",
		Annotations: readOnly,
	}, h.listSessions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Get details about a session: state, outputs (e.g. PR URL), and web URL.",
		Annotations: readOnly,
	}, h.getSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_session",
		Description: "Create a new Jules session to work on a coding task in the given source repository.",
		Annotations: mutating,
	}, h.createSession)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a follow-up message to a session: extra context, clarified requirements, or a reply when the session awaits user feedback. Upstream decides whether the session can accept it.",
		Annotations: mutating,
	}, h.sendMessage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "approve_plan",
		Description: "Approve the session's proposed plan. Useful when the session is in AWAITING_PLAN_APPROVAL; upstream rejects the call otherwise.",
		Annotations: mutating,
	}, h.approvePlan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_activities",
		Description: "List a session's activity history (conversation and actions), oldest first. Paginated.",
		Annotations: readOnly,
	}, h.listActivities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_pull_request",
		Description: "Create a session that will end in a pull request. Check the session's outputs field for the PR URL once it completes.",
		Annotations: mutating,
	}, h.createPullRequest)
}

func (h *toolHandler) listSources(ctx context.Context, _ *mcp.CallToolRequest, input ListSourcesInput) (*mcp.CallToolResult, any, error) {
	resp, err := h.client.ListSources(ctx, jules.ListOptions{
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(resp)
}

func (h *toolHandler) getSource(ctx context.Context, _ *mcp.CallToolRequest, input GetSourceInput) (*mcp.CallToolResult, any, error) {
	source, err := h.client.GetSource(ctx, input.SourceName)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(source)
}

func (h *toolHandler) listSessions(ctx context.Context, _ *mcp.CallToolRequest, input ListSessionsInput) (*mcp.CallToolResult, any, error) {
	resp, err := h.client.ListSessions(ctx, jules.ListOptions{
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if err != nil {
		return nil, nil, err
	}

	// Client-side post-filter. The nextPageToken is forwarded verbatim no
	// matter how many entries were dropped.
	if input.ActiveOnly {
		active := make([]jules.Session, 0, len(resp.Sessions))
		for _, s := range resp.Sessions {
			if !s.State.Terminal() {
				active = append(active, s)
			}
		}
		resp.Sessions = active
	}

	return jsonResult(resp)
}

func (h *toolHandler) getSession(ctx context.Context, _ *mcp.CallToolRequest, input GetSessionInput) (*mcp.CallToolResult, any, error) {
	session, err := h.client.GetSession(ctx, input.SessionName)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(session)
}

func (h *toolHandler) createSession(ctx context.Context, _ *mcp.CallToolRequest, input CreateSessionInput) (*mcp.CallToolResult, any, error) {
	session, err := h.client.CreateSession(ctx, jules.CreateSessionRequest{
		Prompt: input.Prompt,
		SourceContext: jules.SourceContext{
			Source: input.Source,
			Branch: input.Branch,
		},
		Title:               input.Title,
		RequirePlanApproval: input.RequirePlanApproval,
	})
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(session)
}

func (h *toolHandler) sendMessage(ctx context.Context, _ *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, any, error) {
	ack, err := h.client.SendMessage(ctx, input.SessionName, input.Message)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(ack)
}

func (h *toolHandler) approvePlan(ctx context.Context, _ *mcp.CallToolRequest, input ApprovePlanInput) (*mcp.CallToolResult, any, error) {
	ack, err := h.client.ApprovePlan(ctx, input.SessionName)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(ack)
}

func (h *toolHandler) listActivities(ctx context.Context, _ *mcp.CallToolRequest, input ListActivitiesInput) (*mcp.CallToolResult, any, error) {
	resp, err := h.client.ListActivities(ctx, input.SessionName, jules.ListOptions{
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(resp)
}

func (h *toolHandler) createPullRequest(ctx context.Context, _ *mcp.CallToolRequest, input CreatePullRequestInput) (*mcp.CallToolResult, any, error) {
	session, err := h.client.CreatePullRequest(ctx, jules.CreateSessionRequest{
		Prompt: input.Prompt,
		SourceContext: jules.SourceContext{
			Source: input.Source,
			Branch: input.Branch,
		},
		Title: input.Title,
	})
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(session)
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}
