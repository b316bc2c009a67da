// Copyright 2026 The Julesmcp Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/julesmcp/julesmcp/internal/config"
	"github.com/julesmcp/julesmcp/internal/gitremote"
	"github.com/julesmcp/julesmcp/internal/jules"
)

// Sessions-specific flag values.
var (
	sessionsPageSize  int
	sessionsPageToken string
	sessionsActive    bool

	createPrompt       string
	createSource       string
	createBranch       string
	createTitle        string
	createPlanApproval bool
)

// sessionsCmd is the parent command for session operations.
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage Jules coding sessions",
}

// sessionsListCmd lists sessions, optionally hiding finished ones.
var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.ListSessions(cmd.Context(), jules.ListOptions{
			PageSize:  sessionsPageSize,
			PageToken: sessionsPageToken,
		})
		if err != nil {
			return apiExitError(err)
		}
		for _, s := range resp.Sessions {
			if sessionsActive && s.State.Terminal() {
				continue
			}
			printSessionLine(s)
		}
		printNextPageHint(resp.NextPageToken)
		return nil
	},
}

// sessionsShowCmd prints a session and its recent activity. The two fetches
// are independent, so they run concurrently.
var sessionsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a session and its recent activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		var (
			session    *jules.Session
			activities *jules.ListActivitiesResponse
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			var err error
			session, err = client.GetSession(ctx, args[0])
			return err
		})
		g.Go(func() error {
			var err error
			activities, err = client.ListActivities(ctx, args[0], jules.ListOptions{PageSize: 10})
			return err
		})
		if err := g.Wait(); err != nil {
			return apiExitError(err)
		}

		printSessionDetail(session)
		if len(activities.Activities) > 0 {
			fmt.Println()
			fmt.Println("Recent activity:")
			for _, a := range activities.Activities {
				line := a.Name
				if a.Actor != "" {
					line = a.Actor + "  " + line
				}
				fmt.Printf("  %s\n", line)
			}
		}
		return nil
	},
}

// sessionsActivityCmd fetches one activity by its full resource name.
var sessionsActivityCmd = &cobra.Command{
	Use:   "activity NAME",
	Short: "Show a single activity (e.g. sessions/abc123/activities/xyz)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		activity, err := client.GetActivity(cmd.Context(), args[0])
		if err != nil {
			return apiExitError(err)
		}
		return printJSON(activity)
	},
}

// sessionsCreateCmd starts a new session. The source falls back to the
// project file, then to the origin remote of the current directory.
var sessionsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new coding session",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runCreate(cmd, false) },
}

// sessionsPRCmd is create with an explicit pull-request outcome.
var sessionsPRCmd = &cobra.Command{
	Use:   "pr",
	Short: "Create a session that ends in a pull request",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, _ []string) error { return runCreate(cmd, true) },
}

// sessionsMessageCmd sends a follow-up message to a session.
var sessionsMessageCmd = &cobra.Command{
	Use:   "message NAME TEXT...",
	Short: "Send a follow-up message to a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ack, err := client.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return apiExitError(err)
		}
		fmt.Printf("message sent to %s\n", ack.Session)
		return nil
	},
}

// sessionsApproveCmd approves a session's proposed plan.
var sessionsApproveCmd = &cobra.Command{
	Use:   "approve NAME",
	Short: "Approve the session's proposed plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ack, err := client.ApprovePlan(cmd.Context(), args[0])
		if err != nil {
			return apiExitError(err)
		}
		fmt.Printf("plan approved for %s\n", ack.Session)
		return nil
	},
}

// runCreate builds the creation request from flags, project defaults, and
// the local checkout, then issues it.
func runCreate(cmd *cobra.Command, pullRequest bool) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	req, err := buildCreateRequest(".")
	if err != nil {
		return err
	}

	var session *jules.Session
	if pullRequest {
		session, err = client.CreatePullRequest(cmd.Context(), req)
	} else {
		req.RequirePlanApproval = createPlanApproval
		session, err = client.CreateSession(cmd.Context(), req)
	}
	if err != nil {
		return apiExitError(err)
	}

	printSessionDetail(session)
	return nil
}

// buildCreateRequest resolves prompt/source/branch/title from flags with
// project-file and git-remote fallbacks. Explicit flags always win.
func buildCreateRequest(dir string) (jules.CreateSessionRequest, error) {
	var req jules.CreateSessionRequest

	if createPrompt == "" {
		return req, exitError(ExitInvalidArgs, "--prompt is required")
	}

	project, err := config.LoadProject(dir)
	if err != nil {
		return req, exitError(ExitInvalidArgs, "reading %s: %v", config.ProjectFileName, err)
	}

	source := createSource
	if source == "" {
		source = project.Source
	}
	if source == "" {
		resolved, err := gitremote.SourceName(dir)
		if err != nil {
			return req, exitError(ExitInvalidArgs,
				"no --source given, none pinned in %s, and the current directory has no usable origin remote", config.ProjectFileName)
		}
		slog.Debug("resolved source from origin remote", "source", resolved)
		source = resolved
	}

	branch := createBranch
	if branch == "" {
		branch = project.Branch
	}
	title := createTitle
	if title != "" && project.TitlePrefix != "" {
		title = project.TitlePrefix + title
	}

	req = jules.CreateSessionRequest{
		Prompt:        createPrompt,
		SourceContext: jules.SourceContext{Source: source, Branch: branch},
		Title:         title,
	}
	return req, nil
}

// stateColor picks a render color for a session state.
func stateColor(state jules.SessionState) *color.Color {
	switch state {
	case jules.StateCompleted:
		return color.New(color.FgGreen)
	case jules.StateFailed:
		return color.New(color.FgRed)
	case jules.StateAwaitingPlanApproval, jules.StateAwaitingUserFeedback:
		return color.New(color.FgYellow)
	case jules.StateInProgress, jules.StatePlanning:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Faint)
	}
}

// printSessionLine writes a one-line summary: name, colored state, title.
func printSessionLine(s jules.Session) {
	state := stateColor(s.State).Sprintf("%-24s", string(s.State))
	fmt.Printf("%-28s %s %s\n", s.Name, state, s.Title)
}

// printSessionDetail writes a multi-line view of a session.
func printSessionDetail(s *jules.Session) {
	fmt.Printf("Name:   %s\n", s.Name)
	fmt.Printf("State:  %s\n", stateColor(s.State).Sprint(string(s.State)))
	if s.Title != "" {
		fmt.Printf("Title:  %s\n", s.Title)
	}
	if s.SourceContext != nil {
		fmt.Printf("Source: %s", s.SourceContext.Source)
		if s.SourceContext.Branch != "" {
			fmt.Printf(" (branch %s)", s.SourceContext.Branch)
		}
		fmt.Println()
	}
	if s.URL != "" {
		fmt.Printf("URL:    %s\n", s.URL)
	}
	for _, out := range s.Outputs {
		if out.PullRequest != nil && out.PullRequest.URL != "" {
			fmt.Printf("PR:     %s\n", out.PullRequest.URL)
		}
	}
}

// printNextPageHint tells the user how to continue a paginated listing.
func printNextPageHint(token string) {
	if token == "" {
		return
	}
	color.New(color.Faint).Printf("more results: --page-token %s\n", token)
}

func init() {
	bindPaginationFlags(sessionsListCmd.Flags(), &sessionsPageSize, &sessionsPageToken, jules.DefaultSessionPageSize)
	sessionsListCmd.Flags().BoolVar(&sessionsActive, "active", false, "hide COMPLETED and FAILED sessions")

	for _, cmd := range []*cobra.Command{sessionsCreateCmd, sessionsPRCmd} {
		cmd.Flags().StringVar(&createPrompt, "prompt", "", "the coding task description (required)")
		cmd.Flags().StringVar(&createSource, "source", "", "source resource name (defaults to the pinned or resolved repo)")
		cmd.Flags().StringVar(&createBranch, "branch", "", "branch to start from")
		cmd.Flags().StringVar(&createTitle, "title", "", "session title")
	}
	sessionsCreateCmd.Flags().BoolVar(&createPlanApproval, "require-plan-approval", false, "wait for plan approval before executing")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsActivityCmd)
	sessionsCmd.AddCommand(sessionsCreateCmd)
	sessionsCmd.AddCommand(sessionsPRCmd)
	sessionsCmd.AddCommand(sessionsMessageCmd)
	sessionsCmd.AddCommand(sessionsApproveCmd)
}
