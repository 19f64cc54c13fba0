package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/services"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// RunWorkspaceCreate handles the 'workspace-create' command.
func RunWorkspaceCreate(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("workspace-create", flag.ExitOnError)
	name := fs.String("name", "", "Workspace name (required)")
	description := fs.String("description", "", "Workspace description")
	teams := fs.String("teams", "", "Comma-separated team ids")
	userID := fs.Int64("user", 0, "Acting user id (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *name == "" || *userID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --name and --user flags are required")
	}

	var teamIDs []string
	if *teams != "" {
		teamIDs = strings.Split(*teams, ",")
	}

	svc := services.New(st)
	ws, err := svc.Workspace.CreateWithHistory(ctx, entities.WorkspaceCreate{
		Name:        *name,
		Description: *description,
		TeamIDs:     teamIDs,
	}, *userID)
	if err != nil {
		return err
	}

	fmt.Printf("Created workspace %d (%s), data access %s\n", ws.ID, ws.Name, ws.DataAccess)
	return nil
}

// RunWorkspaceList handles the 'workspace-list' command.
func RunWorkspaceList(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("workspace-list", flag.ExitOnError)
	userID := fs.Int64("user", 0, "Filter by creator/team member user id")
	teams := fs.String("teams", "", "Comma-separated team ids of the user")
	offset := fs.Int("offset", 0, "Pagination offset")
	limit := fs.Int("limit", 100, "Pagination limit")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	svc := services.New(st)
	var (
		workspaces []entities.Workspace
		err        error
	)
	if *userID != 0 {
		var teamIDs []string
		if *teams != "" {
			teamIDs = strings.Split(*teams, ",")
		}
		workspaces, err = svc.Workspace.ListForUser(ctx, *userID, teamIDs, *offset, *limit)
	} else {
		workspaces, err = svc.Workspace.List(ctx, *offset, *limit)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Found %d workspaces.\n", len(workspaces))
	for _, ws := range workspaces {
		fmt.Printf("  %4d  %-30s  data access: %-10s  created %s\n",
			ws.ID, ws.Name, ws.DataAccess, ws.CreationDate.Format(time.RFC3339))
	}
	return nil
}

// RunWorkspaceDelete handles the 'workspace-delete' command.
func RunWorkspaceDelete(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("workspace-delete", flag.ExitOnError)
	workspaceID := fs.Int64("workspace", 0, "Workspace id (required)")
	userID := fs.Int64("user", 0, "Acting user id (required; must be the creator)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *workspaceID == 0 || *userID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --workspace and --user flags are required")
	}

	svc := services.New(st)
	if err := svc.Workspace.Delete(ctx, *workspaceID, *userID, *userID); err != nil {
		return err
	}
	fmt.Printf("Deleted workspace %d and its analyses.\n", *workspaceID)
	return nil
}

// RunDataAccess handles the 'data-access' command.
func RunDataAccess(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("data-access", flag.ExitOnError)
	workspaceID := fs.Int64("workspace", 0, "Workspace id (required)")
	newStatus := fs.Int("status", -1, "Destination data-access status code (required)")
	userID := fs.Int64("user", 0, "Acting user id (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *workspaceID == 0 || *newStatus < 0 || *userID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --workspace, --status and --user flags are required")
	}

	svc := services.New(st)
	ws, err := svc.Workspace.UpdateDataAccess(ctx, *workspaceID, status.DataAccessStatus(*newStatus), *userID)
	if err != nil {
		return err
	}
	fmt.Printf("Workspace %d data access is now %s.\n", ws.ID, ws.DataAccess)
	return nil
}

// RunHistory handles the 'history' command.
func RunHistory(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	workspaceID := fs.Int64("workspace", 0, "Workspace id (required)")
	offset := fs.Int("offset", 0, "Pagination offset")
	limit := fs.Int("limit", 100, "Pagination limit")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *workspaceID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --workspace flag is required")
	}

	svc := services.New(st)
	ledger, err := svc.History.ListByWorkspace(ctx, *workspaceID, *offset, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("\n--- Audit ledger for workspace %d ---\n", *workspaceID)
	fmt.Printf("Found %d entries.\n\n", len(ledger))
	for _, h := range ledger {
		fmt.Printf("%s  [%s] %s: %s (user %d)\n",
			h.Date.Format(time.RFC3339), h.Phase, h.Action, h.Description, h.CreatorID)
	}
	return nil
}
