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

// RunPermitCreate handles the 'permit-create' command.
func RunPermitCreate(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("permit-create", flag.ExitOnError)
	workspaceID := fs.Int64("workspace", 0, "Owning workspace id (required)")
	initial := fs.Int("status", 0, "Initial permit status code")
	teams := fs.String("teams", "", "Comma-separated team ids")
	validity := fs.String("validity", "", "Validity date (RFC 3339)")
	userID := fs.Int64("user", 0, "Acting user id (required)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *workspaceID == 0 || *userID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --workspace and --user flags are required")
	}

	in := entities.PermitCreate{
		WorkspaceID: *workspaceID,
		Status:      status.PermitStatus(*initial),
	}
	if *teams != "" {
		in.TeamIDs = strings.Split(*teams, ",")
	}
	if *validity != "" {
		t, err := time.Parse(time.RFC3339, *validity)
		if err != nil {
			return fmt.Errorf("invalid --validity value: %w", err)
		}
		in.ValidityDate = &t
	}

	svc := services.New(st)
	p, err := svc.Permit.CreateWithHistory(ctx, in, *userID)
	if err != nil {
		return err
	}
	fmt.Printf("Created permit %d for workspace %d with status %s.\n", p.ID, p.WorkspaceID, p.Status)
	return nil
}

// RunPermitStatus handles the 'permit-status' command.
func RunPermitStatus(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("permit-status", flag.ExitOnError)
	permitID := fs.Int64("permit", 0, "Permit id (required)")
	newStatus := fs.Int("status", -1, "Destination permit status code (required)")
	userID := fs.Int64("user", 0, "Acting user id (required)")
	phase := fs.String("phase", "", "Workflow phase label for the history entry")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *permitID == 0 || *newStatus < 0 || *userID == 0 {
		fs.Usage()
		return fmt.Errorf("error: --permit, --status and --user flags are required")
	}

	svc := services.New(st)
	p, err := svc.Permit.UpdateStatus(ctx, *permitID, status.PermitStatus(*newStatus), *userID, *phase)
	if err != nil {
		return err
	}
	fmt.Printf("Permit %d is now %s; workspace %d data access follows.\n", p.ID, p.Status, p.WorkspaceID)
	return nil
}

// RunPermitList handles the 'permit-list' command.
func RunPermitList(ctx context.Context, st *store.Store, args []string) error {
	fs := flag.NewFlagSet("permit-list", flag.ExitOnError)
	workspaceID := fs.Int64("workspace", 0, "Filter by workspace id")
	teamID := fs.String("team", "", "Filter by team id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	svc := services.New(st)
	var (
		permits []entities.Permit
		err     error
	)
	switch {
	case *workspaceID != 0:
		permits, err = svc.Permit.ListByWorkspace(ctx, *workspaceID)
	case *teamID != "":
		permits, err = svc.Permit.ListByTeam(ctx, *teamID)
	default:
		fs.Usage()
		return fmt.Errorf("error: --workspace or --team flag is required")
	}
	if err != nil {
		return err
	}

	fmt.Printf("Found %d permits.\n", len(permits))
	for _, p := range permits {
		validity := "none"
		if p.ValidityDate != nil {
			validity = p.ValidityDate.Format(time.RFC3339)
		}
		fmt.Printf("  %4d  workspace %-4d  status %-10s  validity %s\n",
			p.ID, p.WorkspaceID, p.Status, validity)
	}
	return nil
}
