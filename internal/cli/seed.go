package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"raven-dgc/internal/entities"
	"raven-dgc/internal/services"
	"raven-dgc/internal/status"
	"raven-dgc/internal/store"
)

// SeedCommand creates the seed command. Seeding runs through the lifecycle
// services, not raw inserts, so the demo data carries a realistic audit
// ledger.
func SeedCommand(st *store.Store) *cobra.Command {
	var (
		workspaces int
		username   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo governance data",
		Long: `Seed the database with a demo user and a handful of workspaces, each
with its bootstrap permit, one analysis, one cohort and a few cohort results.

Examples:
  # Seed three demo workspaces
  ./raven-dgc seed --workspaces=3

  # Seed under a named demo user
  ./raven-dgc seed --user=alice`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := services.New(st)

			user := &store.User{Username: username, FullName: "Seed User"}
			if err := st.CreateUser(ctx, user); err != nil {
				return err
			}

			for i := 1; i <= workspaces; i++ {
				studyID := uuid.New().String()
				ws, err := svc.Workspace.CreateWithHistory(ctx, entities.WorkspaceCreate{
					Name:        fmt.Sprintf("Demo Study %d", i),
					Description: "Seeded demo workspace",
					TeamIDs:     []string{fmt.Sprintf("T%d", i)},
					VRStudyID:   &studyID,
				}, user.ID)
				if err != nil {
					return err
				}

				expiry := time.Now().UTC().AddDate(0, 6, 0)
				a, err := svc.Analysis.CreateWithHistory(ctx, entities.AnalysisCreate{
					WorkspaceID:  ws.ID,
					Name:         fmt.Sprintf("Demo Analysis %d", i),
					Description:  "Seeded demo analysis",
					ExpiringDate: &expiry,
				}, user.ID)
				if err != nil {
					return err
				}

				c, err := svc.Cohort.CreateWithHistory(ctx, entities.CohortCreate{
					WorkspaceID: ws.ID,
					AnalysisID:  &a.ID,
					Name:        fmt.Sprintf("Demo Cohort %d", i),
					Description: "Seeded demo cohort",
				}, user.ID)
				if err != nil {
					return err
				}

				if _, err := svc.CohortResult.BulkCreate(ctx, c.ID, [][]string{
					{"P001", "V1"}, {"P002", "V1"}, {"P003", "V2"},
				}); err != nil {
					return err
				}

				if _, err := svc.Workspace.UpdateDataAccess(ctx, ws.ID, status.DataAccessSubmitted, user.ID); err != nil {
					return err
				}

				fmt.Printf("Seeded workspace %d (%s)\n", ws.ID, ws.Name)
			}

			fmt.Printf("Seeded %d workspaces for user %s (id %d).\n", workspaces, username, user.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&workspaces, "workspaces", 2, "Number of demo workspaces to create")
	cmd.Flags().StringVar(&username, "user", "demo", "Username for the seed user")
	return cmd
}

// RunSeed handles the 'seed' command.
func RunSeed(ctx context.Context, st *store.Store, args []string) error {
	cmd := SeedCommand(st)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
