package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"raven-dgc/internal/cli"
	"raven-dgc/internal/config"
	"raven-dgc/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		printUsage()
		return 1
	}

	command := os.Args[1]
	args := os.Args[2:]

	// Handle help command without DB connection
	if command == "help" {
		printUsage()
		return 0
	}

	// All other commands require a database connection
	st, err := store.Open(config.GetConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return 1
	}
	defer st.Close()

	ctx := context.Background()

	switch command {
	case "init-db":
		err = cli.RunInitDB(ctx, st, args)

	case "seed":
		err = cli.RunSeed(ctx, st, args)

	// WORKSPACE COMMANDS
	case "workspace-create":
		err = cli.RunWorkspaceCreate(ctx, st, args)
	case "workspace-list":
		err = cli.RunWorkspaceList(ctx, st, args)
	case "workspace-delete":
		err = cli.RunWorkspaceDelete(ctx, st, args)
	case "data-access":
		err = cli.RunDataAccess(ctx, st, args)

	// PERMIT COMMANDS
	case "permit-create":
		err = cli.RunPermitCreate(ctx, st, args)
	case "permit-status":
		err = cli.RunPermitStatus(ctx, st, args)
	case "permit-list":
		err = cli.RunPermitList(ctx, st, args)

	// AUDIT LEDGER
	case "history":
		err = cli.RunHistory(ctx, st, args)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		return 1
	}

	if err != nil {
		log.Printf("Command %s failed: %v", command, err)
		return 1
	}
	return 0
}

func printUsage() {
	fmt.Println(`raven-dgc: research data governance core

Usage:
  raven-dgc <command> [flags]

Database:
  init-db                         Create tables and indexes
  seed                            Seed demo governance data

Workspaces:
  workspace-create                Create a workspace (with initial permit)
  workspace-list                  List workspaces, optionally per user
  workspace-delete                Delete a workspace (creator only)
  data-access                     Update a workspace's data-access status

Permits:
  permit-create                   Create a permit for a workspace
  permit-status                   Update a permit's status
  permit-list                     List permits by workspace or team

Audit:
  history                         Show a workspace's audit ledger

Environment:
  DB_CONN_STRING                  PostgreSQL connection string
  RAVEN_LISTEN_ADDR               Listen address for the web server`)
}
