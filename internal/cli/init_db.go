package cli

import (
	"context"
	"fmt"
	"log"

	"raven-dgc/internal/store"
)

// RunInitDB handles the 'init-db' command.
func RunInitDB(ctx context.Context, st *store.Store, args []string) error {
	log.Println("Initializing governance schema...")
	if err := st.InitDB(ctx); err != nil {
		return err
	}
	fmt.Println("Database initialized successfully.")
	return nil
}
