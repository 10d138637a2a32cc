package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var storeDriver string

	cmd := &cobra.Command{
		Use:   "washedup",
		Short: "Washed Up fantasy football league site",
		Long: `Serves the league site: draft order, standings and punishments for every
season, plus the admin pages to edit them.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(storeDriver)
		},
	}
	cmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Override store.driver (postgres or memory)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(storeDriver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), storeDriver)
			if err != nil {
				return err
			}
			defer a.Close()
			a.log.Infow("migrations are up to date")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import",
		Short: "Import the league data from the old website",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), storeDriver)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ctrl.ImportSeedData(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "grant-admin <email>",
		Short: "Give the member signed up with email the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), storeDriver)
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.gate.GrantAdmin(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.log.Infow("granted admin", "member", m.ID, "name", m.Name)
			return nil
		},
	})

	return cmd
}

func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) error {
	c := make(chan any)
	go func() {
		defer close(c)
		wg.Wait()
	}()

	select {
	case <-c:
		return nil // completed normally
	case <-time.After(timeout):
		return errors.New("timed out waiting")
	}
}
