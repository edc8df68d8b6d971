// Package main provides the larder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/sqlite"
	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	// configDirFlag is set by the --config-dir flag.
	configDirFlag string

	// dataDirFlag is set by the --data-dir flag.
	dataDirFlag string

	// store is the global Store instance, initialized on startup.
	store types.Store
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "larder",
	Short: "Larder is a row store with safe link-list accessors",
	Long: `Larder manages tables of rows and named link lists over them.
List reads and writes go through a bounds-checked accessor that validates
every index against the list's current size and surfaces detached views
as errors instead of stale data.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default: .larder-db)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newRowCmd())
	rootCmd.AddCommand(newListCmd())
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the larder storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The store is already attached by PersistentPreRunE.
		fmt.Println("Larder initialized successfully")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("larder v0.1.0")
	},
}

// initStore loads config and attaches the backend.
func initStore(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}

	store = backend
	return nil
}

// closeStore detaches the Store and releases resources.
func closeStore() error {
	if store != nil {
		return store.Detach()
	}
	return nil
}
