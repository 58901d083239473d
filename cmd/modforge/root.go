package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/modforge/modforge/pkg/config"
	"github.com/modforge/modforge/pkg/discovery"
	"github.com/modforge/modforge/pkg/logging"
	"github.com/modforge/modforge/pkg/mods"
	"github.com/modforge/modforge/pkg/persist"
	"github.com/modforge/modforge/pkg/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity  int
	modsRoot   string
	formatFlag string

	cfg    *config.Config
	format ui.Format

	rootCmd = &cobra.Command{
		Use:   "modforge",
		Short: "Inspect and edit mod option structures",
		Long: `modforge manages the option structure of installed mods: the groups a
mod exposes, the options inside them, and the file redirections, swaps and
metadata edits each option carries.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			var err error
			cfg, err = config.Load(modsRoot)
			if err != nil {
				return err
			}

			format, err = ui.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			format = ui.Resolve(format, os.Stdout)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command tree
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&modsRoot, "mods-root", "", "Directory holding one subdirectory per mod")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "auto", "Output format: auto, term, text or json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(exportMetaCmd)
	rootCmd.AddCommand(importMetaCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modforge version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

// loadMod loads one mod by its directory name under the mods root
func loadMod(name string) (*mods.Mod, error) {
	return persist.LoadMod(discovery.OSFS{}, filepath.Join(cfg.Storage.ModsRoot, name))
}
