// Package cli holds the cobra commands of the genre-dashboard binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the command tree around its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:          "genre-dashboard",
		Short:        "movie genre dashboard",
		Long:         `Serves pie, revenue and top title charts of a movie dataset, one view per release year.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return nil
			}
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config %s: %w", cfgFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")

	root.AddCommand(
		newServeCmd(v),
		newImportCmd(v),
		newSummaryCmd(v),
	)
	return root
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
