package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kylescorner/corner/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize corner configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the site and generates a .corner.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s for %q\n", cfgFile, cfg.ProjectName)
		fmt.Println("Run `corner build --serve` to preview the site")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
