package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YASH4-HD/bio-tikz-studio/internal/workspace"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Create and validate workspace files",
}

var workspaceInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write a workspace file with the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "biotikz_workspace.json"
		if len(args) == 1 {
			path = args[0]
		}

		data, err := workspace.Export(workspace.Default())
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Info("wrote workspace", "path", path)
		return nil
	},
}

var workspaceValidateCmd = &cobra.Command{
	Use:   "validate file",
	Short: "Validate a workspace file and print its normalized form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		project, err := workspace.Import(data)
		if err != nil {
			return err
		}

		normalized, err := workspace.Export(project)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(normalized))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceInitCmd)
	workspaceCmd.AddCommand(workspaceValidateCmd)
}
