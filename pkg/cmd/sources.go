package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/depbump/depbump/pkg/terraform"
)

func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources [dir]",
		Short: "List normalized terraform module sources",
		Long:  "Parses the .tf files in a directory and prints each module's normalized source descriptor.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSources,
	}
	cmd.Flags().Bool("yaml", false, "print full descriptors as YAML")
	return cmd
}

func runSources(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	deps, err := terraform.NewDecoder().ParseDir(dir)
	if err != nil {
		return err
	}

	asYAML, err := cmd.Flags().GetBool("yaml")
	if err != nil {
		return err
	}
	if asYAML {
		data, err := yaml.Marshal(deps)
		if err != nil {
			return fmt.Errorf("marshaling sources: %w", err)
		}
		cmd.OutOrStdout().Write(data)
		return nil
	}

	for _, dep := range deps {
		fmt.Fprintln(cmd.OutOrStdout(), dep.Describe())
	}
	return nil
}
