package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/depbump/depbump/pkg/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a depbump.yml update job",
		Long:  "Scaffolds a depbump.yml job file and configures .gitignore entries.",
		RunE:  runInit,
		// init does not need operator config resolution; skip the root
		// PersistentPreRunE.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	path := filepath.Join(wd, config.JobFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", config.JobFileName)
	}

	ecosystems, err := promptEcosystems()
	if err != nil {
		return err
	}

	job := &config.Job{}
	for _, e := range ecosystems {
		job.Updates = append(job.Updates, config.Update{
			Ecosystem: e,
			Directory: "/",
			Tidy:      e == config.EcosystemGoMod,
		})
	}

	if err := config.SaveJob(path, job); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.JobFileName)

	added, err := ensureGitignore(wd, []string{config.LocalConfigFile})
	if err != nil {
		return err
	}
	for _, entry := range added {
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s to .gitignore\n", entry)
	}

	return nil
}

// promptEcosystems uses huh to present a multi-select of supported
// ecosystems.
func promptEcosystems() ([]string, error) {
	options := []huh.Option[string]{
		huh.NewOption("Go modules (go.mod)", config.EcosystemGoMod),
		huh.NewOption("Terraform (.tf)", config.EcosystemTerraform),
	}

	var selected []string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Which ecosystems should depbump update?").
				Options(options...).
				Value(&selected),
		),
	).Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}

	return selected, nil
}

// ensureGitignore ensures that each entry appears somewhere in the
// .gitignore file within dir. Only entries not already present are appended.
// Returns the entries that were actually added.
func ensureGitignore(dir string, entries []string) ([]string, error) {
	path := filepath.Join(dir, ".gitignore")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var toAdd []string
	for _, entry := range entries {
		if !present[entry] {
			toAdd = append(toAdd, entry)
		}
	}
	if len(toAdd) == 0 {
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	// Ensure we start on a new line if file doesn't end with one.
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return nil, err
		}
	}

	for _, entry := range toAdd {
		if _, err := f.WriteString(entry + "\n"); err != nil {
			return nil, err
		}
	}

	return toAdd, nil
}
