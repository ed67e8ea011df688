package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depbump/depbump/pkg/config"
	"github.com/depbump/depbump/pkg/gomod"
	"github.com/depbump/depbump/pkg/helper"
	"github.com/depbump/depbump/pkg/shell"
	"github.com/depbump/depbump/pkg/terraform"
	"github.com/depbump/depbump/pkg/workdir"
)

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [dir]",
		Short: "Apply dependency updates from depbump.yml",
		Long: `Reads depbump.yml from the repository root and applies every update entry:
go.mod manifests are patched through the go tooling, terraform entries are
parsed and their module sources reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	repoRoot := "."
	if len(args) == 1 {
		repoRoot = args[0]
	}
	repoRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return fmt.Errorf("resolving repository root: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr())

	job, err := config.LoadJob(filepath.Join(repoRoot, config.JobFileName))
	if err != nil {
		return err
	}

	creds := job.Credentials
	if DevCfg.Credentials != "" {
		extra, err := config.LoadCredentials(DevCfg.Credentials)
		if err != nil {
			return err
		}
		creds = append(creds, extra...)
	}

	runner := shell.ExecRunner{}
	if err := workdir.SetupGit(cmd.Context(), runner, creds); err != nil {
		return err
	}

	for _, upd := range job.Updates {
		dir := filepath.Join(repoRoot, filepath.FromSlash(strings.TrimPrefix(upd.Directory, "/")))
		switch upd.Ecosystem {
		case config.EcosystemGoMod:
			if err := runGoModUpdate(cmd, job, upd, dir, repoRoot, runner, creds, logger); err != nil {
				return err
			}
		case config.EcosystemTerraform:
			if err := runTerraformScan(cmd, upd, dir); err != nil {
				return err
			}
		}
	}
	return nil
}

func runGoModUpdate(cmd *cobra.Command, job *config.Job, upd config.Update, dir, repoRoot string, runner shell.Runner, creds []config.Credential, logger *log.Logger) error {
	tree := workdir.New(dir)
	u := &gomod.Updater{
		Tree:        tree,
		RepoRoot:    repoRoot,
		Runner:      runner,
		Credentials: creds,
		Tidy:        upd.Tidy,
		Vendor:      upd.Vendor,
		Log:         logger,
	}
	if job.Helper != "" {
		u.Helper = &helper.Process{Path: job.Helper, Dir: dir}
	}

	res, err := u.Update(cmd.Context(), upd.Dependencies)
	if err != nil {
		return err
	}

	names := make([]string, len(upd.Dependencies))
	for i, d := range upd.Dependencies {
		names[i] = d.Name + "@" + d.Version
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", filepath.Join(upd.Directory, "go.mod"), strings.Join(names, ", "))
	if res.HasSum {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", filepath.Join(upd.Directory, "go.sum"))
	}
	return nil
}

func runTerraformScan(cmd *cobra.Command, upd config.Update, dir string) error {
	deps, err := terraform.NewDecoder().ParseDir(dir)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		fmt.Fprintln(cmd.OutOrStdout(), dep.Describe())
	}
	return nil
}
