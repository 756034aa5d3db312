package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbt-build/nbt/internal/env"
	"github.com/nbt-build/nbt/internal/errs"
	"github.com/nbt-build/nbt/internal/pkgid"
	"github.com/nbt-build/nbt/internal/repo"
)

var repoRoot string

var repoCmd = &cobra.Command{
	Use:   "repo",
	Short: "Manage the local sdist repository",
}

var (
	repoAddReplace bool
	repoAddIgnore  bool
)

var repoAddCmd = &cobra.Command{
	Use:   "add <source-dir> <name@version>",
	Short: "Stage a source directory into the repository under an identity",
	Args:  cobra.ExactArgs(2),
	RunE:  runRepoAdd,
}

var repoLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every sdist in the repository",
	Args:  cobra.NoArgs,
	RunE:  runRepoLs,
}

func init() {
	repoCmd.PersistentFlags().StringVar(&repoRoot, "root", defaultRepoRoot(), "Repository root directory")
	repoAddCmd.Flags().BoolVar(&repoAddReplace, "replace", false, "Replace an existing sdist with the same identity")
	repoAddCmd.Flags().BoolVar(&repoAddIgnore, "ignore", false, "Silently keep the existing sdist if the identity is already present")
	repoCmd.AddCommand(repoAddCmd, repoLsCmd)
	rootCmd.AddCommand(repoCmd)
}

// defaultRepoRoot resolves the per-user cache location for the sdist
// repository, falling back to a directory relative to the working
// directory if the user cache directory can't be determined.
func defaultRepoRoot() string {
	if dir, err := env.RepoDir(); err == nil {
		return dir
	}
	return ".nbt-repo"
}

func runRepoAdd(cmd *cobra.Command, args []string) error {
	srcDir, idStr := args[0], args[1]
	id, err := pkgid.Parse(idStr)
	if err != nil {
		return errs.UserInputError("E-PKGID-PARSE", fmt.Sprintf("parsing identity %q", idStr), err)
	}

	policy := repo.IfExistsError
	switch {
	case repoAddReplace:
		policy = repo.IfExistsReplace
	case repoAddIgnore:
		policy = repo.IfExistsIgnore
	}

	r, err := repo.Open(repoRoot, true)
	if err != nil {
		return errs.EnvironmentError("E-REPO-OPEN", "opening repository for write", err)
	}
	defer r.Close()

	if err := r.AddSdist(srcDir, id, policy); err != nil {
		return err
	}
	fmt.Printf("added %s\n", id)
	return nil
}

func runRepoLs(cmd *cobra.Command, args []string) error {
	r, err := repo.Open(repoRoot, false)
	if err != nil {
		return errs.EnvironmentError("E-REPO-OPEN", "opening repository for read", err)
	}
	defer r.Close()

	for _, s := range r.List() {
		fmt.Println(s.ID)
	}
	return nil
}
