package internal

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbt-build/nbt/internal/catalog"
	"github.com/nbt-build/nbt/internal/errs"
	"github.com/nbt-build/nbt/internal/pkgid"
	"github.com/nbt-build/nbt/internal/repo"
	"github.com/nbt-build/nbt/internal/solve"
)

var (
	solveRoot       string
	solveGitHubRepo string
)

var solveCmd = &cobra.Command{
	Use:   "solve <name@version>...",
	Short: "Compute a minimal version selection build list for one or more roots",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveRoot, "root", defaultRepoRoot(), "Repository root directory")
	solveCmd.Flags().StringVar(&solveGitHubRepo, "github", "", "owner/repo of a GitHub-backed catalog to fall back to on a local miss")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	roots := make([]pkgid.ID, 0, len(args))
	for _, a := range args {
		id, err := pkgid.Parse(a)
		if err != nil {
			return errs.UserInputError("E-PKGID-PARSE", fmt.Sprintf("parsing identity %q", a), err)
		}
		roots = append(roots, id)
	}

	r, err := repo.Open(solveRoot, false)
	if err != nil {
		return errs.EnvironmentError("E-REPO-OPEN", "opening repository for read", err)
	}
	defer r.Close()

	var cat catalog.Catalog
	if solveGitHubRepo != "" {
		owner, name, err := splitOwnerRepo(solveGitHubRepo)
		if err != nil {
			return errs.UserInputError("E-GITHUB-REPO", "parsing --github owner/repo", err)
		}
		cat = &catalog.GitHubCatalog{Owner: owner, Repo: name}
	}

	driver := solve.NewDriver(r, cat)
	list, err := solve.BuildList(roots, solve.DriverReqs{Driver: driver})
	if err != nil {
		return err
	}
	for _, id := range list {
		fmt.Println(id)
	}
	return nil
}

func splitOwnerRepo(s string) (owner, name string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("expected owner/repo, got %q", s)
}
