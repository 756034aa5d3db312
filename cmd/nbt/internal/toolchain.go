package internal

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var toolchainCmd = &cobra.Command{
	Use:   "toolchain",
	Short: "Inspect a deduced toolchain",
}

var toolchainShowDescFile string
var toolchainShowID string

var toolchainShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Deduce and print a toolchain's realized command templates",
	RunE:  runToolchainShow,
}

func init() {
	toolchainShowCmd.Flags().StringVar(&toolchainShowDescFile, "toolchain-file", "", "Toolchain description file (overrides --toolchain-id)")
	toolchainShowCmd.Flags().StringVar(&toolchainShowID, "toolchain-id", "gcc", "Built-in toolchain shorthand")
	toolchainCmd.AddCommand(toolchainShowCmd)
	rootCmd.AddCommand(toolchainCmd)
}

func runToolchainShow(cmd *cobra.Command, args []string) error {
	tc, err := loadToolchain(toolchainShowDescFile, toolchainShowID)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Family: %s\n", tc.Family)
	fmt.Fprintf(os.Stdout, "C-Compiler: %s\n", tc.CCompiler)
	fmt.Fprintf(os.Stdout, "C++-Compiler: %s\n", tc.CXXCompiler)
	fmt.Fprintf(os.Stdout, "Deps-Mode: %s\n", tc.DepsMode)
	fmt.Fprintf(os.Stdout, "C-Compile-Template: %v\n", tc.CCompileTemplate)
	fmt.Fprintf(os.Stdout, "C++-Compile-Template: %v\n", tc.CXXCompileTemplate)
	fmt.Fprintf(os.Stdout, "Archive-Template: %v\n", tc.ArchiveTemplate)
	fmt.Fprintf(os.Stdout, "Link-Template: %v\n", tc.LinkTemplate)
	fmt.Fprintf(os.Stdout, "Archive: %s*%s\n", tc.ArchivePrefix, tc.ArchiveSuffix)
	fmt.Fprintf(os.Stdout, "Object: %s*%s\n", tc.ObjectPrefix, tc.ObjectSuffix)
	fmt.Fprintf(os.Stdout, "Executable: %s*%s\n", tc.ExecutablePrefix, tc.ExecutableSuffix)

	warnings := append([]string(nil), tc.WarningFlags...)
	sort.Strings(warnings)
	fmt.Fprintf(os.Stdout, "Warning-Flags: %v\n", warnings)
	return nil
}
