package internal

import (
	"log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nbt",
	Short: "nbt is a C/C++ build tool and package manager",
	Long:  `nbt compiles C/C++ sources against a deduced toolchain, resolves dependencies against a local repository and remote catalog, and drives external build systems for vendored sources.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main. It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
