package cmd

import (
	"fmt"
	"os"

	"github.com/slidekit/spv/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "spv [flags] <slides.tex>",
	Short:        "Incremental Beamer slide compiler",
	Long:         `Recompile only the changed slides of a Beamer document and merge them into a preview PDF.`,
	RunE:         runBuild,
	SilenceUsage: true,
	Args:         cobra.ArbitraryArgs,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("out", "o", "slides.pdf", "Combined output PDF path")
	rootCmd.PersistentFlags().StringP("compiler", "c", "latexmk", "External TeX compiler executable")
	rootCmd.PersistentFlags().StringSlice("compiler-arg", nil, "Extra flag passed through to the compiler (repeatable)")
	rootCmd.PersistentFlags().Int("passes", 1, "Compiler passes per slide")
	rootCmd.PersistentFlags().StringP("prefix", "p", ".spv-cache", "Cache and compiler output directory")
	rootCmd.PersistentFlags().BoolP("ignore-errors", "i", false, "Continue past reported errors")
	rootCmd.PersistentFlags().Bool("force", false, "Recompile every slide regardless of cache state")
	rootCmd.PersistentFlags().BoolP("watch", "w", false, "Recompile whenever the source file changes")
	rootCmd.PersistentFlags().IntP("jobs", "j", 0, "Compile worker count (default: number of CPUs)")
	rootCmd.PersistentFlags().Bool("number-frames", false, "Inject each slide's position as its frame number")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
}
