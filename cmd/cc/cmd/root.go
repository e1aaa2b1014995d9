// Package cmd implements the cc command-line surface: a cobra.Command
// tree exposing the tokenizer, parser, and AST-dump pipeline as a
// gcc-style flag surface plus debugging subcommands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Options collects the compiler's external surface: the input file,
// output destination, include search path, preprocessor defines, the
// target/dialect mode string, and whether to stop after tokenizing. It
// is populated straight from cobra flags, threaded through
// package-level flag variables the way the rest of this command tree
// does.
type Options struct {
	InputFile      string
	OutputFile     string
	IncludePaths   []string
	Defines        []string
	Mode           string
	PreprocessOnly bool
	Verbose        bool
}

var rootOpts Options

var rootCmd = &cobra.Command{
	Use:   "cc [file]",
	Short: "A C front end: tokenizer, scope/symbol manager, type system, and parser",
	Long: `cc parses a single C translation unit through a tokenizer, a scope and
symbol manager, a type system, and a recursive-descent parser, producing
a typed, scope-resolved AST.

Preprocessing and code generation are not implemented: -E stops after
tokenizing, and there is no back end. Use the "dump" subcommand to see
the AST a back end would consume.`,
	Args:    cobra.MaximumNArgs(1),
	Version: Version,
	RunE:    runRoot,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "verbose output")

	rootCmd.Flags().StringVarP(&rootOpts.InputFile, "c", "c", "", "input file to compile")
	rootCmd.Flags().StringVarP(&rootOpts.OutputFile, "o", "o", "", "output file (unused: no code generation)")
	rootCmd.Flags().StringArrayVarP(&rootOpts.IncludePaths, "include", "i", nil, "include search path (repeatable)")
	rootCmd.Flags().StringArrayVarP(&rootOpts.Defines, "define", "d", nil, "preprocessor macro define (repeatable; unused: no preprocessor)")
	rootCmd.Flags().StringVarP(&rootOpts.Mode, "mode", "x", "c", "source dialect/mode")
	rootCmd.Flags().BoolVarP(&rootOpts.PreprocessOnly, "preprocess-only", "E", false, "stop after tokenizing")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func resolveInputFile(opts *Options, args []string) error {
	if opts.InputFile != "" {
		return nil
	}
	if len(args) == 1 {
		opts.InputFile = args[0]
		return nil
	}
	return fmt.Errorf("no input file: pass -c FILE or a positional file argument")
}

func runRoot(_ *cobra.Command, args []string) error {
	if err := resolveInputFile(&rootOpts, args); err != nil {
		return err
	}

	if rootOpts.PreprocessOnly {
		return runLexFile(rootOpts.InputFile, lexOpts{})
	}

	result, err := parseFile(rootOpts.InputFile)
	if err != nil {
		return err
	}

	if rootOpts.Verbose {
		fmt.Fprintf(os.Stderr, "parsed %s: %d function(s)\n", rootOpts.InputFile, len(result.Funcs))
	}
	fmt.Printf("%s: parsed successfully (%d function definition(s))\n", rootOpts.InputFile, len(result.Funcs))
	return nil
}
