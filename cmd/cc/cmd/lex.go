package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/goalc/internal/errors"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/spf13/cobra"
)

type lexOpts struct {
	showPos bool
	raw     bool // include whitespace/newline trivia tokens
}

var lexFlags lexOpts

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a file and print the resulting tokens",
	Long: `Tokenize (lex) a C translation unit and print the resulting tokens, one
per line, as [KIND] "literal", followed by @line:col with --show-pos.

This is the same tokenizer the root command's -E stops after; it is
broken out as its own subcommand for debugging the lexer in isolation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runLexFile(args[0], lexFlags)
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&lexFlags.showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexFlags.raw, "raw", false, "include whitespace/newline trivia tokens")
}

func runLexFile(filename string, opts lexOpts) error {
	file, err := readSourceFile(filename)
	if err != nil {
		return err
	}

	tok, err := lexer.Tokenize(file)
	if err != nil {
		if le, ok := err.(*lexer.LexError); ok {
			ce := errors.NewCompilerError(le.Pos, le.Msg, file.Content, file.Path)
			fmt.Fprint(os.Stderr, ce.Format(true))
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("tokenizing failed")
		}
		return err
	}
	if !opts.raw {
		tok = lexer.StripTrivia(tok)
	}

	count := 0
	for t := tok; t != nil; t = t.Next {
		printToken(t, opts)
		count++
		if t.Kind == lexer.EOF {
			break
		}
	}
	if rootOpts.Verbose {
		fmt.Fprintf(os.Stderr, "%d token(s)\n", count)
	}
	return nil
}

func printToken(t *lexer.Token, opts lexOpts) {
	out := fmt.Sprintf("[%-9s]", t.Kind)
	switch t.Kind {
	case lexer.EOF:
		out += " EOF"
	case lexer.String:
		out += fmt.Sprintf(" %q", t.Str)
	default:
		out += fmt.Sprintf(" %q", t.Lit)
	}
	if opts.showPos {
		out += fmt.Sprintf(" @%d:%d", t.Pos.Line, t.Pos.Column)
	}
	fmt.Println(out)
}
