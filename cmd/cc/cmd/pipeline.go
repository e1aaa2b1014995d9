package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/goalc/internal/errors"
	"github.com/cwbudde/goalc/internal/lexer"
	"github.com/cwbudde/goalc/internal/parser"
)

// readSourceFile reads filename into a lexer.SourceFile, the shared
// input every subcommand tokenizes or parses from.
func readSourceFile(filename string) (*lexer.SourceFile, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return &lexer.SourceFile{Path: filename, Content: string(content)}, nil
}

// parseFile runs the full tokenizer -> parser pipeline over filename,
// rendering any fatal *errors.CompilerError with source context and a
// caret before returning it.
func parseFile(filename string) (*parser.Result, error) {
	file, err := readSourceFile(filename)
	if err != nil {
		return nil, err
	}

	result, err := parser.ParseFile(file)
	if err != nil {
		if ce, ok := err.(*errors.CompilerError); ok {
			fmt.Fprint(os.Stderr, ce.Format(true))
			fmt.Fprintln(os.Stderr)
			return nil, fmt.Errorf("parsing failed")
		}
		return nil, err
	}
	return result, nil
}
