package errors

import (
	"strings"
	"testing"

	"github.com/cwbudde/goalc/internal/lexer"
)

func TestCompilerErrorFormat(t *testing.T) {
	tests := []struct {
		name        string
		pos         lexer.Position
		message     string
		source      string
		file        string
		wantContain []string
	}{
		{
			name:    "simple error with file",
			pos:     lexer.Position{Line: 1, Column: 10},
			message: "undefined identifier 'x'",
			source:  "int y = x + 5;",
			file:    "test.c",
			wantContain: []string{
				"Error in test.c:1:10",
				"   1 | int y = x + 5;",
				"^",
				"undefined identifier 'x'",
			},
		},
		{
			name:    "error without file",
			pos:     lexer.Position{Line: 5, Column: 15},
			message: "expected ';' before '}'",
			source:  "line1\nline2\nline3\nline4\nline5 with error here\nline6",
			file:    "",
			wantContain: []string{
				"Error at line 5:15",
				"   5 | line5 with error here",
				"^",
				"expected ';' before '}'",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCompilerError(tt.pos, tt.message, tt.source, tt.file)
			got := err.Format(false)
			for _, want := range tt.wantContain {
				if !strings.Contains(got, want) {
					t.Errorf("Format() = %q, want to contain %q", got, want)
				}
			}
		})
	}
}

func TestCompilerErrorImplementsError(t *testing.T) {
	var err error = NewCompilerError(lexer.Position{Line: 1, Column: 1}, "bad", "", "")
	if err.Error() == "" {
		t.Fatal("Error() must not be empty")
	}
}

func TestCaretColumnAccountsForLineNumberGutter(t *testing.T) {
	err := NewCompilerError(lexer.Position{Line: 1, Column: 5}, "oops", "abcdefgh", "")
	got := err.Format(false)
	lines := strings.Split(got, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), got)
	}
	sourceLine := lines[1]
	caretLine := lines[2]
	gutterWidth := strings.IndexByte(sourceLine, '|') + 2 // "   1 | " up through the space after '|'
	wantCaretIdx := gutterWidth + (5 - 1)
	caretIdx := strings.IndexByte(caretLine, '^')
	if caretIdx != wantCaretIdx {
		t.Errorf("caret at %d, want it at %d (under column 5)", caretIdx, wantCaretIdx)
	}
}
