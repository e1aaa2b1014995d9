package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/goalc/internal/ast"
	"github.com/cwbudde/goalc/internal/scope"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Parse a file and print its typed AST as JSON",
	Long: `Parse a C translation unit and emit a JSON document describing every
global, every function's parameter list, variadic flag, and stack
frame size, and each function body's AST — the concrete shape of the
artifact a code generator would consume.`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

// dumpDoc is the JSON-serializable projection of a parsed translation
// unit. It has no effect on parsing or typing; it only exists to give
// "outputs consumed by a back end" a concrete, testable shape.
type dumpDoc struct {
	Globals   []dumpGlobal `json:"globals"`
	Functions []dumpFunc   `json:"functions"`
	Strings   []dumpGlobal `json:"strings,omitempty"`
}

type dumpGlobal struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type dumpFunc struct {
	Name      string         `json:"name"`
	Params    []dumpGlobal   `json:"params"`
	Variadic  bool           `json:"variadic"`
	StackSize int            `json:"stack_size"`
	Body      map[string]any `json:"body,omitempty"`
}

func runDump(_ *cobra.Command, args []string) error {
	result, err := parseFile(args[0])
	if err != nil {
		return err
	}

	doc := dumpDoc{}
	for _, id := range result.Table.Global.Idents() {
		if id.Kind != scope.KindGlobal {
			continue
		}
		g := dumpGlobal{Name: id.Name, Type: id.Type.String()}
		if id.StrValue != "" {
			doc.Strings = append(doc.Strings, g)
			continue
		}
		doc.Globals = append(doc.Globals, g)
	}
	for _, fn := range result.Funcs {
		df := dumpFunc{Name: fn.Name, Variadic: fn.IsVarParams, StackSize: fn.StackSize}
		for _, p := range fn.Params {
			df.Params = append(df.Params, dumpGlobal{Name: p.Name, Type: p.Type.String()})
		}
		if body, ok := fn.FuncBody.(*ast.Node); ok {
			df.Body = ast.Dump(body)
		}
		doc.Functions = append(doc.Functions, df)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal AST dump: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
