package parser

import "github.com/cwbudde/goalc/internal/lexer"

// preludeSource declares the variadic-argument machinery every
// translation unit needs but no source file is expected to write out by
// hand: a System-V-shaped va_list record and the three builtins that
// initialize, read, and tear one down. It is tokenized and parsed ahead
// of the user's own source (see ParseFile), landing these names in the
// permanent global scope exactly as if the user had typed them.
const preludeSource = `
struct __builtin_va_elem {
	unsigned int gp_offset;
	unsigned int fp_offset;
	void *overflow_arg_area;
	void *reg_save_area;
};
typedef struct __builtin_va_elem va_list[1];

void __builtin_va_start(va_list ap, void *last);
void *__builtin_va_arg(va_list ap, int size, int align);
void __builtin_va_end(va_list ap);
`

var preludeFile = &lexer.SourceFile{Path: "<prelude>", Content: preludeSource}
