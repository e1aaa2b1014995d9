package lexer

// keywords is the reserved-word table used to reclassify an Ident-shaped
// lexeme as Keyword after scanning. Only the subset of C this front end
// understands is listed here; anything else stays an identifier.
var keywords = map[string]bool{
	"void": true, "bool": true, "char": true, "short": true, "int": true,
	"long": true, "unsigned": true, "signed": true,
	"const": true, "volatile": true, "restrict": true,
	"typedef": true, "extern": true, "static": true, "auto": true, "register": true,
	"struct": true, "union": true, "enum": true,
	"sizeof": true,
	"return": true, "if": true, "else": true, "while": true, "do": true, "for": true,
	"switch": true, "case": true, "default": true,
	"break": true, "continue": true, "goto": true,
}

// IsKeyword reports whether lit is one of the reserved words this front
// end recognizes.
func IsKeyword(lit string) bool {
	return keywords[lit]
}

// punct3 and punct2 list every multi-byte punctuator this tokenizer recognizes,
// longest first within each length class so maximal munch can try 3-byte,
// then 2-byte, then fall back to a single byte.
var punct3 = []string{"<<=", ">>=", "..."}
var punct2 = []string{
	"++", "--", "+=", "-=", "*=", "/=", "%=",
	"==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "##", "->",
}
