// Package token defines Arrow's lexical token set: the keyword table,
// symbol set and literal kinds original_source/scanner.py's re.Scanner
// rules enumerate, translated into a Go TokenType the way teacher's
// pkg/token enumerates flowa's.
package token

import "fmt"

type Type string

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	IDENT  Type = "IDENT"  // includes dotted names, e.g. xs.push
	NUMBER Type = "NUMBER" // digits, optionally with a '.' fraction part
	STRING Type = "STRING"

	// Keywords (original_source/scanner.py's KEYWORD regex alternation).
	EXIT     Type = "EXIT"
	ENTER    Type = "ENTER"
	DO_UNDO  Type = "DO_UNDO" // the single token "do/undo"
	YIELDING Type = "YIELDING"
	RESULT   Type = "RESULT"
	UNTIL    Type = "UNTIL"
	CONST    Type = "CONST"
	FROM     Type = "FROM"
	FOR      Type = "FOR"
	REF      Type = "REF"
	IF       Type = "IF"

	// Symbols (original_source/scanner.py's SYMBOL regex alternation).
	DOT       Type = "."
	PLUS_ASN  Type = "+="
	MINUS_ASN Type = "-="
	STAR_ASN  Type = "*="
	SLASH_ASN Type = "/="
	CARET_ASN Type = "^=" // accepted by the grammar; no operator binds to it
	PLUS      Type = "+"
	MINUS     Type = "-"
	STAR      Type = "*"
	SLASH     Type = "/"
	PERCENT   Type = "%"
	AMP       Type = "&" // ref-argument marker at a call site
	SWAP      Type = "<=>"
	LTE       Type = "<="
	GTE       Type = ">="
	EQ        Type = "=="
	NOT_EQ    Type = "!="
	ASSIGN    Type = ":="
	RESULTS   Type = "=>"
	LT        Type = "<"
	GT        Type = ">"
	EQUALS    Type = "="
	COLON     Type = ":"
	COMMA     Type = ","
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"
)

// Token is one lexeme, tagged with its 1-based source position so
// pkg/errors can print a caret under it.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d:%d)", t.Type, t.Literal, t.Line, t.Column)
}

// keywords holds exactly the words original_source/scanner.py's KEYWORD
// rule names — "main", "else" and "un" are deliberately absent: the
// original scanner tokenizes them as plain identifiers and the parser
// recognizes them by their literal string instead, so Arrow's lexer
// does the same instead of inventing keyword-hood for them.
var keywords = map[string]Type{
	"exit":     EXIT,
	"enter":    ENTER,
	"do/undo":  DO_UNDO,
	"yielding": YIELDING,
	"result":   RESULT,
	"until":    UNTIL,
	"const":    CONST,
	"from":     FROM,
	"for":      FOR,
	"ref":      REF,
	"if":       IF,
}

// LookupIdent classifies a scanned identifier as a keyword or a plain
// IDENT.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
