// Package rulefile parses the human rule format: one rule per line,
// `priority : predicate => question = answer`, with the predicate format
// handled by a participle grammar.
package rulefile

import (
	"github.com/alecthomas/participle/v2"
)

// Expression is the root of the predicate grammar: OR-joined terms.
type Expression struct {
	First *AndTerm   `@@`
	Rest  []*AndTerm `( ("OR" | "|" "|") @@ )*`
}

// AndTerm is a run of AND-joined negation terms.
type AndTerm struct {
	First *NotTerm   `@@`
	Rest  []*NotTerm `( ("AND" | "&" "&") @@ )*`
}

// NotTerm is an optionally negated comparison.
type NotTerm struct {
	Negated    *NotTerm        `  "NOT" @@`
	Comparison *ComparisonTerm `| @@`
}

// ComparisonTerm is an operand optionally compared to another operand. A
// bare operand is only valid when it is itself a predicate (a group or a
// TRUEPREDICATE/FALSEPREDICATE constant).
type ComparisonTerm struct {
	LHS *Operand   `@@`
	Op  *CompareOp `( @@`
	RHS *Operand   `  @@ )?`
}

// CompareOp is a one- or two-rune comparison operator. The default lexer
// splits "==" into two runes, so the trailing "=" is captured separately.
type CompareOp struct {
	Lead string `@("=" | "!" | "<" | ">")`
	Eq   bool   `@"="?`
}

// Operand is a comparison operand or a bare predicate term.
type Operand struct {
	Sub       *Expression `  "(" @@ ")"`
	Str       *string     `| @String`
	NegFloat  *float64    `| "-" @Float`
	NegInt    *int64      `| "-" @Int`
	Float     *float64    `| @Float`
	Int       *int64      `| @Int`
	TruePred  bool        `| @"TRUEPREDICATE"`
	FalsePred bool        `| @"FALSEPREDICATE"`
	TrueLit   bool        `| @"true"`
	FalseLit  bool        `| @"false"`
	Ident     *Identifier `| @@`
}

// Identifier is a dotted question identifier.
type Identifier struct {
	Parts []string `@Ident ("." @Ident)*`
}

var predicateParser = participle.MustBuild(&Expression{}, participle.Unquote("String"))
