package pinname

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// pinLexer tokenizes pin names. There is no whitespace rule: any character
// outside these classes is a lexing error, which keeps parsing strict.
var pinLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Base names and bounds share a token class; bounds are checked after
	// parsing so that an all-digit base name such as "0" stays legal.
	{Name: "Word", Pattern: `[A-Za-z0-9_]+`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Colon", Pattern: `:`},
})

// pinNameAST is the parse tree of BASENAME or BASENAME(LEFT:RIGHT).
type pinNameAST struct {
	Base  string    `parser:"@Word"`
	Range *rangeAST `parser:"( LParen @@ RParen )?"`
}

// rangeAST holds the raw bound tokens of a bus suffix.
type rangeAST struct {
	Left  string `parser:"@Word Colon"`
	Right string `parser:"@Word"`
}

var pinParser = participle.MustBuild[pinNameAST](
	participle.Lexer(pinLexer),
)
