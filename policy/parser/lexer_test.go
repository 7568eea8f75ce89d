package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, input string) []Token {
	t.Helper()
	l := NewLexer(input)
	require.NoError(t, l.Lex())
	return l.Tokens()
}

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestLexRule(t *testing.T) {
	tokens := lex(t, "p(x) :- q(x), not r(x).")
	require.Equal(t, []TokenType{
		TokenIdent, TokenLeftParen, TokenIdent, TokenRightParen,
		TokenColonMinus,
		TokenIdent, TokenLeftParen, TokenIdent, TokenRightParen, TokenComma,
		TokenIdent, TokenIdent, TokenLeftParen, TokenIdent, TokenRightParen,
		TokenPeriod, TokenEOF,
	}, types(tokens))
}

func TestLexStructuredName(t *testing.T) {
	tokens := lex(t, "nova:servers:cpu(x)")
	require.Equal(t, []TokenType{
		TokenIdent, TokenColon, TokenIdent, TokenColon, TokenIdent,
		TokenLeftParen, TokenIdent, TokenRightParen, TokenEOF,
	}, types(tokens))
	require.Equal(t, "nova", tokens[0].Value)
	require.Equal(t, "servers", tokens[2].Value)
}

func TestLexConstants(t *testing.T) {
	tokens := lex(t, `p("web server", 80, -7, 3.14, -0.5)`)
	require.Equal(t, []TokenType{
		TokenIdent, TokenLeftParen,
		TokenString, TokenComma,
		TokenInt, TokenComma,
		TokenInt, TokenComma,
		TokenFloat, TokenComma,
		TokenFloat,
		TokenRightParen, TokenEOF,
	}, types(tokens))
	require.Equal(t, "web server", tokens[2].Value)
	require.Equal(t, "80", tokens[4].Value)
	require.Equal(t, "-7", tokens[6].Value)
	require.Equal(t, "3.14", tokens[8].Value)
	require.Equal(t, "-0.5", tokens[10].Value)
}

func TestLexStringEscapes(t *testing.T) {
	tokens := lex(t, `p("a\"b\\c\nd")`)
	require.Equal(t, "a\"b\\c\nd", tokens[2].Value)

	l := NewLexer(`p("unterminated`)
	require.Error(t, l.Lex())
}

func TestLexUpdateSuffix(t *testing.T) {
	// a minus after an identifier is a suffix, not a negative number
	tokens := lex(t, "p-(x) :- q+(7)")
	require.Equal(t, []TokenType{
		TokenIdent, TokenMinus, TokenLeftParen, TokenIdent, TokenRightParen,
		TokenColonMinus,
		TokenIdent, TokenPlus, TokenLeftParen, TokenInt, TokenRightParen,
		TokenEOF,
	}, types(tokens))
	require.Equal(t, "7", tokens[9].Value)
}

func TestLexComments(t *testing.T) {
	tokens := lex(t, "# a comment\np(1) // trailing\nq(2)")
	require.Equal(t, []TokenType{
		TokenIdent, TokenLeftParen, TokenInt, TokenRightParen,
		TokenIdent, TokenLeftParen, TokenInt, TokenRightParen,
		TokenEOF,
	}, types(tokens))
}

func TestLexPositions(t *testing.T) {
	tokens := lex(t, "p(x)\n  q(y)")
	require.Equal(t, 1, tokens[0].Line)
	require.Equal(t, 1, tokens[0].Col)
	require.Equal(t, 2, tokens[4].Line)
	require.Equal(t, 3, tokens[4].Col)
}

func TestLexUnexpectedCharacter(t *testing.T) {
	l := NewLexer("p(x) & q(x)")
	require.Error(t, l.Lex())
}
