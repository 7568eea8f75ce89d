package parser

import "fmt"

// TokenType represents the type of a Datalog token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenString
	TokenInt
	TokenFloat
	TokenLeftParen
	TokenRightParen
	TokenLeftBracket
	TokenRightBracket
	TokenComma
	TokenColon
	TokenColonMinus
	TokenPeriod
	TokenPlus
	TokenMinus
)

// Token represents a lexical token in Datalog policy source
type Token struct {
	Type  TokenType
	Value string
	Line  int
	Col   int
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return fmt.Sprintf("EOF[%d:%d]", t.Line, t.Col)
	case TokenIdent:
		return fmt.Sprintf("Ident[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenString:
		return fmt.Sprintf("String[%d:%d]:%q", t.Line, t.Col, t.Value)
	case TokenInt:
		return fmt.Sprintf("Int[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenFloat:
		return fmt.Sprintf("Float[%d:%d]:%s", t.Line, t.Col, t.Value)
	case TokenLeftParen:
		return fmt.Sprintf("LeftParen[%d:%d]", t.Line, t.Col)
	case TokenRightParen:
		return fmt.Sprintf("RightParen[%d:%d]", t.Line, t.Col)
	case TokenLeftBracket:
		return fmt.Sprintf("LeftBracket[%d:%d]", t.Line, t.Col)
	case TokenRightBracket:
		return fmt.Sprintf("RightBracket[%d:%d]", t.Line, t.Col)
	case TokenComma:
		return fmt.Sprintf("Comma[%d:%d]", t.Line, t.Col)
	case TokenColon:
		return fmt.Sprintf("Colon[%d:%d]", t.Line, t.Col)
	case TokenColonMinus:
		return fmt.Sprintf("ColonMinus[%d:%d]", t.Line, t.Col)
	case TokenPeriod:
		return fmt.Sprintf("Period[%d:%d]", t.Line, t.Col)
	case TokenPlus:
		return fmt.Sprintf("Plus[%d:%d]", t.Line, t.Col)
	case TokenMinus:
		return fmt.Sprintf("Minus[%d:%d]", t.Line, t.Col)
	default:
		return fmt.Sprintf("Unknown[%d:%d]:%s", t.Line, t.Col, t.Value)
	}
}
