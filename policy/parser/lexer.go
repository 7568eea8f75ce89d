package parser

import (
	"fmt"
	"unicode"
)

// Lexer tokenizes Datalog policy source
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Lex tokenizes the entire input
func (l *Lexer) Lex() error {
	for l.pos < len(l.input) {
		l.skipWhitespaceAndComments()
		if l.pos >= len(l.input) {
			break
		}

		startLine := l.line
		startCol := l.col

		ch := l.peek()
		switch {
		case ch == '"':
			str, err := l.readString()
			if err != nil {
				return err
			}
			l.emit(Token{Type: TokenString, Value: str, Line: startLine, Col: startCol})
		case ch == '(':
			l.advance()
			l.emit(Token{Type: TokenLeftParen, Line: startLine, Col: startCol})
		case ch == ')':
			l.advance()
			l.emit(Token{Type: TokenRightParen, Line: startLine, Col: startCol})
		case ch == '[':
			l.advance()
			l.emit(Token{Type: TokenLeftBracket, Line: startLine, Col: startCol})
		case ch == ']':
			l.advance()
			l.emit(Token{Type: TokenRightBracket, Line: startLine, Col: startCol})
		case ch == ',':
			l.advance()
			l.emit(Token{Type: TokenComma, Line: startLine, Col: startCol})
		case ch == '.':
			l.advance()
			l.emit(Token{Type: TokenPeriod, Line: startLine, Col: startCol})
		case ch == '+':
			l.advance()
			l.emit(Token{Type: TokenPlus, Line: startLine, Col: startCol})
		case ch == ':':
			l.advance()
			if l.pos < len(l.input) && l.peek() == '-' {
				l.advance()
				l.emit(Token{Type: TokenColonMinus, Line: startLine, Col: startCol})
			} else {
				l.emit(Token{Type: TokenColon, Line: startLine, Col: startCol})
			}
		case ch == '-':
			// a minus directly after an identifier is an update
			// suffix; elsewhere it starts a negative number
			if l.lastTokenType() != TokenIdent && l.digitFollows() {
				tok, err := l.readNumber(startLine, startCol)
				if err != nil {
					return err
				}
				l.emit(tok)
			} else {
				l.advance()
				l.emit(Token{Type: TokenMinus, Line: startLine, Col: startCol})
			}
		case unicode.IsDigit(rune(ch)):
			tok, err := l.readNumber(startLine, startCol)
			if err != nil {
				return err
			}
			l.emit(tok)
		case isIdentStart(ch):
			ident := l.readIdent()
			l.emit(Token{Type: TokenIdent, Value: ident, Line: startLine, Col: startCol})
		default:
			return fmt.Errorf("line:%d,col:%d  unexpected character %q", l.line, l.col, ch)
		}
	}

	l.emit(Token{Type: TokenEOF, Line: l.line, Col: l.col})
	return nil
}

// Tokens returns the tokens produced by Lex
func (l *Lexer) Tokens() []Token {
	return l.tokens
}

func (l *Lexer) emit(tok Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) lastTokenType() TokenType {
	if len(l.tokens) == 0 {
		return TokenEOF
	}
	return l.tokens[len(l.tokens)-1].Type
}

func (l *Lexer) digitFollows() bool {
	return l.pos+1 < len(l.input) && unicode.IsDigit(rune(l.input[l.pos+1]))
}

func (l *Lexer) peek() byte {
	return l.input[l.pos]
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			l.advance()
		case ch == '#':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			for l.pos < len(l.input) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readString() (string, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote
	var out []byte
	for l.pos < len(l.input) {
		ch := l.peek()
		switch ch {
		case '"':
			l.advance()
			return string(out), nil
		case '\\':
			l.advance()
			if l.pos >= len(l.input) {
				break
			}
			esc := l.peek()
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\', '"':
				out = append(out, esc)
			default:
				return "", fmt.Errorf("line:%d,col:%d  unknown escape \\%c", l.line, l.col, esc)
			}
			l.advance()
		default:
			out = append(out, ch)
			l.advance()
		}
	}
	return "", fmt.Errorf("line:%d,col:%d  unterminated string", startLine, startCol)
}

func (l *Lexer) readNumber(startLine, startCol int) (Token, error) {
	start := l.pos
	if l.peek() == '-' {
		l.advance()
	}
	isFloat := false
	for l.pos < len(l.input) {
		ch := l.peek()
		if unicode.IsDigit(rune(ch)) {
			l.advance()
		} else if ch == '.' && !isFloat && l.digitFollows() {
			isFloat = true
			l.advance()
		} else {
			break
		}
	}
	value := l.input[start:l.pos]
	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	return Token{Type: typ, Value: value, Line: startLine, Col: startCol}, nil
}

func (l *Lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.advance()
	}
	return l.input[start:l.pos]
}

func isIdentStart(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch))
}

func isIdentPart(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}
