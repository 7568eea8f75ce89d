// Package parser reads Datalog policy source text and converts it to
// the internal formula representation. The surface syntax is
//
//	error(x) :- nova:vm(x, y), not approved(y), gt(y, 7).
//	execute[nova:disconnect(x)] :- error(x).
//	server("web", 80)
//
// Statements are optionally terminated with a period. Bare
// identifiers in argument position are variables; constants are
// quoted strings, integers and floats. A table name may be structured
// (service:table, further colons stay in the table part) and may
// carry a +/- update suffix.
package parser

import (
	"fmt"
	"strconv"

	"github.com/r-mibu/congress/policy"
)

// Parser converts a token stream into policy formulas
type Parser struct {
	tokens     []Token
	pos        int
	useModules bool
}

// Parse lexes and parses policy source into formulas, splitting
// structured table names into service and table
func Parse(input string) ([]policy.Formula, error) {
	return ParseWithModules(input, true)
}

// ParseOne parses source expected to hold exactly one formula
func ParseOne(input string) (policy.Formula, error) {
	formulas, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if len(formulas) != 1 {
		return nil, fmt.Errorf("expected one formula, found %d in %q", len(formulas), input)
	}
	return formulas[0], nil
}

// ParseRule parses source expected to hold exactly one rule
func ParseRule(input string) (*policy.Rule, error) {
	formula, err := ParseOne(input)
	if err != nil {
		return nil, err
	}
	rule, ok := formula.(*policy.Rule)
	if !ok {
		return nil, fmt.Errorf("expected a rule, found %s", formula)
	}
	return rule, nil
}

// ParseLiteral parses source expected to hold exactly one literal
func ParseLiteral(input string) (*policy.Literal, error) {
	formula, err := ParseOne(input)
	if err != nil {
		return nil, err
	}
	lit, ok := formula.(*policy.Literal)
	if !ok {
		return nil, fmt.Errorf("expected a literal, found %s", formula)
	}
	return lit, nil
}

// ParseWithModules parses policy source; useModules controls whether
// structured names are split into service and table
func ParseWithModules(input string, useModules bool) ([]policy.Formula, error) {
	lexer := NewLexer(input)
	if err := lexer.Lex(); err != nil {
		return nil, policy.Errorf("lex failure: %s", err)
	}
	p := &Parser{tokens: lexer.Tokens(), useModules: useModules}
	return p.parseProgram()
}

func (p *Parser) parseProgram() ([]policy.Formula, error) {
	var formulas []policy.Formula
	for p.peek().Type != TokenEOF {
		formula, err := p.parseFormula()
		if err != nil {
			return nil, err
		}
		formulas = append(formulas, formula)
		// optional statement terminator
		if p.peek().Type == TokenPeriod {
			p.next()
		}
	}
	return formulas, nil
}

// parseFormula reads a fact or a rule: a comma-separated literal list
// optionally followed by :- and a body literal list
func (p *Parser) parseFormula() (policy.Formula, error) {
	heads, err := p.parseLiteralList()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TokenColonMinus {
		if len(heads) != 1 {
			return nil, p.errorf("expected ':-' after multiple heads")
		}
		if heads[0].Negated {
			return nil, p.errorf("negated fact %s", heads[0])
		}
		return heads[0], nil
	}
	p.next() // ':-'
	for _, head := range heads {
		if head.Negated {
			return nil, p.errorf("negated head %s", head)
		}
	}
	body, err := p.parseLiteralList()
	if err != nil {
		return nil, err
	}
	return policy.NewRule(heads, body), nil
}

func (p *Parser) parseLiteralList() ([]*policy.Literal, error) {
	var literals []*policy.Literal
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		literals = append(literals, lit)
		if p.peek().Type != TokenComma {
			return literals, nil
		}
		p.next()
	}
}

// parseLiteral reads [not] atom or [not] modal[atom]
func (p *Parser) parseLiteral() (*policy.Literal, error) {
	negated := false
	if p.peek().Type == TokenIdent && p.peek().Value == "not" {
		p.next()
		negated = true
	}

	modal := ""
	if p.peek().Type == TokenIdent && p.peekAt(1).Type == TokenLeftBracket {
		modal = p.next().Value
		p.next() // '['
	}

	table, err := p.parseTablename()
	if err != nil {
		return nil, err
	}
	table.Modal = modal

	var args []policy.Term
	if p.peek().Type == TokenLeftParen {
		p.next()
		args, err = p.parseTermList()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokenRightParen, ")"); err != nil {
			return nil, err
		}
	}

	if modal != "" {
		if err := p.expect(TokenRightBracket, "]"); err != nil {
			return nil, err
		}
	}

	if negated {
		return policy.NewNegatedLiteral(table, args...), nil
	}
	return policy.NewLiteral(table, args...), nil
}

// parseTablename reads a structured name ID (: ID)* with an optional
// +/- update suffix
func (p *Parser) parseTablename() (*policy.Tablename, error) {
	tok := p.peek()
	if tok.Type != TokenIdent {
		return nil, p.errorf("expected table name, found %s", tok)
	}
	name := p.next().Value
	for p.peek().Type == TokenColon {
		p.next()
		part := p.peek()
		if part.Type != TokenIdent {
			return nil, p.errorf("expected name after ':', found %s", part)
		}
		name += ":" + p.next().Value
	}
	switch p.peek().Type {
	case TokenPlus:
		p.next()
		name += "+"
	case TokenMinus:
		p.next()
		name += "-"
	}
	return policy.ParseTablename(name, p.useModules), nil
}

func (p *Parser) parseTermList() ([]policy.Term, error) {
	if p.peek().Type == TokenRightParen {
		return nil, nil
	}
	var terms []policy.Term
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
		if p.peek().Type != TokenComma {
			return terms, nil
		}
		p.next()
	}
}

func (p *Parser) parseTerm() (policy.Term, error) {
	tok := p.next()
	switch tok.Type {
	case TokenIdent:
		return policy.NewVariable(tok.Value), nil
	case TokenString:
		return policy.NewString(tok.Value), nil
	case TokenInt:
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("bad integer %q: %s", tok.Value, err)
		}
		return policy.NewInteger(i), nil
	case TokenFloat:
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.errorf("bad float %q: %s", tok.Value, err)
		}
		return policy.NewFloat(f), nil
	default:
		return nil, p.errorf("expected term, found %s", tok)
	}
}

func (p *Parser) peek() Token {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) next() Token {
	tok := p.peek()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(typ TokenType, text string) error {
	if p.peek().Type != typ {
		return p.errorf("expected %q, found %s", text, p.peek())
	}
	p.next()
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	tok := p.peek()
	return policy.Errorf("parse failure at line:%d,col:%d  "+format,
		append([]interface{}{tok.Line, tok.Col}, args...)...)
}
