// Package compiler drives a whole compile pass: parse policy source
// into formulas, then run every validation check over every formula,
// accumulating the defects so a single pass reports everything found.
package compiler

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/analysis"
	"github.com/r-mibu/congress/policy/builtin"
	"github.com/r-mibu/congress/policy/parser"
)

// Compiler processes policy source into validated formulas
type Compiler struct {
	// Theory holds the parsed formulas after ReadSource
	Theory []policy.Formula
	// Errors accumulates every defect found; it is never truncated
	// at the first failure
	Errors []error

	theories map[string]*policy.Schema
	theory   string
	builtins *builtin.Registry
	logger   *zap.Logger
}

// Options configures a Compiler. The zero value validates without
// schema checking, with the default builtin registry.
type Options struct {
	// Theories maps service name to its schema, for consistency checks
	Theories map[string]*policy.Schema
	// Theory is the default service for unqualified literals
	Theory string
	// Builtins overrides the default builtin registry
	Builtins *builtin.Registry
	// Logger receives debug diagnostics; nil disables them
	Logger *zap.Logger
}

// New creates a compiler
func New(opts Options) *Compiler {
	builtins := opts.Builtins
	if builtins == nil {
		builtins = builtin.DefaultRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		theories: opts.Theories,
		theory:   opts.Theory,
		builtins: builtins,
		logger:   logger,
	}
}

// ReadSource parses policy source text and appends the formulas to
// the compiler's theory. A parse failure is recorded and returned; it
// does not clear previously read formulas.
func (c *Compiler) ReadSource(input string) error {
	formulas, err := parser.Parse(input)
	if err != nil {
		c.Errors = append(c.Errors, err)
		return err
	}
	c.Theory = append(c.Theory, formulas...)
	c.logger.Debug("read source", zap.Int("formulas", len(formulas)))
	return nil
}

// ReadFile parses the policy file at path
func (c *Compiler) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		c.Errors = append(c.Errors, err)
		return err
	}
	return c.ReadSource(string(data))
}

// Validate runs the fact/rule checks over every formula read so far
// and returns the newly found defects, which are also accumulated on
// the compiler
func (c *Compiler) Validate() []error {
	var errors []error
	for _, formula := range c.Theory {
		switch f := formula.(type) {
		case *policy.Literal:
			errors = append(errors, analysis.FactErrors(f, c.theories, c.theory)...)
		case *policy.Rule:
			errors = append(errors, analysis.RuleErrors(f, c.theories, c.theory, c.builtins)...)
		}
	}
	c.Errors = append(c.Errors, errors...)
	c.logger.Debug("validated theory",
		zap.Int("formulas", len(c.Theory)),
		zap.Int("errors", len(errors)))
	return errors
}

// Err combines the accumulated errors into one, or nil when the
// compile pass found no defects
func (c *Compiler) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	var combined *multierror.Error
	for _, err := range c.Errors {
		combined = multierror.Append(combined, err)
	}
	return combined.ErrorOrNil()
}
