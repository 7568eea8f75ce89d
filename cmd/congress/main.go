// Command congress checks Datalog policy files: validation, recursion
// and stratification reports, dependency queries, and policy slicing.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/r-mibu/congress/policy"
	"github.com/r-mibu/congress/policy/analysis"
	"github.com/r-mibu/congress/policy/compiler"
	"github.com/r-mibu/congress/policy/graph"
)

var (
	schemaPath string
	theory     string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "congress",
		Short:         "Datalog policy compiler checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&schemaPath, "schema", "", "YAML schema catalog for consistency checks")
	root.PersistentFlags().StringVar(&theory, "theory", "", "default theory for unqualified tables")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(checkCmd(), strataCmd(), depsCmd(), subpolicyCmd())

	if err := root.Execute(); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadTheory(args []string) (*compiler.Compiler, error) {
	var theories map[string]*policy.Schema
	if schemaPath != "" {
		var err error
		theories, err = compiler.LoadSchemas(schemaPath)
		if err != nil {
			return nil, err
		}
	}
	c := compiler.New(compiler.Options{
		Theories: theories,
		Theory:   theory,
		Logger:   newLogger(),
	})
	for _, path := range args {
		if err := c.ReadFile(path); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return c, nil
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <policy-file>...",
		Short: "Validate policy files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadTheory(args)
			if err != nil {
				return err
			}
			errors := c.Validate()
			if len(errors) == 0 {
				color.Green("ok: %d formulas", len(c.Theory))
				return nil
			}
			for _, e := range errors {
				color.Red("  %v", e)
			}
			return fmt.Errorf("%d errors in %d formulas", len(errors), len(c.Theory))
		},
	}
}

func strataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strata <policy-file>...",
		Short: "Print the table stratification",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadTheory(args)
			if err != nil {
				return err
			}
			strata, ok := graph.Stratification(c.Theory)
			if !ok {
				return fmt.Errorf("policy is not stratifiable: some table depends on its own negation")
			}
			if graph.IsRecursive(c.Theory) {
				color.Yellow("policy is recursive")
			}

			tables := make([]string, 0, len(strata))
			for table := range strata {
				tables = append(tables, table)
			}
			sort.Slice(tables, func(i, j int) bool {
				if strata[tables[i]] != strata[tables[j]] {
					return strata[tables[i]] < strata[tables[j]]
				}
				return tables[i] < tables[j]
			})

			out := &strings.Builder{}
			table := tablewriter.NewTable(out,
				tablewriter.WithRenderer(renderer.NewMarkdown()),
				tablewriter.WithHeaderAutoFormat(tw.Off),
			)
			table.Header([]string{"table", "stratum"})
			for _, name := range tables {
				table.Append([]string{name, strconv.Itoa(strata[name])})
			}
			table.Render()
			fmt.Print(out.String())
			return nil
		},
	}
}

func depsCmd() *cobra.Command {
	var definitions bool
	cmd := &cobra.Command{
		Use:   "deps <table> <policy-file>...",
		Short: "Print the dependency closure of a table",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadTheory(args[1:])
			if err != nil {
				return err
			}
			g := graph.NewRuleDependencyGraph(c.Theory, graph.Options{
				Theory: theory,
				Logger: newLogger(),
			})
			var closure []string
			if definitions {
				closure = g.FindDefinitions([]string{args[0]})
			} else {
				closure = g.FindDependencies([]string{args[0]})
			}
			for _, name := range closure {
				fmt.Println(name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&definitions, "definitions", false,
		"print the tables needed to define the table instead of its dependents")
	return cmd
}

func subpolicyCmd() *cobra.Command {
	var required, prohibited, outputs []string
	cmd := &cobra.Command{
		Use:   "subpolicy <policy-file>...",
		Short: "Extract the rule subset defining the output tables",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadTheory(args)
			if err != nil {
				return err
			}
			var rules []*policy.Rule
			for _, formula := range c.Theory {
				if rule, ok := formula.(*policy.Rule); ok {
					rules = append(rules, rule)
				}
			}
			subset := analysis.FindSubpolicy(rules, required, prohibited, outputs, newLogger())
			for _, rule := range subset {
				fmt.Println(rule)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&required, "required", nil, "tables rules must depend on")
	cmd.Flags().StringSliceVar(&prohibited, "prohibited", nil, "tables rules must not depend on")
	cmd.Flags().StringSliceVar(&outputs, "output", nil, "tables the subpolicy must define")
	return cmd
}
