package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/seedgen/internal/graph"
	"github.com/Lumos-Labs-HQ/seedgen/internal/schema"
)

var orderVerbose bool

var orderCmd = &cobra.Command{
	Use:   "order [schema.sql]",
	Short: "Print the table insertion order for a schema",
	Long: `Parse a schema, build the foreign-key dependency graph and print the
order in which tables must be populated. Circular dependencies and schema
lint findings are reported as warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		schemaPath := cfg.SchemaPath
		if len(args) == 1 {
			schemaPath = args[0]
		}
		if !fileExists(schemaPath) {
			return fmt.Errorf("schema file not found: %s", schemaPath)
		}

		content, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		text := string(content)

		tables, err := schema.ParseTables(text)
		if err != nil {
			return err
		}

		g := graph.Build(tables, schema.ExtractAllConstraints(text, tables))
		order := g.Order()

		color.Green("📊 Found %d tables in %s", len(tables), schemaPath)
		fmt.Println()
		for i, name := range order.Tables {
			fmt.Printf("%3d. %s ", i+1, name)
			color.New(color.FgHiBlack).Printf("(level %d)\n", order.Levels[name])

			if orderVerbose {
				if deps := g.Dependencies(name); len(deps) > 0 {
					fmt.Printf("       depends on: %s\n", strings.Join(deps, ", "))
				}
				if deps := g.Dependents(name); len(deps) > 0 {
					fmt.Printf("       referenced by: %s\n", strings.Join(deps, ", "))
				}
				for _, t := range tables {
					if t.Name == name {
						fmt.Printf("       columns: %d\n", len(schema.ExtractColumns(t.Body)))
					}
				}
			}
		}

		issues := schema.Lint(text)
		if len(order.Cycles) > 0 || len(issues) > 0 {
			fmt.Println()
			exitCode = 2
		}
		for _, c := range order.Cycles {
			color.Yellow("⚠️  %s", c)
		}
		for _, issue := range issues {
			color.Yellow("⚠️  %s", issue)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.Flags().BoolVarP(&orderVerbose, "verbose", "V", false, "Show dependencies and column counts per table")
}
