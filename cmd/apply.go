package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/seedgen/internal/db"
)

var applyCmd = &cobra.Command{
	Use:   "apply [seed.sql]",
	Short: "Execute a generated seed file against a database",
	Long: `Run every statement of a seed file against the database named by the
configured URL environment variable (DATABASE_URL by default).

Statements run one at a time without a transaction; the first failure stops
the run and earlier statements stay applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		seedPath := cfg.Output.SeedFile
		if len(args) == 1 {
			seedPath = args[0]
		}
		content, err := os.ReadFile(seedPath)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}

		statements := db.SplitStatements(string(content))
		if len(statements) == 0 {
			fmt.Println("✅ No statements to apply")
			return nil
		}

		fmt.Printf("📋 Found %d statement(s) in %s\n", len(statements), seedPath)

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Print("\nDo you want to apply them? (yes/no): ")
			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				fmt.Println("❌ Apply cancelled")
				return nil
			}
		}

		conn, err := db.NewConnection(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		executed, err := conn.Apply(cmd.Context(), statements)
		if err != nil {
			color.Red("❌ Applied %d of %d statement(s)", executed, len(statements))
			return err
		}

		color.Green("✅ Applied %d statement(s)", executed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().String("driver", "", "PostgreSQL driver: pgx (default) or pq")

	viper.BindPFlag("database.driver", applyCmd.Flags().Lookup("driver"))
}
