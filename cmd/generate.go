package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/seedgen/internal/seedgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <input.json> [schema.sql]",
	Short: "Generate seed.sql, the mapping document and TESTDATA.md",
	Long: `Normalize a JSON array of meeting summaries into workgroups, names, tags
and meeting summaries, and write INSERT statements in foreign-key order.

The schema defaults to schema_path from the config (./schema.sql). Output
files are written next to the input file unless --out is given.

Exit status is 0 on a clean run, 2 when warnings or record errors were
recorded, and 1 when nothing could be generated.`,
	Example: `  seedgen generate data/meetings.json
  seedgen generate data/meetings.json supabase/schema.sql --out seed/ --mapping-format yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		schemaPath := cfg.SchemaPath
		if len(args) == 2 {
			schemaPath = args[1]
		}

		color.Cyan("🌱 Processing %s...", args[0])
		res, err := seedgen.Run(seedgen.Options{
			InputPath:  args[0],
			SchemaPath: schemaPath,
			Config:     cfg,
			Logger:     log,
		})
		exitCode = seedgen.ExitCode(res, err)
		if err != nil {
			color.Red("❌ Generation failed")
			return err
		}

		st := res.State
		color.Green("📊 Found %d tables", len(res.Order.Tables))
		color.Cyan("📋 Insertion order: %s", strings.Join(res.Order.Tables, " → "))
		fmt.Printf("   Workgroups: %d\n", st.Groups.Len())
		fmt.Printf("   Names:      %d\n", st.Names.Len())
		fmt.Printf("   Tags:       %d\n", st.Tags.Len())
		fmt.Printf("   Meetings:   %d\n", st.Events.Len())
		fmt.Println()
		color.Green("✅ Wrote %s", res.SeedPath)
		color.Green("✅ Wrote %s", res.MappingPath)
		color.Green("✅ Wrote %s", res.UsagePath)

		if st.HasIssues() {
			color.Yellow("⚠️  Warnings: %d, Errors: %d (see %s for details)", len(st.Warnings), len(st.Errors), res.UsagePath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("out", "", "Directory for generated files (default: next to the input file)")
	generateCmd.Flags().String("mapping-format", "", "Mapping document format: json or yaml")
	generateCmd.Flags().String("dialect", "", "Clearing statement dialect: postgresql, mysql or sqlite")
	generateCmd.Flags().Int("batch", 0, "Rows per INSERT statement (default 1)")

	viper.BindPFlag("output_dir", generateCmd.Flags().Lookup("out"))
	viper.BindPFlag("mapping_format", generateCmd.Flags().Lookup("mapping-format"))
	viper.BindPFlag("database.provider", generateCmd.Flags().Lookup("dialect"))
	viper.BindPFlag("output.batch_size", generateCmd.Flags().Lookup("batch"))
}
