// Package seedgen runs one generation: it reads the schema and the input
// records, normalizes them, and writes the seed file, the mapping document
// and the usage guide.
package seedgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Lumos-Labs-HQ/seedgen/internal/config"
	"github.com/Lumos-Labs-HQ/seedgen/internal/graph"
	"github.com/Lumos-Labs-HQ/seedgen/internal/logger"
	"github.com/Lumos-Labs-HQ/seedgen/internal/normalize"
	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/report"
	"github.com/Lumos-Labs-HQ/seedgen/internal/schema"
	"github.com/Lumos-Labs-HQ/seedgen/internal/sqlgen"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

var (
	ErrInputNotFound  = errors.New("JSON input file not found")
	ErrSchemaNotFound = errors.New("schema file not found")
)

const (
	ExitOK     = 0
	ExitFatal  = 1
	ExitIssues = 2
)

type Options struct {
	InputPath  string
	SchemaPath string
	Config     *config.Config
	Logger     *logger.Logger
	Clock      func() time.Time
}

type Result struct {
	Order       graph.Order
	State       *pipeline.State
	SeedPath    string
	MappingPath string
	UsagePath   string
}

// Run executes one generation. A returned error is fatal and means nothing
// was written; record-level problems are collected in Result.State instead.
func Run(opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = cfg.SchemaPath
	}

	if !fileExists(opts.InputPath) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.InputPath)
	}
	if !fileExists(schemaPath) {
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, schemaPath)
	}

	log.Info("processing input", "input", opts.InputPath, "schema", schemaPath)

	rawInput, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	records, err := normalize.ValidateInput(rawInput)
	if err != nil {
		return nil, err
	}
	log.Info("found meeting summaries", "count", len(records))

	schemaText, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	tables, err := schema.ParseTables(string(schemaText))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", schemaPath, err)
	}
	log.Info("found tables in schema", "count", len(tables))

	st := pipeline.New(pipeline.WithClock(clock), pipeline.WithLogger(log))

	for _, issue := range schema.Lint(string(schemaText)) {
		st.AddWarning("", "Schema %s", issue)
	}

	constraints := schema.ExtractAllConstraints(string(schemaText), tables)
	order := graph.Build(tables, constraints).Order()
	for _, c := range order.Cycles {
		st.AddWarning("", "Circular dependency detected involving table: %s", c.To)
	}
	log.Info("table insertion order", "order", order.Tables)

	tableNames := TableNames(cfg.Tables)
	normalize.New(st, FieldMap(cfg.Fields), tableNames).ProcessAll(records)
	log.Info("extracted entities",
		"workgroups", st.Groups.Len(),
		"names", st.Names.Len(),
		"tags", st.Tags.Len(),
		"meetings", st.Events.Len())

	seedPath, mappingPath, usagePath, err := cfg.OutputPaths(opts.InputPath)
	if err != nil {
		return nil, err
	}

	seedSQL, err := sqlgen.New(cfg.Dialect(), cfg.Output.BatchSize, tableNames).Generate(order.Tables, st)
	if err != nil {
		return nil, err
	}

	meta := report.Meta{
		InputFile:   opts.InputPath,
		SchemaFile:  schemaPath,
		SeedFile:    seedPath,
		UsageFile:   filepath.Base(usagePath),
		GeneratedAt: clock(),
	}
	mapping, err := report.EncodeMapping(report.BuildMapping(meta, st), cfg.MappingFormat)
	if err != nil {
		return nil, err
	}
	usage := report.RenderUsage(meta, st, order)

	for _, dir := range uniqueDirs(seedPath, mappingPath, usagePath) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	artifacts := []struct {
		path string
		data []byte
	}{
		{seedPath, []byte(seedSQL)},
		{mappingPath, mapping},
		{usagePath, []byte(usage)},
	}
	for _, a := range artifacts {
		log.Debug("writing artifact", "path", a.path)
		if err := os.WriteFile(a.path, a.data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", a.path, err)
		}
	}

	return &Result{
		Order:       order,
		State:       st,
		SeedPath:    seedPath,
		MappingPath: mappingPath,
		UsagePath:   usagePath,
	}, nil
}

// ExitCode maps a run outcome onto the process exit status.
func ExitCode(res *Result, err error) int {
	if err != nil {
		return ExitFatal
	}
	if res != nil && res.State != nil && res.State.HasIssues() {
		return ExitIssues
	}
	return ExitOK
}

func FieldMap(f config.Fields) normalize.FieldMap {
	fm := normalize.FieldMap{
		GroupName:  f.GroupName,
		GroupID:    f.GroupID,
		EventInfo:  f.EventInfo,
		EventTitle: f.EventTitle,
		EventDate:  f.EventDate,
		People:     f.People,
		Template:   f.Template,
		Tags:       make([]normalize.TagSource, 0, len(f.Tags)),
	}
	for _, t := range f.Tags {
		fm.Tags = append(fm.Tags, normalize.TagSource{Type: t.Type, Path: t.Path, Delimited: t.Delimited})
	}
	return fm
}

func TableNames(t config.Tables) types.TableNames {
	return types.TableNames{Groups: t.Groups, Names: t.Names, Tags: t.Tags, Events: t.Events}
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func uniqueDirs(paths ...string) []string {
	seen := make(map[string]bool, len(paths))
	dirs := make([]string, 0, len(paths))
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}
