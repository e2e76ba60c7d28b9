// Package report builds the provenance mapping document and the usage
// guide written next to the seed file.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/seedgen/internal/pipeline"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

const MappingVersion = "1.0"

// Meta describes one run: where inputs came from and where the seed file
// was written.
type Meta struct {
	InputFile   string
	SchemaFile  string
	SeedFile    string
	UsageFile   string
	GeneratedAt time.Time
}

type Statistics struct {
	TotalRecords int `json:"totalRecords" yaml:"totalRecords"`
	Workgroups   int `json:"workgroups" yaml:"workgroups"`
	Meetings     int `json:"meetings" yaml:"meetings"`
	Names        int `json:"names" yaml:"names"`
	Tags         int `json:"tags" yaml:"tags"`
	Errors       int `json:"errors" yaml:"errors"`
	Warnings     int `json:"warnings" yaml:"warnings"`
}

type MappingDocument struct {
	Version         string                 `json:"version" yaml:"version"`
	GeneratedAt     string                 `json:"generatedAt" yaml:"generatedAt"`
	InputFile       string                 `json:"inputFile" yaml:"inputFile"`
	SchemaFile      string                 `json:"schemaFile" yaml:"schemaFile"`
	Mappings        []types.Mapping        `json:"mappings" yaml:"mappings"`
	SyntheticFields []types.SyntheticField `json:"syntheticFields" yaml:"syntheticFields"`
	Statistics      Statistics             `json:"statistics" yaml:"statistics"`
}

func CollectStatistics(st *pipeline.State) Statistics {
	return Statistics{
		TotalRecords: st.RecordsSeen,
		Workgroups:   st.Groups.Len(),
		Meetings:     st.Events.Len(),
		Names:        st.Names.Len(),
		Tags:         st.Tags.Len(),
		Errors:       len(st.Errors),
		Warnings:     len(st.Warnings),
	}
}

func BuildMapping(meta Meta, st *pipeline.State) MappingDocument {
	doc := MappingDocument{
		Version:         MappingVersion,
		GeneratedAt:     meta.GeneratedAt.UTC().Format(time.RFC3339),
		InputFile:       meta.InputFile,
		SchemaFile:      meta.SchemaFile,
		Mappings:        append([]types.Mapping{}, st.Mappings()...),
		SyntheticFields: append([]types.SyntheticField{}, st.SyntheticFields()...),
		Statistics:      CollectStatistics(st),
	}
	return doc
}

// EncodeMapping renders doc as indented JSON or YAML.
func EncodeMapping(doc MappingDocument, format string) ([]byte, error) {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode mapping as json: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode mapping as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode mapping as yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported mapping format: %s", format)
	}
}
