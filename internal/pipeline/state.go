// Package pipeline holds the state accumulated over one generation run:
// entity stores, the issue log and the provenance log.
//
// A State is not safe for concurrent use. Records are processed one at a
// time, in input order.
package pipeline

import (
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/seedgen/internal/logger"
	"github.com/Lumos-Labs-HQ/seedgen/internal/types"
)

type syntheticKey struct {
	table  string
	column string
}

type State struct {
	Groups *Store[string, types.Group]
	Names  *Store[string, types.Name]
	Tags   *Store[types.TagKey, types.Tag]
	Events *Store[types.EventKey, types.Event]

	Errors   []types.Issue
	Warnings []types.Issue

	mappings  *Store[types.MappingKey, types.Mapping]
	synthetic *Store[syntheticKey, types.SyntheticField]

	// RecordsSeen counts every input record handed to the normalizer,
	// including ones that produced no entities.
	RecordsSeen int

	clock func() time.Time
	log   *logger.Logger
}

type Option func(*State)

// WithClock replaces time.Now for timestamps that have no input value.
func WithClock(clock func() time.Time) Option {
	return func(s *State) { s.clock = clock }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *State) { s.log = l }
}

func New(opts ...Option) *State {
	s := &State{
		Groups:    NewStore[string, types.Group](),
		Names:     NewStore[string, types.Name](),
		Tags:      NewStore[types.TagKey, types.Tag](),
		Events:    NewStore[types.EventKey, types.Event](),
		mappings:  NewStore[types.MappingKey, types.Mapping](),
		synthetic: NewStore[syntheticKey, types.SyntheticField](),
		clock:     time.Now,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time from the state's clock, in UTC.
func (s *State) Now() time.Time {
	return s.clock().UTC()
}

// Clock exposes the state's clock for formatting helpers.
func (s *State) Clock() func() time.Time {
	return s.clock
}

func (s *State) Logger() *logger.Logger {
	return s.log
}

// AddError records an error. recordID may be empty.
func (s *State) AddError(recordID, format string, args ...interface{}) {
	issue := types.Issue{Severity: types.SeverityError, RecordID: recordID, Message: fmt.Sprintf(format, args...)}
	s.Errors = append(s.Errors, issue)
	s.log.Error(issue.Message, "record", recordID)
}

// AddWarning records a warning. recordID may be empty.
func (s *State) AddWarning(recordID, format string, args ...interface{}) {
	issue := types.Issue{Severity: types.SeverityWarning, RecordID: recordID, Message: fmt.Sprintf(format, args...)}
	s.Warnings = append(s.Warnings, issue)
	s.log.Warn(issue.Message, "record", recordID)
}

func (s *State) HasIssues() bool {
	return len(s.Errors) > 0 || len(s.Warnings) > 0
}

// AddMapping appends m unless a mapping for the same path, table and column
// was already recorded.
func (s *State) AddMapping(m types.Mapping) bool {
	return s.mappings.Add(m.Key(), m)
}

// AddSyntheticField appends f unless the table and column were already noted.
func (s *State) AddSyntheticField(f types.SyntheticField) bool {
	return s.synthetic.Add(syntheticKey{table: f.Table, column: f.Column}, f)
}

func (s *State) Mappings() []types.Mapping {
	return s.mappings.Items()
}

func (s *State) SyntheticFields() []types.SyntheticField {
	return s.synthetic.Items()
}
