// Package graph orders tables so that every table referenced by a foreign
// key is inserted before the tables that reference it.
package graph

import (
	"fmt"
	"strings"

	"github.com/Lumos-Labs-HQ/seedgen/internal/schema"
)

type node struct {
	name         string
	dependencies []string
	dependents   []string
}

// DependencyGraph is built once by Build and read-only afterwards.
type DependencyGraph struct {
	nodes map[string]*node
	order []string
}

// Cycle marks an edge that closed a loop during the sort. From depends on To,
// and To was still being visited. A self-reference has From == To.
type Cycle struct {
	From string
	To   string
}

func (c Cycle) String() string {
	if c.From == c.To {
		return fmt.Sprintf("circular dependency: %s references itself", c.From)
	}
	return fmt.Sprintf("circular dependency: %s -> %s", c.From, c.To)
}

// Order is the result of a topological sort.
type Order struct {
	Tables []string
	Cycles []Cycle
	Levels map[string]int
}

// Build adds an edge A -> B for every foreign key of A that targets a known
// table B. Foreign keys to tables missing from the schema are ignored.
func Build(tables []schema.TableDescriptor, constraints map[string]schema.ConstraintSet) *DependencyGraph {
	g := &DependencyGraph{
		nodes: make(map[string]*node, len(tables)),
		order: make([]string, 0, len(tables)),
	}

	for _, t := range tables {
		key := strings.ToLower(t.Name)
		if _, exists := g.nodes[key]; exists {
			continue
		}
		g.nodes[key] = &node{name: t.Name}
		g.order = append(g.order, key)
	}

	for _, key := range g.order {
		n := g.nodes[key]
		for _, fk := range constraints[n.name].ForeignKeys {
			target, ok := g.nodes[strings.ToLower(fk.RefTable)]
			if !ok {
				continue
			}
			n.dependencies = appendUnique(n.dependencies, target.name)
			target.dependents = appendUnique(target.dependents, n.name)
		}
	}

	return g
}

// Tables returns the table names in declaration order.
func (g *DependencyGraph) Tables() []string {
	names := make([]string, 0, len(g.order))
	for _, key := range g.order {
		names = append(names, g.nodes[key].name)
	}
	return names
}

// Dependencies returns the tables that table references.
func (g *DependencyGraph) Dependencies(table string) []string {
	if n, ok := g.nodes[strings.ToLower(table)]; ok {
		return append([]string(nil), n.dependencies...)
	}
	return nil
}

// Dependents returns the tables that reference table.
func (g *DependencyGraph) Dependents(table string) []string {
	if n, ok := g.nodes[strings.ToLower(table)]; ok {
		return append([]string(nil), n.dependents...)
	}
	return nil
}

// Order runs a depth-first topological sort. Tables are visited in
// declaration order and dependencies in the order their foreign keys were
// found, so the result is stable for a given schema. An edge back into a
// table still on the stack is recorded as a Cycle and skipped.
func (g *DependencyGraph) Order() Order {
	visited := make(map[string]bool, len(g.nodes))
	temp := make(map[string]bool, len(g.nodes))
	result := Order{
		Tables: make([]string, 0, len(g.nodes)),
		Levels: make(map[string]int, len(g.nodes)),
	}

	var visit func(string)
	visit = func(key string) {
		n := g.nodes[key]
		temp[key] = true

		level := 0
		for _, dep := range n.dependencies {
			depKey := strings.ToLower(dep)
			if temp[depKey] {
				result.Cycles = append(result.Cycles, Cycle{From: n.name, To: dep})
				continue
			}
			if !visited[depKey] {
				visit(depKey)
			}
			if l := result.Levels[dep] + 1; l > level {
				level = l
			}
		}

		temp[key] = false
		visited[key] = true
		result.Levels[n.name] = level
		result.Tables = append(result.Tables, n.name)
	}

	for _, key := range g.order {
		if !visited[key] {
			visit(key)
		}
	}

	return result
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
