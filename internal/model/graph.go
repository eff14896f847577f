package model

import (
	"fmt"
	"strings"
)

// dependencyOrder arranges field names so every conditioned field follows
// the field its condition targets. Conditions referencing names outside the
// definition carry no edge; those fields simply stay fail-closed at resolve
// time. Each field declares at most one condition, so the graph has at most
// one inbound edge per node and a single pass detects any cycle.
func dependencyOrder(fields []Field, index map[string]int) ([]string, error) {
	dependents := make(map[string][]string, len(fields))
	indegree := make(map[string]int, len(fields))

	for _, field := range fields {
		indegree[field.Name] = 0
	}
	for _, field := range fields {
		if field.Condition == nil {
			continue
		}
		target := field.Condition.Field
		if _, known := index[target]; !known {
			continue
		}
		dependents[target] = append(dependents[target], field.Name)
		indegree[field.Name]++
	}

	queue := make([]string, 0, len(fields))
	for _, field := range fields {
		if indegree[field.Name] == 0 {
			queue = append(queue, field.Name)
		}
	}

	order := make([]string, 0, len(fields))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		order = append(order, name)
		for _, dep := range dependents[name] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(fields) {
		return nil, &ConfigError{Issues: []string{describeCycle(fields, index, order)}}
	}
	return order, nil
}

// describeCycle names the loop left over after the topological pass, chasing
// condition targets from the first unprocessed field in declaration order.
func describeCycle(fields []Field, index map[string]int, order []string) string {
	placed := make(map[string]struct{}, len(order))
	for _, name := range order {
		placed[name] = struct{}{}
	}

	start := ""
	for _, field := range fields {
		if _, ok := placed[field.Name]; !ok {
			start = field.Name
			break
		}
	}
	if start == "" {
		return "condition cycle detected"
	}

	path := []string{start}
	visited := map[string]struct{}{start: {}}
	current := start
	for {
		field := fields[index[current]]
		if field.Condition == nil {
			break
		}
		next := field.Condition.Field
		path = append(path, next)
		if _, seen := visited[next]; seen {
			break
		}
		visited[next] = struct{}{}
		current = next
	}
	return fmt.Sprintf("condition cycle: %s", strings.Join(path, " -> "))
}
