package graph

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// MovePolicy evaluates host-configurable movability rules. Each rule is a
// boolean expression keyed by node type; a node whose type has no rule is
// movable. Expressions see a small read-only environment:
//
//	id          node ID (string)
//	type        node type (string)
//	collapsed   collapsed flag (bool)
//	connections number of connections (int)
//	occupied    number of occupied connections (int)
//
// Example rule: `!collapsed && occupied < connections`
type MovePolicy struct {
	programs map[string]*vm.Program
}

// NewMovePolicy compiles the given rules eagerly so malformed expressions
// fail at construction rather than mid-session
func NewMovePolicy(rules map[string]string) (*MovePolicy, error) {
	programs := make(map[string]*vm.Program, len(rules))
	for nodeType, rule := range rules {
		program, err := expr.Compile(rule,
			expr.Env(policyEnv{}),
			expr.AsBool(),
		)
		if err != nil {
			return nil, fmt.Errorf("move policy: compiling rule for %q: %w", nodeType, err)
		}
		programs[nodeType] = program
	}
	return &MovePolicy{programs: programs}, nil
}

// policyEnv is the expression environment for a single node
type policyEnv struct {
	ID          string `expr:"id"`
	Type        string `expr:"type"`
	Collapsed   bool   `expr:"collapsed"`
	Connections int    `expr:"connections"`
	Occupied    int    `expr:"occupied"`
}

// Movable evaluates the rule for the node's type.
// Nodes without a rule are movable.
func (p *MovePolicy) Movable(node *Node) (bool, error) {
	if p == nil || node == nil {
		return true, nil
	}
	program, ok := p.programs[node.Type]
	if !ok {
		return true, nil
	}

	occupied := 0
	for _, conn := range node.Connections {
		if conn.Occupied() {
			occupied++
		}
	}

	env := policyEnv{
		ID:          node.ID,
		Type:        node.Type,
		Collapsed:   node.Collapsed,
		Connections: len(node.Connections),
		Occupied:    occupied,
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("move policy: evaluating rule for %q: %w", node.Type, err)
	}
	movable, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("move policy: rule for %q returned %T, want bool", node.Type, result)
	}
	return movable, nil
}
