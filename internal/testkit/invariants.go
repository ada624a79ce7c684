// Package testkit holds structural checks shared by tests and fuzz
// harnesses of the lowering pipeline.
package testkit

import (
	"errors"
	"fmt"

	"vanadium/internal/ttcn/ast"
)

// CheckTree runs the structural invariants of a lowered tree:
//  1. root resolves and is a Root node
//  2. every reachable id resolves in the tree's current arena generation
//  3. every node's Parent is the node it hangs under
//  4. no Children entry is a nil id
func CheckTree(tree *ast.Tree, root ast.NodeID) error {
	if tree == nil {
		return errors.New("nil tree")
	}
	r, err := tree.Get(root)
	if err != nil {
		return fmt.Errorf("root %s: %w", root, err)
	}
	if r == nil || r.Kind != ast.KindRoot {
		return fmt.Errorf("root %s is not a Root node", root)
	}

	var problem error
	var path []ast.NodeID
	err = tree.Walk(root, func(id ast.NodeID, n *ast.Node, depth int) bool {
		if problem != nil {
			return false
		}
		path = path[:depth]
		if depth > 0 && n.Parent != path[depth-1] {
			problem = fmt.Errorf("%s %s at depth %d has parent %s, want %s", n.Kind, id, depth, n.Parent, path[depth-1])
			return false
		}
		for i, c := range n.Children {
			if c.IsNil() {
				problem = fmt.Errorf("%s %s: child %d is nil", n.Kind, id, i)
				return false
			}
		}
		path = append(path, id)
		return true
	})
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	return problem
}
