package simpletemplate

import (
	"sort"

	"github.com/simpletemplate/simpletemplate-go/parser"
)

// UndeclaredVariables returns the sorted top-level names the template reads
// from its data. Loop variables and `index` are left out where a loop binds
// them.
func (t *Template) UndeclaredVariables() []string {
	referenced := map[string]struct{}{}
	collectReferencedNames(t.compiled.ast.Children, nil, referenced)

	names := make([]string, 0, len(referenced))
	for name := range referenced {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectReferencedNames(nodes []parser.Node, bound []string, referenced map[string]struct{}) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *parser.EmitVar:
			if !isBound(n.Name, bound) {
				referenced[n.Name] = struct{}{}
			}
		case *parser.EmitIndex:
			referenced[n.Name] = struct{}{}
		case *parser.ForLoop:
			referenced[n.Iter] = struct{}{}
			collectReferencedNames(n.Body, append(bound[:len(bound):len(bound)], n.Var, "index"), referenced)
		case *parser.IfCond:
			referenced[n.Cond] = struct{}{}
			collectReferencedNames(n.TrueBody, bound, referenced)
			collectReferencedNames(n.FalseBody, bound, referenced)
		}
	}
}

func isBound(name string, bound []string) bool {
	for _, b := range bound {
		if b == name {
			return true
		}
	}
	return false
}
