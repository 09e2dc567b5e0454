package ast

import "sort"

// FreeVariables returns the sorted names an expression reads from its
// enclosing scope, including the reserved this and error when unbound.
// A dotted let reads its root name, so the root stays free in that case.
func FreeVariables(node Expression) []string {
	set := make(map[string]bool)
	collectFree(node, set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func collectFree(node Expression, set map[string]bool) {
	switch n := node.(type) {
	case *Variable:
		set[n.Name] = true
	case *This:
		set["this"] = true
	case *Error:
		set["error"] = true
	case *ListLiteral:
		for _, el := range n.Elements {
			collectFree(el, set)
		}
	case *FieldAccess:
		collectFree(n.Left, set)
	case *Subscript:
		collectFree(n.Target, set)
		collectFree(n.Index, set)
	case *Lambda:
		union(set, without(n.Body, n.Name))
	case *Application:
		collectFree(n.Left, set)
		collectFree(n.Right, set)
	case *Let:
		collectFree(n.Value, set)
		if len(n.Names) != 1 {
			collectFree(n.Body, set)
			if len(n.Names) > 1 {
				set[n.Names[0]] = true
			}
			return
		}
		union(set, without(n.Body, n.Names[0]))
	case *If:
		collectFree(n.Condition, set)
		collectFree(n.Then, set)
		collectFree(n.Else, set)
	case *Throw:
		collectFree(n.Value, set)
	case *TryCatch:
		collectFree(n.Try, set)
		union(set, without(n.Catch, "error"))
	case *TryFinally:
		collectFree(n.Try, set)
		collectFree(n.Finally, set)
	case *TryCatchFinally:
		collectFree(n.Try, set)
		union(set, without(n.Catch, "error"))
		collectFree(n.Finally, set)
	}
}

func without(node Expression, bound string) map[string]bool {
	inner := make(map[string]bool)
	collectFree(node, inner)
	delete(inner, bound)
	return inner
}

func union(dst, src map[string]bool) {
	for name := range src {
		dst[name] = true
	}
}
