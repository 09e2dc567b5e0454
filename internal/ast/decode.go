package ast

import (
	"fmt"
	"os"

	"github.com/funvibe/lambda/internal/diagnostics"
	"github.com/funvibe/lambda/internal/typesystem"

	"gopkg.in/yaml.v3"
)

// Trees can be stored as YAML documents. Scalars are shorthands:
// numbers and booleans are literals, the words fix/this/error are the
// corresponding nodes, and any other plain string is a variable. Every
// other node is a mapping discriminated by its keys:
//
//	literal: <any YAML value>
//	list: [node, ...]
//	field: name, of: node
//	index: node, of: node
//	lambda: name, type: type, body: node      (type is optional)
//	apply: [fn, arg, ...]
//	let: a.b.c, value: node, in: node
//	if: node, then: node, else: node
//	throw: node
//	try: node, catch: node, finally: node     (catch or finally may be omitted)
//
// Types are names (unknown, undefined, bool, complex, real, integer,
// natural, string) or mappings {list: type} and {param: type, result: type}.

// ReadFile decodes the tree stored in a YAML file.
func ReadFile(path string) (Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", path, err)
	}
	return Decode(data)
}

// Decode decodes a single YAML document into a tree.
func Decode(data []byte) (Expression, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, diagnostics.Syntax("%v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, diagnostics.Syntax("expected a single YAML document")
	}
	return decodeNode(doc.Content[0])
}

func syntaxError(n *yaml.Node, format string, a ...interface{}) error {
	return diagnostics.Syntax("line %d: %s", n.Line, fmt.Sprintf(format, a...))
}

func decodeNode(n *yaml.Node) (Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		return nil, syntaxError(n, "bare sequence; use `list:` or `apply:`")
	case yaml.MappingNode:
		return decodeMapping(n)
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	}
	return nil, syntaxError(n, "unexpected YAML node")
}

func decodeScalar(n *yaml.Node) (Expression, error) {
	switch n.Tag {
	case "!!int", "!!float", "!!bool":
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, syntaxError(n, "%v", err)
		}
		return &Literal{Value: v}, nil
	case "!!str":
		switch n.Value {
		case "fix":
			return &Fix{}, nil
		case "this":
			return &This{}, nil
		case "error":
			return &Error{}, nil
		case "":
			return nil, syntaxError(n, "empty variable name")
		}
		return &Variable{Name: n.Value}, nil
	}
	return nil, syntaxError(n, "unsupported scalar %q", n.Value)
}

func mappingFields(n *yaml.Node) (map[string]*yaml.Node, error) {
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			return nil, syntaxError(key, "mapping keys must be scalars")
		}
		if _, dup := fields[key.Value]; dup {
			return nil, syntaxError(key, "duplicate key %q", key.Value)
		}
		fields[key.Value] = n.Content[i+1]
	}
	return fields, nil
}

func decodeMapping(n *yaml.Node) (Expression, error) {
	f, err := mappingFields(n)
	if err != nil {
		return nil, err
	}
	sub := func(key string) (Expression, error) {
		node, ok := f[key]
		if !ok {
			return nil, syntaxError(n, "missing `%s`", key)
		}
		return decodeNode(node)
	}
	name := func(key string) (string, error) {
		node, ok := f[key]
		if !ok || node.Kind != yaml.ScalarNode || node.Value == "" {
			return "", syntaxError(n, "`%s` must be a name", key)
		}
		return node.Value, nil
	}

	switch {
	case f["literal"] != nil:
		var v interface{}
		if err := f["literal"].Decode(&v); err != nil {
			return nil, syntaxError(f["literal"], "%v", err)
		}
		return &Literal{Value: v}, nil

	case f["list"] != nil:
		seq := f["list"]
		if seq.Kind != yaml.SequenceNode {
			return nil, syntaxError(seq, "`list` must be a sequence")
		}
		elements := make([]Expression, len(seq.Content))
		for i, item := range seq.Content {
			if elements[i], err = decodeNode(item); err != nil {
				return nil, err
			}
		}
		return &ListLiteral{Elements: elements}, nil

	case f["field"] != nil:
		fieldName, err := name("field")
		if err != nil {
			return nil, err
		}
		left, err := sub("of")
		if err != nil {
			return nil, err
		}
		return &FieldAccess{Left: left, Name: fieldName}, nil

	case f["index"] != nil:
		index, err := sub("index")
		if err != nil {
			return nil, err
		}
		target, err := sub("of")
		if err != nil {
			return nil, err
		}
		return &Subscript{Target: target, Index: index}, nil

	case f["lambda"] != nil:
		param, err := name("lambda")
		if err != nil {
			return nil, err
		}
		body, err := sub("body")
		if err != nil {
			return nil, err
		}
		var typ typesystem.Type
		if tn, ok := f["type"]; ok {
			if typ, err = DecodeType(tn); err != nil {
				return nil, err
			}
		}
		return &Lambda{Name: param, Type: typ, Body: body}, nil

	case f["apply"] != nil:
		seq := f["apply"]
		if seq.Kind != yaml.SequenceNode || len(seq.Content) < 2 {
			return nil, syntaxError(seq, "`apply` needs a function and at least one argument")
		}
		nodes := make([]Expression, len(seq.Content))
		for i, item := range seq.Content {
			if nodes[i], err = decodeNode(item); err != nil {
				return nil, err
			}
		}
		return Call(nodes[0], nodes[1:]...), nil

	case f["let"] != nil:
		path, err := name("let")
		if err != nil {
			return nil, err
		}
		names := Path(path)
		for _, segment := range names {
			if segment == "" {
				return nil, syntaxError(f["let"], "empty segment in path %q", path)
			}
		}
		value, err := sub("value")
		if err != nil {
			return nil, err
		}
		body, err := sub("in")
		if err != nil {
			return nil, err
		}
		return &Let{Names: names, Value: value, Body: body}, nil

	case f["if"] != nil:
		cond, err := sub("if")
		if err != nil {
			return nil, err
		}
		then, err := sub("then")
		if err != nil {
			return nil, err
		}
		els, err := sub("else")
		if err != nil {
			return nil, err
		}
		return &If{Condition: cond, Then: then, Else: els}, nil

	case f["throw"] != nil:
		value, err := sub("throw")
		if err != nil {
			return nil, err
		}
		return &Throw{Value: value}, nil

	case f["try"] != nil:
		return decodeTry(n, f)
	}
	return nil, syntaxError(n, "unrecognised node")
}

func decodeTry(n *yaml.Node, f map[string]*yaml.Node) (Expression, error) {
	try, err := decodeNode(f["try"])
	if err != nil {
		return nil, err
	}
	var catch, finally Expression
	if c, ok := f["catch"]; ok {
		if catch, err = decodeNode(c); err != nil {
			return nil, err
		}
	}
	if fin, ok := f["finally"]; ok {
		if finally, err = decodeNode(fin); err != nil {
			return nil, err
		}
	}
	switch {
	case catch != nil && finally != nil:
		return &TryCatchFinally{Try: try, Catch: catch, Finally: finally}, nil
	case catch != nil:
		return &TryCatch{Try: try, Catch: catch}, nil
	case finally != nil:
		return &TryFinally{Try: try, Finally: finally}, nil
	}
	return nil, syntaxError(n, "`try` needs `catch` or `finally`")
}

// DecodeType decodes a type annotation.
func DecodeType(n *yaml.Node) (typesystem.Type, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.Value {
		case "unknown":
			return typesystem.Unknown{}, nil
		case "undefined":
			return typesystem.Undefined{}, nil
		case "bool":
			return typesystem.Boolean{}, nil
		case "complex":
			return typesystem.Complex{}, nil
		case "real":
			return typesystem.Real{}, nil
		case "integer":
			return typesystem.Integer{}, nil
		case "natural":
			return typesystem.Natural{}, nil
		case "string":
			return typesystem.String{}, nil
		}
		return nil, syntaxError(n, "unknown type %q", n.Value)
	case yaml.MappingNode:
		f, err := mappingFields(n)
		if err != nil {
			return nil, err
		}
		if elem, ok := f["list"]; ok {
			inner, err := DecodeType(elem)
			if err != nil {
				return nil, err
			}
			return typesystem.NewList(inner), nil
		}
		param, okParam := f["param"]
		result, okResult := f["result"]
		if okParam && okResult {
			p, err := DecodeType(param)
			if err != nil {
				return nil, err
			}
			r, err := DecodeType(result)
			if err != nil {
				return nil, err
			}
			return typesystem.NewLambda(p, r), nil
		}
	}
	return nil, syntaxError(n, "malformed type")
}
