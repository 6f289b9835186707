package spec

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	verr "github.com/lrkit/lrkit/error"
	"github.com/lrkit/lrkit/grammar/symbol"
)

// ParseYAML reads a grammar written as a mapping. Because JSON is a subset of YAML,
// JSON documents are accepted too.
//
//	name: cc
//	start: S
//	rules:
//	  S: [C C]
//	  C:
//	    - c C
//	    - [d]
//	terminals:
//	  d: "d+"
//
// An alternative is either a whitespace-separated string or a sequence of names.
// ε, an empty string, or an empty sequence denotes an empty alternative. The keys of
// rules are the non-terminals, in declaration order.
func ParseYAML(src io.Reader) (*RootNode, error) {
	var doc yaml.Node
	err := yaml.NewDecoder(src).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode a grammar mapping")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, yamlError(&doc, synErrMappingExpected, "")
	}

	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, yamlError(top, synErrMappingExpected, "")
	}

	root := &RootNode{}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "name":
			root.Name = val.Value
		case "start":
			root.Start = &DirectiveNode{
				Name:      directiveStart,
				Parameter: val.Value,
				Pos:       yamlPos(val),
			}
		case "rules":
			prods, err := parseYAMLRules(val)
			if err != nil {
				return nil, err
			}
			root.Productions = prods
		case "terminals":
			prods, err := parseYAMLTerminals(val)
			if err != nil {
				return nil, err
			}
			root.LexProductions = prods
		default:
			return nil, yamlError(key, synErrUnknownKey, key.Value)
		}
	}
	if len(root.Productions) == 0 {
		return nil, yamlError(top, synErrNoProduction, "")
	}

	return root, nil
}

func parseYAMLRules(n *yaml.Node) ([]*ProductionNode, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlError(n, synErrMappingExpected, "rules")
	}

	var prods []*ProductionNode
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		prod := &ProductionNode{
			LHS: key.Value,
			Pos: yamlPos(key),
		}
		switch val.Kind {
		case yaml.ScalarNode:
			alt, err := parseYAMLAlternative(val)
			if err != nil {
				return nil, err
			}
			prod.RHS = []*AlternativeNode{alt}
		case yaml.SequenceNode:
			if len(val.Content) == 0 {
				return nil, yamlError(val, synErrSequenceExpected, key.Value)
			}
			for _, a := range val.Content {
				alt, err := parseYAMLAlternative(a)
				if err != nil {
					return nil, err
				}
				prod.RHS = append(prod.RHS, alt)
			}
		default:
			return nil, yamlError(val, synErrSequenceExpected, key.Value)
		}
		prods = append(prods, prod)
	}
	return prods, nil
}

func parseYAMLAlternative(n *yaml.Node) (*AlternativeNode, error) {
	var names []string
	var positions []Position
	switch n.Kind {
	case yaml.ScalarNode:
		for _, f := range strings.Fields(n.Value) {
			names = append(names, f)
			positions = append(positions, yamlPos(n))
		}
	case yaml.SequenceNode:
		for _, e := range n.Content {
			if e.Kind != yaml.ScalarNode {
				return nil, yamlError(e, synErrAlternativeExpected, "")
			}
			names = append(names, e.Value)
			positions = append(positions, yamlPos(e))
		}
	default:
		return nil, yamlError(n, synErrAlternativeExpected, "")
	}

	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      yamlPos(n),
	}
	for i, name := range names {
		if name == symbol.NameEpsilon {
			if len(names) != 1 {
				return nil, yamlError(n, synErrEpsilonNotAlone, "")
			}
			return alt, nil
		}
		alt.Elements = append(alt.Elements, &ElementNode{
			ID:  name,
			Pos: positions[i],
		})
	}
	return alt, nil
}

func parseYAMLTerminals(n *yaml.Node) ([]*ProductionNode, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlError(n, synErrMappingExpected, "terminals")
	}

	var prods []*ProductionNode
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if val.Kind != yaml.ScalarNode || val.Value == "" {
			return nil, yamlError(val, synErrEmptyPattern, key.Value)
		}
		prods = append(prods, &ProductionNode{
			LHS: key.Value,
			RHS: []*AlternativeNode{
				{
					Elements: []*ElementNode{
						{
							Pattern: val.Value,
							Pos:     yamlPos(val),
						},
					},
					Pos: yamlPos(val),
				},
			},
			Pos: yamlPos(key),
		})
	}
	return prods, nil
}

func yamlPos(n *yaml.Node) Position {
	return newPosition(n.Line, n.Column)
}

func yamlError(n *yaml.Node, cause *SyntaxError, detail string) error {
	return verr.SpecErrors{
		&verr.SpecError{
			Cause:  cause,
			Detail: detail,
			Row:    n.Line,
			Col:    n.Column,
		},
	}
}
