package submission

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dispenser/pkg/dispenser"
)

const (
	keyMachine   = "machine"
	keyOutlets   = "outlets"
	keyCount     = "count_n"
	keyTotals    = "total_items_quantity"
	keyBeverages = "beverages"
)

// Load reads and parses a submission file.
func Load(path string) (dispenser.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dispenser.Submission{}, fmt.Errorf("read submission: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON or YAML submission. Beverage and ingredient order is preserved.
func Parse(data []byte) (dispenser.Submission, error) {
	root, err := decodeNode(data)
	if err != nil {
		return dispenser.Submission{}, err
	}
	var doc any
	if err := root.Decode(&doc); err != nil {
		return dispenser.Submission{}, &ValidationError{Issues: []Issue{{Field: "document", Message: err.Error()}}}
	}
	if err := validateShape(doc); err != nil {
		return dispenser.Submission{}, &ValidationError{Issues: []Issue{{Field: "document", Message: err.Error()}}}
	}
	return build(root)
}

// decodeNode parses exactly one YAML document.
func decodeNode(data []byte) (*yaml.Node, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse submission: empty document")
		}
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse submission: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("parse submission: unexpected document")
	}
	return doc.Content[0], nil
}

// build walks the schema-checked node tree and applies the semantic checks.
func build(root *yaml.Node) (dispenser.Submission, error) {
	var sub dispenser.Submission
	issues := &issueCollector{}
	machine := lookup(root, keyMachine)
	if machine == nil {
		issues.add(keyMachine, "is required")
		return sub, issues.result()
	}

	field := keyMachine + "." + keyOutlets + "." + keyCount
	if count := lookup(lookup(machine, keyOutlets), keyCount); count != nil {
		if n, ok := parseInt(count, field, issues); ok {
			if n < 1 {
				issues.add(field, "must be at least 1")
			} else {
				sub.Outlets = int(n)
			}
		}
	}

	sub.Totals = dispenser.Stock{}
	totalsField := keyMachine + "." + keyTotals
	eachPair(lookup(machine, keyTotals), totalsField, issues, func(name string, value *yaml.Node) {
		field := totalsField + "." + name
		if n, ok := parseInt(value, field, issues); ok {
			if n < 0 {
				issues.add(field, "must not be negative")
				return
			}
			sub.Totals[dispenser.Resource(name)] = dispenser.Quantity(n)
		}
	})

	bevField := keyMachine + "." + keyBeverages
	eachPair(lookup(machine, keyBeverages), bevField, issues, func(name string, value *yaml.Node) {
		sub.Orders = append(sub.Orders, buildOrder(name, value, bevField+"."+name, issues))
	})

	if err := issues.result(); err != nil {
		return dispenser.Submission{}, err
	}
	return sub, nil
}

func buildOrder(name string, node *yaml.Node, field string, issues *issueCollector) dispenser.Order {
	order := dispenser.Order{Name: name}
	eachPair(node, field, issues, func(ingredient string, value *yaml.Node) {
		f := field + "." + ingredient
		n, ok := parseInt(value, f, issues)
		if !ok {
			return
		}
		if n < 1 {
			issues.add(f, "must be at least 1")
			return
		}
		order.Requirements = append(order.Requirements, dispenser.Requirement{
			Resource: dispenser.Resource(ingredient),
			Quantity: dispenser.Quantity(n),
		})
	})
	if len(order.Requirements) == 0 && len(node.Content) == 0 {
		issues.add(field, "must require at least one ingredient")
	}
	return order
}

// lookup returns the value for key in a mapping node.
func lookup(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// eachPair visits a mapping in document order, reporting duplicate keys.
func eachPair(node *yaml.Node, field string, issues *issueCollector, fn func(key string, value *yaml.Node)) {
	if node == nil {
		return
	}
	if node.Kind != yaml.MappingNode {
		issues.add(field, "must be a mapping")
		return
	}
	seen := make(map[string]struct{}, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if _, ok := seen[key]; ok {
			issues.addf(field, "duplicate key %q", key)
			continue
		}
		seen[key] = struct{}{}
		fn(key, node.Content[i+1])
	}
}

func parseInt(node *yaml.Node, field string, issues *issueCollector) (int64, bool) {
	var n int64
	if node.Kind != yaml.ScalarNode || node.Decode(&n) != nil {
		issues.add(field, "must be an integer")
		return 0, false
	}
	return n, true
}
