package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rpgo/housing-projection/pkg/money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var decimalType = reflect.TypeOf(decimal.Decimal{})

// checkAmounts walks a parsed YAML tree alongside the target type and rejects any
// non-numeric scalar bound for a decimal field, naming the field by its YAML path.
func checkAmounts(node *yaml.Node, t reflect.Type, path string) error {
	if node == nil {
		return nil
	}
	if node.Kind == yaml.DocumentNode {
		for _, c := range node.Content {
			if err := checkAmounts(c, t, path); err != nil {
				return err
			}
		}
		return nil
	}
	if node.Kind == yaml.AliasNode {
		return checkAmounts(node.Alias, t, path)
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t == decimalType:
		if node.Kind != yaml.ScalarNode {
			return &money.InvalidAmountError{Field: path, Value: fmt.Sprintf("<%s>", kindName(node.Kind))}
		}
		if node.Tag == "!!null" {
			return nil
		}
		_, err := money.Parse(path, node.Value)
		return err
	case t.Kind() == reflect.Struct:
		if node.Kind != yaml.MappingNode {
			return nil
		}
		fields := yamlFields(t)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			ft, ok := fields[key]
			if !ok {
				continue
			}
			if err := checkAmounts(node.Content[i+1], ft, join(path, key)); err != nil {
				return err
			}
		}
	case t.Kind() == reflect.Slice:
		if node.Kind != yaml.SequenceNode {
			return nil
		}
		for i, item := range node.Content {
			if err := checkAmounts(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// yamlFields maps YAML keys to field types, flattening inline structs
func yamlFields(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("yaml")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "inline") {
			for k, v := range yamlFields(f.Type) {
				out[k] = v
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		out[name] = f.Type
	}
	return out
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	default:
		return "node"
	}
}
