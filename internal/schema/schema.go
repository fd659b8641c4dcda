//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package schema generates JSON schemas for tool declarations by
// reflecting over Go types.
package schema

import (
	"reflect"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-agentchat/log"
	"trpc.group/trpc-go/trpc-agentchat/tool"
)

// Generate generates a JSON schema from a reflect.Type.
//
// Struct fields honor the `json` tag for naming and omitempty, and the
// `jsonschema` tag for "description=...", "enum=...", and "required".
// Recursive struct types are emitted once under $defs and referenced.
func Generate(t reflect.Type) *tool.Schema {
	g := &generator{
		visited:    make(map[reflect.Type]string),
		defs:       make(map[string]*tool.Schema),
		referenced: make(map[string]bool),
	}
	s := g.generate(t, true)

	// A recursive root references itself, so it must also appear under
	// $defs. Register a copy without Defs to keep the schema acyclic.
	rootType := t
	for rootType != nil && rootType.Kind() == reflect.Ptr {
		rootType = rootType.Elem()
	}
	if rootType != nil && rootType.Kind() == reflect.Struct {
		if name := defNameFor(rootType); g.referenced[name] {
			g.defs[name] = &tool.Schema{
				Type:       s.Type,
				Properties: s.Properties,
				Required:   s.Required,
			}
		}
	}
	if len(g.defs) > 0 {
		s.Defs = g.defs
	}
	return s
}

// generator tracks visited types so recursive structs become $defs
// references instead of infinite expansions.
type generator struct {
	visited    map[reflect.Type]string
	defs       map[string]*tool.Schema
	referenced map[string]bool
}

func (g *generator) generate(t reflect.Type, isRoot bool) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "null"}
	}
	switch t.Kind() {
	case reflect.Ptr:
		return g.generate(t.Elem(), isRoot)
	case reflect.Struct:
		return g.generateStruct(t, isRoot)
	case reflect.Slice, reflect.Array:
		return &tool.Schema{
			Type:  "array",
			Items: g.generate(t.Elem(), false),
		}
	case reflect.Map:
		return &tool.Schema{
			Type:                 "object",
			AdditionalProperties: g.generate(t.Elem(), false),
		}
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Interface:
		// Accept anything for interface{} fields.
		return &tool.Schema{}
	default:
		log.Warnf("schema: unsupported kind %s, treating as string", t.Kind())
		return &tool.Schema{Type: "string"}
	}
}

func (g *generator) generateStruct(t reflect.Type, isRoot bool) *tool.Schema {
	if defName, ok := g.visited[t]; ok {
		g.referenced[defName] = true
		return &tool.Schema{Ref: "#/$defs/" + defName}
	}
	defName := defNameFor(t)
	g.visited[t] = defName

	s := &tool.Schema{
		Type:       "object",
		Properties: make(map[string]*tool.Schema),
	}
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldSchema := g.generate(field.Type, false)
		requiredByTag := applySchemaTag(field, fieldSchema)

		if (field.Type.Kind() != reflect.Ptr && !omitEmpty) || requiredByTag {
			required = append(required, name)
		}
		s.Properties[name] = fieldSchema
	}
	if len(required) > 0 {
		s.Required = required
	}

	// Non-root structs are registered under $defs so repeated and
	// recursive uses share one definition.
	if !isRoot {
		g.defs[defName] = s
		return &tool.Schema{Ref: "#/$defs/" + defName}
	}
	return s
}

func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applySchemaTag applies the jsonschema struct tag to a field schema and
// reports whether the field was marked required by the tag. "required"
// is honored on every field; the remaining keywords are dropped on $ref
// schemas, which carry no keywords of their own.
func applySchemaTag(field reflect.StructField, s *tool.Schema) bool {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}
	requiredByTag := false
	for _, item := range strings.Split(tag, ",") {
		switch {
		case item == "required":
			requiredByTag = true
		case s.Ref != "":
		case strings.HasPrefix(item, "description="):
			s.Description = strings.TrimPrefix(item, "description=")
		case strings.HasPrefix(item, "enum="):
			raw := strings.TrimPrefix(item, "enum=")
			v, err := convertEnumValue(field.Type, raw)
			if err != nil {
				log.Errorf("schema: enum value %q for field %s: %v", raw, field.Name, err)
				continue
			}
			s.Enum = append(s.Enum, v)
		}
	}
	return requiredByTag
}

func convertEnumValue(t reflect.Type, raw string) (any, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}

func defNameFor(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}
