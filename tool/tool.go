//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

// Package tool provides tool interfaces and declarations for the agent system.
package tool

import "context"

// Tool is the interface that all tools must implement.
type Tool interface {
	// Declaration returns the metadata describing the tool: its name,
	// human readable description and input/output schemas.
	Declaration() *Declaration
}

// CallableTool is a tool that can be invoked with JSON-encoded arguments.
type CallableTool interface {
	Tool

	// Call executes the tool with the provided JSON arguments and returns
	// the result. The result must be JSON-serializable.
	Call(ctx context.Context, jsonArgs []byte) (any, error)
}

// Declaration describes a tool to the model that selects it.
type Declaration struct {
	// Name is the tool name presented to the model.
	// Must match ^[a-zA-Z0-9_-]+$ for maximum API compatibility.
	Name string `json:"name"`
	// Description tells the model what the tool does and when to use it.
	Description string `json:"description"`
	// InputSchema is the JSON schema of the tool arguments.
	InputSchema *Schema `json:"input_schema,omitempty"`
	// OutputSchema is the JSON schema of the tool result.
	OutputSchema *Schema `json:"output_schema,omitempty"`
}

// Schema is the subset of JSON Schema used for tool declarations.
type Schema struct {
	// Type is the JSON type: "object", "array", "string", "number",
	// "integer", "boolean" or "null".
	Type string `json:"type,omitempty"`
	// Description documents the value.
	Description string `json:"description,omitempty"`
	// Properties holds the schemas of an object's fields.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Required lists the object fields that must be present.
	Required []string `json:"required,omitempty"`
	// Items is the schema of an array's elements.
	Items *Schema `json:"items,omitempty"`
	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`
	// Ref references a schema under Defs, e.g. "#/$defs/Node".
	Ref string `json:"$ref,omitempty"`
	// Defs holds reusable schema definitions for recursive types.
	Defs map[string]*Schema `json:"$defs,omitempty"`
	// AdditionalProperties is the schema of a map's values.
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
}
