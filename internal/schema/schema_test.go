//
// Tencent is pleased to support the open source community by making trpc-agentchat available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agentchat is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type weatherArgs struct {
	City  string `json:"city" jsonschema:"description=The city to look up"`
	Units string `json:"units,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
	Days  int    `json:"days,omitempty"`
}

func TestGenerateStruct(t *testing.T) {
	s := Generate(reflect.TypeOf(weatherArgs{}))

	require.Equal(t, "object", s.Type)
	require.Len(t, s.Properties, 3)

	city := s.Properties["city"]
	require.NotNil(t, city)
	require.Equal(t, "string", city.Type)
	require.Equal(t, "The city to look up", city.Description)

	units := s.Properties["units"]
	require.NotNil(t, units)
	require.Equal(t, []any{"celsius", "fahrenheit"}, units.Enum)

	require.Equal(t, "integer", s.Properties["days"].Type)

	// omitempty fields are optional.
	require.Equal(t, []string{"city"}, s.Required)
}

func TestGenerateScalars(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"", "string"},
		{0, "integer"},
		{0.0, "number"},
		{false, "boolean"},
	}
	for _, tt := range tests {
		s := Generate(reflect.TypeOf(tt.value))
		require.Equal(t, tt.want, s.Type)
	}
}

func TestGenerateSliceAndMap(t *testing.T) {
	s := Generate(reflect.TypeOf([]string{}))
	require.Equal(t, "array", s.Type)
	require.Equal(t, "string", s.Items.Type)

	m := Generate(reflect.TypeOf(map[string]int{}))
	require.Equal(t, "object", m.Type)
	require.Equal(t, "integer", m.AdditionalProperties.Type)
}

type treeNode struct {
	Value    string      `json:"value"`
	Children []*treeNode `json:"children,omitempty"`
}

func TestGenerateRecursive(t *testing.T) {
	s := Generate(reflect.TypeOf(treeNode{}))

	require.Equal(t, "object", s.Type)
	children := s.Properties["children"]
	require.NotNil(t, children)
	require.Equal(t, "array", children.Type)
	require.Equal(t, "#/$defs/treenode", children.Items.Ref)
	require.Contains(t, s.Defs, "treenode")
}

type retryPolicy struct {
	Attempts int `json:"attempts"`
}

type jobArgs struct {
	Name  string       `json:"name"`
	Retry *retryPolicy `json:"retry,omitempty" jsonschema:"required"`
}

func TestGenerateRequiredOnRefField(t *testing.T) {
	s := Generate(reflect.TypeOf(jobArgs{}))

	retry := s.Properties["retry"]
	require.NotNil(t, retry)
	require.Equal(t, "#/$defs/retrypolicy", retry.Ref)
	require.ElementsMatch(t, []string{"name", "retry"}, s.Required)
}

func TestGenerateSkipsUnexportedAndDashed(t *testing.T) {
	type args struct {
		Visible string `json:"visible"`
		Hidden  string `json:"-"`
		secret  string
	}
	_ = args{secret: ""}

	s := Generate(reflect.TypeOf(args{}))
	require.Len(t, s.Properties, 1)
	require.Contains(t, s.Properties, "visible")
}
