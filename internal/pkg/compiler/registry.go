package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"github.com/TheGrizzlyDev/compilerargs/internal/pkg/cli"
	"github.com/containerd/errdefs"
)

// Arguments is implemented by every registered arguments type.
type Arguments interface {
	FreeArguments() []string
}

var (
	_ Arguments = &JVMCompilerArguments{}
	_ Arguments = &JSCompilerArguments{}
	_ Arguments = &MetadataCompilerArguments{}
)

const (
	ToolJVM      = "jvm"
	ToolJS       = "js"
	ToolMetadata = "metadata"
)

var tools = map[string]reflect.Type{
	ToolJVM:      reflect.TypeOf((*JVMCompilerArguments)(nil)).Elem(),
	ToolJS:       reflect.TypeOf((*JSCompilerArguments)(nil)).Elem(),
	ToolMetadata: reflect.TypeOf((*MetadataCompilerArguments)(nil)).Elem(),
}

// Tools returns the registered tool names, sorted.
func Tools() []string {
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns a pointer to a defaulted arguments value for tool.
func New(tool string) (Arguments, error) {
	t, ok := tools[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q (known: %v): %w", tool, Tools(), errdefs.ErrNotFound)
	}
	v, err := cli.NewDefault(t)
	if err != nil {
		return nil, err
	}
	return v.Addr().Interface().(Arguments), nil
}

// Decode builds the arguments for tool from a JSON document. Properties
// missing from the document keep their defaults. An empty document yields
// the defaults.
func Decode(tool string, doc []byte) (Arguments, error) {
	args, err := New(tool)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(doc)) == 0 {
		return args, nil
	}
	if err := cli.ValidateDocument(args, doc); err != nil {
		return nil, fmt.Errorf("%s arguments: %w: %w", tool, errdefs.ErrInvalidArgument, err)
	}
	if err := json.Unmarshal(doc, args); err != nil {
		return nil, fmt.Errorf("%s arguments: %w", tool, err)
	}
	return args, nil
}
