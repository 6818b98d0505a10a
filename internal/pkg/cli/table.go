package cli

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Kind classifies how an option renders on the command line.
type Kind int

const (
	// KindScalar options render as "flag value" or "flag=value".
	KindScalar Kind = iota
	// KindBool options render as the bare flag.
	KindBool
	// KindList options render their elements joined by ListSeparator.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "scalar"
	}
}

// ListSeparator joins the elements of list options into one value token.
const ListSeparator = ","

// AdvancedPrefix marks flags that render in the joined "flag=value" form
// unless cli_advanced says otherwise.
const AdvancedPrefix = "-X"

// Option describes one tagged option field.
type Option struct {
	Field       string
	Index       []int
	Type        reflect.Type
	Flag        string
	Advanced    bool
	Kind        Kind
	Description string
	Enum        []string
	// JSONPath is the field's location in the encoding/json form of the
	// arguments value. Nil when the field is hidden from JSON.
	JSONPath []string
}

// FreeArguments describes the positional argument field.
type FreeArguments struct {
	Field       string
	Index       []int
	Description string
	JSONPath    []string
}

// Table is the flattened option list of an arguments type. Options of a
// struct come before the options of the structs it embeds, so the most
// specific options are always rendered first.
type Table struct {
	Type    reflect.Type
	Options []Option
	Free    *FreeArguments
}

// Lookup returns the option registered for flag.
func (t *Table) Lookup(flag string) (Option, bool) {
	for _, o := range t.Options {
		if o.Flag == flag {
			return o, true
		}
	}
	return Option{}, false
}

var tables sync.Map // reflect.Type -> tableEntry

type tableEntry struct {
	table *Table
	err   error
}

// TableOf returns the option table for the dynamic type of v, which must be
// a struct or a pointer to one.
func TableOf(v any) (*Table, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &Error{Kind: ErrUnsupportedType, Type: t, Err: errNotStruct}
	}
	return TableFor(t)
}

// TableFor returns the option table for struct type t. Tables are built once
// per type and shared.
func TableFor(t reflect.Type) (*Table, error) {
	if e, ok := tables.Load(t); ok {
		entry := e.(tableEntry)
		return entry.table, entry.err
	}
	table, err := buildTable(t)
	e, _ := tables.LoadOrStore(t, tableEntry{table: table, err: err})
	entry := e.(tableEntry)
	return entry.table, entry.err
}

type tableBuilder struct {
	root     reflect.Type
	table    *Table
	problems []problem
	flags    map[string]string // flag -> field
	visiting map[reflect.Type]bool
}

type problem struct {
	kind  ErrorKind
	field string
	msg   string
}

func (b *tableBuilder) report(kind ErrorKind, field, format string, args ...any) {
	b.problems = append(b.problems, problem{kind: kind, field: field, msg: fmt.Sprintf(format, args...)})
}

func buildTable(t reflect.Type) (*Table, error) {
	if t.Kind() != reflect.Struct {
		return nil, &Error{Kind: ErrUnsupportedType, Type: t, Err: errNotStruct}
	}
	b := &tableBuilder{
		root:     t,
		table:    &Table{Type: t},
		flags:    map[string]string{},
		visiting: map[reflect.Type]bool{},
	}
	b.walk(t, nil, []string{}, "")
	if len(b.problems) > 0 {
		return nil, b.err()
	}
	return b.table, nil
}

// walk visits the tagged fields of t. Own fields are collected first;
// embedded structs are descended into afterwards, in declaration order.
// hiddenBy names the unexported embedded field t was reached through, if any.
func (b *tableBuilder) walk(t reflect.Type, index []int, jsonPath []string, hiddenBy string) {
	if b.visiting[t] {
		return
	}
	b.visiting[t] = true
	defer delete(b.visiting, t)

	type ancestor struct {
		sf       reflect.StructField
		typ      reflect.Type
		index    []int
		jsonPath []string
		hiddenBy string
	}
	var ancestors []ancestor

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)

		_, hasEmbed := sf.Tag.Lookup("cli_embed")
		if sf.Anonymous || hasEmbed {
			st := sf.Type
			if st.Kind() == reflect.Pointer {
				st = st.Elem()
			}
			if st.Kind() == reflect.Struct && !implementsTextMarshaler(st) {
				a := ancestor{sf: sf, typ: st, index: idx, hiddenBy: hiddenBy}
				a.jsonPath = embeddedJSONPath(sf, jsonPath)
				if !sf.IsExported() && a.hiddenBy == "" {
					a.hiddenBy = sf.Name
				}
				ancestors = append(ancestors, a)
				continue
			}
		}

		flag, hasFlag := sf.Tag.Lookup("cli_flag")
		argName, hasArg := sf.Tag.Lookup("cli_argument")
		if !hasFlag && !hasArg {
			continue
		}
		name := fieldPath(index, sf.Name, b.root)

		if hiddenBy != "" {
			b.report(ErrInvalidTag, name, "field %q is only reachable through unexported embedded field %q", sf.Name, hiddenBy)
			continue
		}
		if !sf.IsExported() {
			b.report(ErrInvalidTag, name, "field %q is tagged but unexported", sf.Name)
			continue
		}
		if hasFlag && hasArg {
			b.report(ErrInvalidTag, name, "field %q cannot have both cli_flag and cli_argument", sf.Name)
			continue
		}

		if hasArg {
			b.addFreeArguments(sf, name, argName, idx, fieldJSONPath(sf, jsonPath))
			continue
		}
		b.addOption(sf, name, flag, idx, fieldJSONPath(sf, jsonPath))
	}

	for _, a := range ancestors {
		b.walk(a.typ, a.index, a.jsonPath, a.hiddenBy)
	}
}

func (b *tableBuilder) addFreeArguments(sf reflect.StructField, name, argName string, idx []int, jsonPath []string) {
	if strings.TrimSpace(argName) == "" {
		b.report(ErrInvalidTag, name, "field %q has empty cli_argument", sf.Name)
		return
	}
	if b.table.Free != nil {
		b.report(ErrInvalidTag, name, "field %q is a second cli_argument field (first is %q)", sf.Name, b.table.Free.Field)
		return
	}
	if sf.Type.Kind() != reflect.Slice || sf.Type.Elem().Kind() != reflect.String {
		b.report(ErrUnsupportedType, name, "cli_argument field %q must be a string slice, got %s", sf.Name, sf.Type)
		return
	}
	b.table.Free = &FreeArguments{
		Field:       sf.Name,
		Index:       idx,
		Description: sf.Tag.Get("cli_desc"),
		JSONPath:    jsonPath,
	}
}

func (b *tableBuilder) addOption(sf reflect.StructField, name, flag string, idx []int, jsonPath []string) {
	opt := Option{
		Field:       sf.Name,
		Index:       idx,
		Type:        sf.Type,
		Flag:        flag,
		Description: sf.Tag.Get("cli_desc"),
		JSONPath:    jsonPath,
	}

	ok := true
	if strings.TrimSpace(flag) == "" {
		b.report(ErrInvalidTag, name, "field %q has empty cli_flag", sf.Name)
		ok = false
	} else if !looksLikeFlag(flag) {
		b.report(ErrInvalidTag, name, "field %q cli_flag=%q must start with '-'", sf.Name, flag)
		ok = false
	} else if prev, dup := b.flags[flag]; dup {
		b.report(ErrInvalidTag, name, "field %q repeats flag %q of field %q", sf.Name, flag, prev)
		ok = false
	} else {
		b.flags[flag] = sf.Name
	}

	kind, err := kindOf(sf.Type)
	if err != nil {
		b.report(ErrUnsupportedType, name, "field %q (flag %q): %v", sf.Name, flag, err)
		ok = false
	}
	opt.Kind = kind

	opt.Advanced = isAdvancedFlag(flag)
	if spec, has := sf.Tag.Lookup("cli_advanced"); has {
		adv, err := parseBoolTag(spec)
		if err != nil {
			b.report(ErrInvalidTag, name, "field %q has invalid cli_advanced %q", sf.Name, spec)
			ok = false
		}
		opt.Advanced = adv
	}

	if spec, has := sf.Tag.Lookup("cli_enum"); has {
		enum, valid := parseEnum(spec)
		if !valid {
			b.report(ErrInvalidTag, name, `field %q has invalid cli_enum %q (must be pipe-delimited like "a|b|c")`, sf.Name, spec)
			ok = false
		}
		if !isStringish(sf.Type) {
			b.report(ErrInvalidTag, name, "field %q has cli_enum but is not string or *string", sf.Name)
			ok = false
		}
		opt.Enum = enum
	}

	if ok {
		b.table.Options = append(b.table.Options, opt)
	}
}

func kindOf(t reflect.Type) (Kind, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if implementsTextMarshaler(t) {
		return KindScalar, nil
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBool, nil
	case reflect.Slice:
		if !isScalarType(t.Elem()) {
			return 0, fmt.Errorf("unsupported list element type %s", t.Elem())
		}
		return KindList, nil
	}
	if isScalarType(t) {
		return KindScalar, nil
	}
	return 0, fmt.Errorf("unsupported field kind %s", t.Kind())
}

func isScalarType(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if implementsTextMarshaler(t) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func implementsTextMarshaler(t reflect.Type) bool {
	return t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
}

// isAdvancedFlag reports whether flag uses the joined "flag=value" form by
// default: "-Xfoo" does, a bare "-X" does not.
func isAdvancedFlag(flag string) bool {
	return strings.HasPrefix(flag, AdvancedPrefix) && len(flag) > len(AdvancedPrefix)
}

func fieldPath(index []int, name string, root reflect.Type) string {
	if len(index) == 0 {
		return name
	}
	var parts []string
	t := root
	for _, i := range index {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		sf := t.Field(i)
		parts = append(parts, sf.Name)
		t = sf.Type
	}
	return strings.Join(append(parts, name), ".")
}

// fieldJSONPath mirrors encoding/json naming for a regular field.
func fieldJSONPath(sf reflect.StructField, parent []string) []string {
	if parent == nil {
		return nil
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return nil
	case "":
		name = sf.Name
	}
	return append(append([]string{}, parent...), name)
}

// embeddedJSONPath mirrors encoding/json: untagged anonymous structs are
// flattened into their parent, everything else nests under its name.
func embeddedJSONPath(sf reflect.StructField, parent []string) []string {
	if parent == nil {
		return nil
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "-" {
		return nil
	}
	if sf.Anonymous && name == "" {
		return parent
	}
	return fieldJSONPath(sf, parent)
}
