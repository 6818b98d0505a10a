package cli

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Defaulter is implemented by arguments types whose defaults are not the
// zero value. SetDefaults is called on a freshly allocated value.
type Defaulter interface {
	SetDefaults() error
}

// NewDefault allocates a value of struct type t and applies its defaults.
// The returned value is addressable.
func NewDefault(t reflect.Type) (v reflect.Value, err error) {
	if t == nil || t.Kind() != reflect.Struct {
		return reflect.Value{}, &Error{Kind: ErrConstruction, Type: t, Err: errNotStruct}
	}
	p := reflect.New(t)
	d, ok := p.Interface().(Defaulter)
	if !ok {
		return p.Elem(), nil
	}
	defer func() {
		if r := recover(); r != nil {
			v = reflect.Value{}
			err = &Error{Kind: ErrConstruction, Type: t, Err: fmt.Errorf("SetDefaults panicked: %v", r)}
		}
	}()
	if err := d.SetDefaults(); err != nil {
		return reflect.Value{}, &Error{Kind: ErrConstruction, Type: t, Err: err}
	}
	return p.Elem(), nil
}

// ConvertToCmdline renders args, a tagged struct or a pointer to one, as the
// argv tokens that reproduce it: every option whose value differs from the
// type's default, followed by the free arguments. Tokens are not quoted.
func ConvertToCmdline(args any) ([]string, error) {
	v := reflect.ValueOf(args)
	if !v.IsValid() {
		return nil, &Error{Kind: ErrConstruction, Err: errors.New("nil arguments")}
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, &Error{Kind: ErrConstruction, Type: v.Type(), Err: errors.New("nil arguments")}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, &Error{Kind: ErrConstruction, Type: v.Type(), Err: errNotStruct}
	}

	table, err := TableFor(v.Type())
	if err != nil {
		return nil, err
	}
	def, err := NewDefault(v.Type())
	if err != nil {
		return nil, err
	}

	var argv []string
	for i := range table.Options {
		opt := &table.Options[i]
		val, ok := fieldByIndex(v, opt.Index)
		if !ok {
			continue
		}
		dv, ok := fieldByIndex(def, opt.Index)
		if !ok {
			dv = reflect.Zero(opt.Type)
		}
		if _, err := emitOption(&argv, opt, val, dv); err != nil {
			return nil, &Error{Kind: ErrUnsupportedType, Type: v.Type(), Field: opt.Field, Err: err}
		}
	}

	if table.Free != nil {
		if fv, ok := fieldByIndex(v, table.Free.Index); ok {
			for i := 0; i < fv.Len(); i++ {
				argv = append(argv, fv.Index(i).String())
			}
		}
	}
	return argv, nil
}

// emitOption appends the flag (and maybe its value) to argv if the field
// differs from its default. Returns whether anything was appended.
func emitOption(argv *[]string, opt *Option, v, def reflect.Value) (bool, error) {
	if isAbsent(v) {
		return false, nil
	}
	if reflect.DeepEqual(v.Interface(), def.Interface()) {
		return false, nil
	}
	v = indirect(v)

	var value string
	switch opt.Kind {
	case KindBool:
		// The flag alone encodes the change, whichever way it went.
		*argv = append(*argv, opt.Flag)
		return true, nil

	case KindList:
		l := v.Len()
		if l == 0 {
			return false, nil
		}
		parts := make([]string, l)
		for i := 0; i < l; i++ {
			s, err := formatScalar(v.Index(i))
			if err != nil {
				return false, fmt.Errorf("flag %q element %d: %w", opt.Flag, i, err)
			}
			parts[i] = s
		}
		value = strings.Join(parts, ListSeparator)

	default:
		s, err := formatScalar(v)
		if err != nil {
			return false, fmt.Errorf("flag %q: %w", opt.Flag, err)
		}
		value = s
	}

	if opt.Advanced {
		*argv = append(*argv, opt.Flag+"="+value)
	} else {
		*argv = append(*argv, opt.Flag, value)
	}
	return true, nil
}

func formatScalar(v reflect.Value) (string, error) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}

	if m, ok := textMarshaler(v); ok {
		b, err := m.MarshalText()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value kind %s", v.Kind())
}

func textMarshaler(v reflect.Value) (encoding.TextMarshaler, bool) {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		return m, true
	}
	if !reflect.PointerTo(v.Type()).Implements(textMarshalerType) {
		return nil, false
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(encoding.TextMarshaler), true
}

func isAbsent(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	return v
}

// fieldByIndex is reflect.Value.FieldByIndex that reports a nil embedded
// pointer on the way instead of panicking.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}
