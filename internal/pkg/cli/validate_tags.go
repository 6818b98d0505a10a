package cli

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var errNotStruct = errors.New("arguments must be a struct or a pointer to a struct")

// ValidateTags checks the cli_* tags of the arguments type of v and reports
// every problem found, not just the first one.
func ValidateTags(v any) error {
	if v == nil {
		return errors.New("ValidateTags: nil arguments")
	}
	_, err := TableOf(v)
	return err
}

func (b *tableBuilder) err() error {
	msgs := make([]string, 0, len(b.problems))
	for _, p := range b.problems {
		msgs = append(msgs, fmt.Sprintf("%s: %s", b.root, p.msg))
	}
	first := b.problems[0]
	return &Error{
		Kind:  first.kind,
		Type:  b.root,
		Field: first.field,
		Err:   errors.New("ValidateTags:\n  - " + strings.Join(msgs, "\n  - ")),
	}
}

// ----------------- helpers (tags-only) -----------------

func looksLikeFlag(s string) bool {
	return strings.HasPrefix(s, "-")
}

func isStringish(t reflect.Type) bool {
	if t.Kind() == reflect.String {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.String
}

var enumSpecRe = regexp.MustCompile(`^[^|]+(\|[^|]+)+$`)

func parseEnum(spec string) ([]string, bool) {
	if !enumSpecRe.MatchString(spec) {
		return nil, false
	}
	var values []string
	for _, v := range strings.Split(spec, "|") {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, false
		}
		values = append(values, v)
	}
	if firstDuplicate(values) != "" {
		return nil, false
	}
	return values, true
}

// parseBoolTag treats a bare tag (cli_advanced:"") as true.
func parseBoolTag(spec string) (bool, error) {
	if strings.TrimSpace(spec) == "" {
		return true, nil
	}
	return strconv.ParseBool(spec)
}

func firstDuplicate(ss []string) string {
	seen := map[string]struct{}{}
	for _, s := range ss {
		if _, ok := seen[s]; ok {
			return s
		}
		seen[s] = struct{}{}
	}
	return ""
}
