package cli

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type advancedMarkerArgs struct {
	ExtraHelp bool   `cli_flag:"-X"`
	Foo       string `cli_flag:"-Xfoo"`
	Raw       string `cli_flag:"-Xraw" cli_advanced:"false"`
	Opt       string `cli_flag:"-opt" cli_advanced:"true"`
	Bare      string `cli_flag:"--bare" cli_advanced:""`
}

type JVMGroup struct {
	Target string `cli_flag:"-jvm-target" json:"target"`
}

type jsonPathArgs struct {
	ToolArgs
	JVM     JVMGroup `cli_embed:"" json:"jvm"`
	Name    string   `cli_flag:"-name" json:"name,omitempty"`
	Plain   string   `cli_flag:"-plain"`
	Private string   `cli_flag:"-private" json:"-"`
}

func flagsOf(t *testing.T, table *Table) []string {
	t.Helper()
	var flags []string
	for _, o := range table.Options {
		flags = append(flags, o.Flag)
	}
	return flags
}

func TestTableOf_Order(t *testing.T) {
	t.Parallel()

	table, err := TableOf(JVMArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	want := []string{
		"-d", "-classpath", "-jvm-target", "-inline",
		"-Xplugin", "-language-version", "-Xcoroutines",
		"-help", "-verbose",
	}
	if diff := cmp.Diff(want, flagsOf(t, table)); diff != "" {
		t.Fatalf("option order mismatch (-want +got):\n%s", diff)
	}
	if table.Free == nil || table.Free.Field != "Free" {
		t.Fatalf("free arguments not found: %#v", table.Free)
	}
	if diff := cmp.Diff([]int{0, 0, 0}, table.Free.Index); diff != "" {
		t.Fatalf("free arguments index mismatch (-want +got):\n%s", diff)
	}
}

func TestTableOf_PointerAndValueShareTable(t *testing.T) {
	t.Parallel()

	a, err := TableOf(JVMArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	b, err := TableOf(&JVMArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	if a != b {
		t.Fatalf("expected the cached table to be shared")
	}
}

func TestTableOf_Kinds(t *testing.T) {
	t.Parallel()

	table, err := TableOf(numericArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	want := map[string]Kind{
		"-j":      KindScalar,
		"-limit":  KindScalar,
		"-Xratio": KindScalar,
		"-level":  KindScalar,
		"-ports":  KindList,
		"-debug":  KindBool,
	}
	for flag, kind := range want {
		o, ok := table.Lookup(flag)
		if !ok {
			t.Fatalf("flag %s missing", flag)
		}
		if o.Kind != kind {
			t.Errorf("flag %s: kind %s, want %s", flag, o.Kind, kind)
		}
	}
	if _, ok := table.Lookup("-nope"); ok {
		t.Fatalf("unexpected lookup hit for -nope")
	}
}

func TestTableOf_AdvancedMarker(t *testing.T) {
	t.Parallel()

	table, err := TableOf(advancedMarkerArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	want := map[string]bool{
		"-X":     false,
		"-Xfoo":  true,
		"-Xraw":  false,
		"-opt":   true,
		"--bare": true,
	}
	for flag, adv := range want {
		o, _ := table.Lookup(flag)
		if o.Advanced != adv {
			t.Errorf("flag %s: advanced=%v, want %v", flag, o.Advanced, adv)
		}
	}

	argv := mustConvert(t, advancedMarkerArgs{ExtraHelp: true, Foo: "a", Raw: "b", Opt: "c", Bare: "d"})
	eq(t, argv, []string{"-X", "-Xfoo=a", "-Xraw", "b", "-opt=c", "--bare=d"})
}

func TestTableOf_JSONPath(t *testing.T) {
	t.Parallel()

	table, err := TableOf(jsonPathArgs{})
	if err != nil {
		t.Fatalf("TableOf: %v", err)
	}
	want := map[string][]string{
		"-name":       {"name"},
		"-plain":      {"Plain"},
		"-private":    nil,
		"-jvm-target": {"jvm", "target"},
		"-help":       {"Help"},
	}
	for flag, path := range want {
		o, ok := table.Lookup(flag)
		if !ok {
			t.Fatalf("flag %s missing", flag)
		}
		if diff := cmp.Diff(path, o.JSONPath); diff != "" {
			t.Errorf("flag %s: JSON path mismatch (-want +got):\n%s", flag, diff)
		}
	}
	if diff := cmp.Diff([]string{"Free"}, table.Free.JSONPath); diff != "" {
		t.Errorf("free arguments JSON path mismatch (-want +got):\n%s", diff)
	}
}

func TestTableOf_NamedEmbedRendersAfterOwnFields(t *testing.T) {
	t.Parallel()

	args := jsonPathArgs{
		JVM:  JVMGroup{Target: "1.8"},
		Name: "n",
	}
	args.Free = []string{"m.kt"}
	eq(t, mustConvert(t, args), []string{"-name", "n", "-jvm-target", "1.8", "m.kt"})
}

func TestTableOf_NotStruct(t *testing.T) {
	t.Parallel()

	if _, err := TableOf("nope"); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if _, err := TableOf(nil); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if _, err := TableFor(reflect.TypeOf((*[]string)(nil)).Elem()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	for kind, want := range map[Kind]string{KindScalar: "scalar", KindBool: "bool", KindList: "list"} {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
