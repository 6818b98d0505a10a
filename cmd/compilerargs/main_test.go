package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

const jvmDoc = `{"destination":"out","jvmTarget":"1.8","pluginClasspaths":["a.jar"],"freeArgs":["src/Main.kt"]}`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestRender_Stdin(t *testing.T) {
	out, _, err := run(t, jvmDoc, "render", "jvm")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "-d\nout\n-jvm-target\n1.8\n-Xplugin=a.jar\nsrc/Main.kt\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_File(t *testing.T) {
	path := writeFile(t, "args.json", `{"outputFile":"app.js","moduleKind":"umd"}`)
	out, _, err := run(t, "", "render", "js", path, "--format", "json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var argv []string
	if err := json.Unmarshal([]byte(out), &argv); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if diff := cmp.Diff([]string{"-output", "app.js", "-module-kind", "umd"}, argv); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_EmptyJSON(t *testing.T) {
	out, _, err := run(t, "", "render", "metadata", "-", "--format=json")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "[]\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRender_NUL(t *testing.T) {
	out, _, err := run(t, `{"destination":"d","freeArgs":["a b.kt"]}`, "render", "metadata", "--format", "nul")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "-d\x00d\x00a b.kt\x00" {
		t.Fatalf("output = %q", out)
	}
}

func TestRender_OCIProcess(t *testing.T) {
	out, _, err := run(t, jvmDoc, "render", "jvm",
		"--format", "oci-process",
		"--executable", "/usr/bin/kotlinc-jvm",
		"--cwd", "/work",
		"--user", "1000:1000",
		"--env", "A=1,2",
		"--env", "B=3",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var p specs.Process
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	want := specs.Process{
		Cwd:  "/work",
		Env:  []string{"A=1,2", "B=3"},
		User: specs.User{UID: 1000, GID: 1000},
		Args: []string{"/usr/bin/kotlinc-jvm", "-d", "out", "-jvm-target", "1.8", "-Xplugin=a.jar", "src/Main.kt"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Fatalf("process mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_ConfigFile(t *testing.T) {
	config := writeFile(t, "compilerargs.yaml", "format: json\nlog-level: debug\n")
	out, stderr, err := run(t, `{"help":true}`, "--config", config, "render", "jvm")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "[\"-help\"]\n" {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(stderr, "rendered arguments") {
		t.Errorf("expected debug log on stderr, got %q", stderr)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{name: "unknown tool", args: []string{"render", "native"}, code: 2},
		{name: "unknown format", stdin: "{}", args: []string{"render", "jvm", "--format", "xml"}, code: 2},
		{name: "invalid document", stdin: `{"jvmTarget":"11"}`, args: []string{"render", "jvm"}, code: 2},
		{name: "missing executable", stdin: "{}", args: []string{"render", "jvm", "--format", "oci-process"}, code: 2},
		{name: "missing file", args: []string{"render", "jvm", filepath.Join(os.TempDir(), "does-not-exist.json")}, code: 1},
		{name: "bad log level", args: []string{"--log-level", "loud", "version"}, code: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.stdin, tt.args...)
			if err == nil {
				t.Fatalf("expected error, got nil")
			}
			if got := exitCode(err); got != tt.code {
				t.Fatalf("exit code = %d, want %d (%v)", got, tt.code, err)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	out, _, err := run(t, "", "schema", "js")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	props := schema["properties"].(map[string]any)
	for _, name := range []string{"outputFile", "moduleKind", "coroutinesState", "freeArgs"} {
		if _, ok := props[name]; !ok {
			t.Errorf("schema lacks %s", name)
		}
	}
}

func TestOptions(t *testing.T) {
	out, _, err := run(t, "", "options", "metadata")
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "FLAG") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if fields := strings.Fields(lines[1]); fields[0] != "-d" || fields[1] != "scalar" || fields[2] != "flag" || fields[3] != "value" {
		t.Errorf("first option line = %q", lines[1])
	}
	var found bool
	for _, l := range lines {
		if f := strings.Fields(l); len(f) > 2 && f[0] == "-Xcoroutines" {
			found = f[2] == "flag=value"
		}
	}
	if !found {
		t.Errorf("-Xcoroutines not listed as flag=value:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "compilerargs dev") {
		t.Fatalf("output = %q", out)
	}
}
