package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

type dirHarness struct {
	t   *testing.T
	dir string
}

func newDir(t *testing.T) *dirHarness {
	t.Helper()
	return &dirHarness{t: t, dir: t.TempDir()}
}

func (d *dirHarness) write(rel, content string) string {
	d.t.Helper()
	path := filepath.Join(d.dir, rel)
	mustWriteFile(d.t, path, content)
	return path
}

// execute runs a fresh command tree with plain output and returns stdout,
// stderr and the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func mustWriteFile(t TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func assertContainsInOrder(t TB, s string, parts ...string) {
	t.Helper()
	pos := 0
	for _, p := range parts {
		i := strings.Index(s[pos:], p)
		if i < 0 {
			t.Fatalf("expected to find %q after pos=%d in:\n%s", p, pos, s)
		}
		pos += i + len(p)
	}
}

const schemaSwapPlan = `
target:
  name: main
  needs:
    - {arg: schema_swap, slot: swap_schema}
providers:
  - slot: session
    value: fake word
  - slot: db
    needs: [{arg: db, slot: session}]
    value: db1
  - slot: swap_schema
    needs: [{arg: db, slot: db}]
    value: "true"
`
