package cmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/litebase/pagedb/internal/test"
	"github.com/litebase/pagedb/pkg/cli/cmd"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}

	root := cmd.NewRootCmd()
	root.SetOut(output)
	root.SetErr(output)
	root.SetArgs(args)

	err := root.Execute()

	return output.String(), err
}

func setupLocalStore(t *testing.T) {
	t.Setenv("PAGEDB_STORAGE_DRIVER", "local")
	test.NewConfig(t)
}

func TestRootCmd(t *testing.T) {
	output, err := run(t)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "pagedb CLI - v") {
		t.Errorf("expected output to contain 'pagedb CLI - v', got %q", output)
	}

	for _, command := range []string{"exec", "query", "pages"} {
		if !strings.Contains(output, command) {
			t.Errorf("expected output to contain %q", command)
		}
	}
}

func TestExecAndQueryCmd(t *testing.T) {
	setupLocalStore(t)

	output, err := run(t, "exec", "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "OK") {
		t.Errorf("expected output to contain 'OK', got %q", output)
	}

	_, err = run(t, "exec", "INSERT INTO users (name) VALUES (?), (?)", `["ada", "bob"]`)

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output, err = run(t, "query", "SELECT id, name FROM users ORDER BY id", "--json")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	expected := `[{"id":1,"name":"ada"},{"id":2,"name":"bob"}]`

	if strings.TrimSpace(output) != expected {
		t.Errorf("expected %s, got %s", expected, output)
	}

	output, err = run(t, "query", "SELECT id, name, NULL AS note FROM users ORDER BY id")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, value := range []string{"id", "name", "note", "ada", "bob", "NULL"} {
		if !strings.Contains(output, value) {
			t.Errorf("expected table output to contain %q, got %q", value, output)
		}
	}
}

func TestQueryCmdNoRows(t *testing.T) {
	setupLocalStore(t)

	run(t, "exec", "CREATE TABLE t (n INTEGER)")

	output, err := run(t, "query", "SELECT n FROM t")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "No rows") {
		t.Errorf("expected output to contain 'No rows', got %q", output)
	}
}

func TestExecCmdErrors(t *testing.T) {
	setupLocalStore(t)

	_, err := run(t, "exec", "INSERT INTO missing VALUES (1)")

	if err == nil || !strings.Contains(err.Error(), "no such table") {
		t.Errorf("expected a missing table error, got %v", err)
	}

	_, err = run(t, "exec", "SELECT ?", "[1")

	if err == nil {
		t.Error("expected an error for invalid parameters")
	}

	_, err = run(t, "exec")

	if err == nil {
		t.Error("expected an error without a statement")
	}
}

func TestExecCmdInvalidConfig(t *testing.T) {
	setupLocalStore(t)
	t.Setenv("PAGEDB_PAGE_SIZE", "1000")

	_, err := run(t, "exec", "SELECT 1")

	if err == nil || !strings.Contains(err.Error(), "power of two") {
		t.Errorf("expected a page size error, got %v", err)
	}
}

func TestPagesCmd(t *testing.T) {
	setupLocalStore(t)

	output, err := run(t, "pages")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "Pages") || !strings.Contains(output, "local") {
		t.Errorf("expected page store details, got %q", output)
	}

	run(t, "exec", "CREATE TABLE t (n INTEGER)")

	output, err = run(t, "pages")

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(output, "4096") {
		t.Errorf("expected the page size in the output, got %q", output)
	}

	if strings.Contains(output, "Size        0") {
		t.Errorf("expected a non empty database, got %q", output)
	}
}
