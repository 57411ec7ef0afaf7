package bridge_test

import (
	"errors"
	"testing"

	"github.com/litebase/pagedb/pkg/bridge"
)

func TestDecodeQuery(t *testing.T) {
	query, err := bridge.DecodeQuery([]byte(`{"sql": "SELECT ?", "params": [1]}`))

	if err != nil {
		t.Fatalf("DecodeQuery() failed, expected nil, got %v", err)
	}

	if query.SQL != "SELECT ?" {
		t.Errorf("DecodeQuery() failed, expected SELECT ?, got %s", query.SQL)
	}

	if len(query.Params) != 1 {
		t.Errorf("DecodeQuery() failed, expected 1 param, got %d", len(query.Params))
	}
}

func TestDecodeQueryInvalid(t *testing.T) {
	payloads := []string{
		``,
		`not json`,
		`{"sql": "SELECT 1"}`,
		`{"params": []}`,
		`{"sql": "", "params": []}`,
		`{"sql": "SELECT 1", "params": null}`,
		`{"sql": 1, "params": []}`,
	}

	for _, payload := range payloads {
		_, err := bridge.DecodeQuery([]byte(payload))

		if !errors.Is(err, bridge.ErrSerialization) {
			t.Errorf("DecodeQuery(%q) failed, expected %v, got %v", payload, bridge.ErrSerialization, err)
		}
	}
}

func TestDecodeQueryEmptyParams(t *testing.T) {
	query, err := bridge.DecodeQuery([]byte(`{"sql": "SELECT 1", "params": []}`))

	if err != nil {
		t.Fatalf("DecodeQuery() failed, expected nil, got %v", err)
	}

	args, err := query.Arguments()

	if err != nil {
		t.Fatal(err)
	}

	if len(args) != 0 {
		t.Errorf("Arguments() failed, expected no arguments, got %v", args)
	}
}

func TestQueryArguments(t *testing.T) {
	query, err := bridge.DecodeQuery([]byte(`{
		"sql": "INSERT INTO t VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		"params": [42, -7, 1.5, 1e3, "text", true, false, null, [1, "a"], {"k": "v"}]
	}`))

	if err != nil {
		t.Fatal(err)
	}

	args, err := query.Arguments()

	if err != nil {
		t.Fatal(err)
	}

	expected := []any{
		int64(42),
		int64(-7),
		float64(1.5),
		float64(1000),
		"text",
		int64(1),
		int64(0),
		nil,
		`[1,"a"]`,
		`{"k":"v"}`,
	}

	if len(args) != len(expected) {
		t.Fatalf("Arguments() failed, expected %d arguments, got %d", len(expected), len(args))
	}

	for i := range expected {
		if args[i] != expected[i] {
			t.Errorf("Arguments() failed, expected %#v at %d, got %#v", expected[i], i, args[i])
		}
	}
}

func TestQueryArgumentsLargeInteger(t *testing.T) {
	query, _ := bridge.DecodeQuery([]byte(`{"sql": "SELECT ?", "params": [9223372036854775807, 18446744073709551615]}`))

	args, err := query.Arguments()

	if err != nil {
		t.Fatal(err)
	}

	if args[0] != int64(9223372036854775807) {
		t.Errorf("Arguments() failed, expected max int64, got %#v", args[0])
	}

	if _, ok := args[1].(float64); !ok {
		t.Errorf("Arguments() failed, expected a float for an integer beyond int64, got %#v", args[1])
	}
}
