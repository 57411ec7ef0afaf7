package bridge_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/litebase/pagedb/pkg/bridge"
)

type fakeRows struct {
	closed  bool
	columns []string
	err     error
	index   int
	rows    [][]any
}

func (r *fakeRows) Close() error {
	r.closed = true

	return nil
}

func (r *fakeRows) Columns() ([]string, error) {
	return r.columns, nil
}

func (r *fakeRows) Err() error {
	return r.err
}

func (r *fakeRows) Next() bool {
	if r.index >= len(r.rows) {
		return false
	}

	r.index++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	for i, value := range r.rows[r.index-1] {
		*(dest[i].(*any)) = value
	}

	return nil
}

func TestWriteRows(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"z", "a", "m"},
		rows: [][]any{
			{int64(1), "one", nil},
			{int64(2), "two", []byte{0, 255}},
		},
	}

	buffer := &bytes.Buffer{}

	if err := bridge.WriteRows(buffer, rows); err != nil {
		t.Fatal(err)
	}

	expected := `[{"z":1,"a":"one","m":null},{"z":2,"a":"two","m":[0,255]}]`

	if buffer.String() != expected {
		t.Errorf("WriteRows() failed, expected %s, got %s", expected, buffer.String())
	}

	if !rows.closed {
		t.Error("WriteRows() failed, expected the rows to be closed")
	}
}

func TestWriteRowsEmpty(t *testing.T) {
	buffer := &bytes.Buffer{}

	bridge.WriteRows(buffer, &fakeRows{columns: []string{"a"}})

	if buffer.String() != "[]" {
		t.Errorf("WriteRows() failed, expected [], got %s", buffer.String())
	}
}

func TestWriteRowsValues(t *testing.T) {
	testCases := []struct {
		value    any
		expected string
	}{
		{nil, `null`},
		{int64(-12), `-12`},
		{float64(3), `3.0`},
		{float64(-0.5), `-0.5`},
		{float64(1e21), `1e+21`},
		{float64(1e-7), `1e-07`},
		{math.NaN(), `null`},
		{math.Inf(1), `null`},
		{math.Inf(-1), `null`},
		{"plain", `"plain"`},
		{"quote\"and\\slash", `"quote\"and\\slash"`},
		{string([]byte{'a', 0xff, 'b'}), "\"a\uFFFDb\""},
		{[]byte{}, `[]`},
		{[]byte{1, 2, 3}, `[1,2,3]`},
		{true, `1`},
		{false, `0`},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), `"2024-01-02T03:04:05Z"`},
	}

	for _, tc := range testCases {
		buffer := &bytes.Buffer{}

		err := bridge.WriteRows(buffer, &fakeRows{
			columns: []string{"v"},
			rows:    [][]any{{tc.value}},
		})

		if err != nil {
			t.Fatal(err)
		}

		expected := `[{"v":` + tc.expected + `}]`

		if buffer.String() != expected {
			t.Errorf("WriteRows() failed, expected %s, got %s", expected, buffer.String())
		}
	}
}

func TestWriteRowsUnsupportedValue(t *testing.T) {
	buffer := &bytes.Buffer{}

	err := bridge.WriteRows(buffer, &fakeRows{
		columns: []string{"v"},
		rows:    [][]any{{struct{}{}}},
	})

	if !errors.Is(err, bridge.ErrSerialization) {
		t.Errorf("WriteRows() failed, expected %v, got %v", bridge.ErrSerialization, err)
	}
}

func TestWriteRowsCursorError(t *testing.T) {
	cursorErr := errors.New("cursor failed")
	buffer := &bytes.Buffer{}

	err := bridge.WriteRows(buffer, &fakeRows{
		columns: []string{"v"},
		err:     cursorErr,
	})

	if !errors.Is(err, cursorErr) {
		t.Errorf("WriteRows() failed, expected %v, got %v", cursorErr, err)
	}
}
