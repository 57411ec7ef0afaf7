package bridge_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/litebase/pagedb/pkg/bridge"
)

func TestFormatErrorChain(t *testing.T) {
	root := errors.New("disk unavailable")
	middle := fmt.Errorf("failed to read page 3: %w", root)
	top := fmt.Errorf("query failed: %w", middle)

	expected := "query failed\n\nCaused by:\n   0: failed to read page 3\n   1: disk unavailable"

	if got := bridge.FormatErrorChain(top); got != expected {
		t.Errorf("FormatErrorChain() failed, expected %q, got %q", expected, got)
	}
}

func TestFormatErrorChainSingle(t *testing.T) {
	if got := bridge.FormatErrorChain(errors.New("boom")); got != "boom" {
		t.Errorf("FormatErrorChain() failed, expected boom, got %q", got)
	}
}

func TestFormatErrorChainNumbering(t *testing.T) {
	err := errors.New("cause 11")

	for i := 10; i >= 0; i-- {
		err = fmt.Errorf("cause %d: %w", i, err)
	}

	got := bridge.FormatErrorChain(err)
	expected := "cause 0\n\nCaused by:\n" +
		"   0: cause 1\n   1: cause 2\n   2: cause 3\n   3: cause 4\n   4: cause 5\n" +
		"   5: cause 6\n   6: cause 7\n   7: cause 8\n   8: cause 9\n   9: cause 10\n  10: cause 11"

	if got != expected {
		t.Errorf("FormatErrorChain() failed, expected %q, got %q", expected, got)
	}
}
