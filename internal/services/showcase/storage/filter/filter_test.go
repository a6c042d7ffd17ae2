package filter

import (
	"reflect"
	"testing"
	"time"
)

func TestParseRunFilter_OutcomeEquals(t *testing.T) {
	cond, err := ParseRunFilter(`outcome = "VICTORY"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "outcome = ?" {
		t.Errorf("expected 'outcome = ?', got %q", cond.Clause)
	}
	if len(cond.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(cond.Params))
	}
	if cond.Params[0] != "VICTORY" {
		t.Errorf("expected 'VICTORY', got %v", cond.Params[0])
	}
}

func TestParseRunFilter_Empty(t *testing.T) {
	cond, err := ParseRunFilter(" ")
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "" || cond.Params != nil {
		t.Fatalf("expected empty condition, got %+v", cond)
	}
}

func TestParseRunFilter_AndOr(t *testing.T) {
	cond, err := ParseRunFilter(`outcome = "VICTORY" AND locale = "pt-BR"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "(outcome = ? AND locale = ?)" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if !reflect.DeepEqual(cond.Params, []any{"VICTORY", "pt-BR"}) {
		t.Fatalf("Params = %v", cond.Params)
	}

	cond, err = ParseRunFilter(`outcome = "VICTORY" OR outcome = "DEFEAT"`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "(outcome = ? OR outcome = ?)" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
}

func TestParseRunFilter_NumericComparison(t *testing.T) {
	cond, err := ParseRunFilter(`turns >= 5`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "turns >= ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	if !reflect.DeepEqual(cond.Params, []any{int64(5)}) {
		t.Fatalf("Params = %v", cond.Params)
	}

	cond, err = ParseRunFilter(`frame_count != 3`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "frame_count != ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
}

func TestParseRunFilter_Timestamp(t *testing.T) {
	cond, err := ParseRunFilter(`created_at > timestamp("2026-01-01T00:00:00Z")`)
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if cond.Clause != "created_at_ms > ?" {
		t.Fatalf("Clause = %q", cond.Clause)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if !reflect.DeepEqual(cond.Params, []any{want}) {
		t.Fatalf("Params = %v, want [%d]", cond.Params, want)
	}
}

func TestParseRunFilter_InvalidField(t *testing.T) {
	_, err := ParseRunFilter(`unknown = "x"`)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseRunFilter_InvalidValueFunc(t *testing.T) {
	_, err := ParseRunFilter(`created_at = duration("1h")`)
	if err == nil {
		t.Fatal("expected error for unsupported value function")
	}
}

func TestParseRunFilter_InvalidTimestamp(t *testing.T) {
	_, err := ParseRunFilter(`created_at = timestamp("not-a-time")`)
	if err == nil {
		t.Fatal("expected error for invalid timestamp")
	}
}
