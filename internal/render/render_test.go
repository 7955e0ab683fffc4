package render

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"dispenser/pkg/dispenser"
)

// TestOutcomeLinesSorted ensures outcome lines are sorted and plain without color.
func TestOutcomeLinesSorted(t *testing.T) {
	outcomes := []dispenser.Outcome{
		dispenser.Unavailable("green_tea", "green_mixture"),
		dispenser.Prepared("hot_tea"),
		dispenser.Insufficient("black_tea", "hot_water"),
	}
	got := OutcomeLines(outcomes, true)
	want := []string{
		"black_tea cannot be prepared because item hot_water is not sufficient",
		"green_tea cannot be prepared because green_mixture is not available",
		"hot_tea is prepared",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if outcomes[0].Order != "green_tea" {
		t.Fatalf("input slice must not be reordered")
	}
}

// TestOutcomesWritesLines ensures each outcome is written on its own line.
func TestOutcomesWritesLines(t *testing.T) {
	var buf bytes.Buffer
	Outcomes(&buf, []dispenser.Outcome{dispenser.Prepared("b"), dispenser.Prepared("a")}, true)
	if buf.String() != "a is prepared\nb is prepared\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

// TestInventoryTable ensures every resource appears with its quantity and status.
func TestInventoryTable(t *testing.T) {
	out := Inventory(dispenser.Stock{"hot_water": 200, "hot_milk": 0}, []dispenser.Resource{"hot_milk"}, true)
	for _, fragment := range []string{"Item", "Quantity", "hot_water", "200", "hot_milk", "low", "ok"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in table:\n%s", fragment, out)
		}
	}
	if strings.Index(out, "hot_milk") > strings.Index(out, "hot_water") {
		t.Fatalf("expected rows sorted by name:\n%s", out)
	}
}

// TestLowItemsLine ensures the low-item line lists names or none.
func TestLowItemsLine(t *testing.T) {
	if got := LowItems(nil, true); got != "Low items: none" {
		t.Fatalf("unexpected line %q", got)
	}
	if got := LowItems([]dispenser.Resource{"a", "b"}, true); got != "Low items: a, b" {
		t.Fatalf("unexpected line %q", got)
	}
}

// TestIsTerminalBuffer ensures non-file writers are not terminals.
func TestIsTerminalBuffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) || IsTerminal(nil) {
		t.Fatalf("buffers are not terminals")
	}
}
