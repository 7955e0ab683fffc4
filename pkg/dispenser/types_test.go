package dispenser

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// TestThresholdIsTwentyPercentFloor ensures thresholds round down.
func TestThresholdIsTwentyPercentFloor(t *testing.T) {
	cases := map[Quantity]Quantity{
		0:   0,
		4:   0,
		5:   1,
		99:  19,
		100: 20,
		500: 100,
		512: 102,
	}
	for initial, want := range cases {
		if got := Threshold(initial); got != want {
			t.Fatalf("Threshold(%d) = %d, want %d", initial, got, want)
		}
	}
}

// TestStockDeductIsAllOrNothing ensures a failing deduction leaves stock untouched.
func TestStockDeductIsAllOrNothing(t *testing.T) {
	stock := Stock{"water": 100, "milk": 5}
	err := stock.Deduct([]Requirement{need("water", 50), need("milk", 6)})
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("expected ErrOversell, got %v", err)
	}
	if stock["water"] != 100 || stock["milk"] != 5 {
		t.Fatalf("stock changed on failed deduct: %+v", stock)
	}

	if err := stock.Deduct([]Requirement{need("water", 50), need("milk", 5)}); err != nil {
		t.Fatalf("deduct: %v", err)
	}
	if stock["water"] != 50 || stock["milk"] != 0 {
		t.Fatalf("unexpected stock %+v", stock)
	}
}

// TestStockDeductUnknownResource ensures unknown resources are never created by a deduction.
func TestStockDeductUnknownResource(t *testing.T) {
	stock := Stock{"water": 1}
	if err := stock.Deduct([]Requirement{need("tea", 1)}); !errors.Is(err, ErrOversell) {
		t.Fatalf("expected ErrOversell, got %v", err)
	}
	if stock.Has("tea") {
		t.Fatalf("deduct adopted an unknown resource")
	}
}

// TestStockAddAndResources ensures refills add quantities and adopt new names.
func TestStockAddAndResources(t *testing.T) {
	stock := Stock{"water": 1}
	if err := stock.Add(Stock{"water": 2, "cocoa": 3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if stock["water"] != 3 || stock["cocoa"] != 3 {
		t.Fatalf("unexpected stock %+v", stock)
	}
	if got := stock.Resources(); !reflect.DeepEqual(got, []Resource{"cocoa", "water"}) {
		t.Fatalf("resources %v", got)
	}
}

// TestStockAddOverflowLeavesStockUnchanged ensures a refill never wraps a quantity.
func TestStockAddOverflowLeavesStockUnchanged(t *testing.T) {
	stock := Stock{"water": 10, "milk": 5}
	err := stock.Add(Stock{"milk": 1, "water": math.MaxUint64})
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected ErrOverflow, got %v", err)
	}
	if !reflect.DeepEqual(stock, Stock{"water": 10, "milk": 5}) {
		t.Fatalf("stock changed on overflow: %+v", stock)
	}

	edge := Stock{"water": 1}
	if err := edge.Add(Stock{"water": math.MaxUint64 - 1}); err != nil {
		t.Fatalf("add to the maximum: %v", err)
	}
	if edge["water"] != math.MaxUint64 {
		t.Fatalf("expected max quantity, got %d", edge["water"])
	}
}

// TestOrderValidate ensures malformed orders are rejected.
func TestOrderValidate(t *testing.T) {
	cases := []struct {
		name  string
		order Order
		ok    bool
	}{
		{name: "valid", order: order("tea", need("water", 1)), ok: true},
		{name: "missing_name", order: order("", need("water", 1))},
		{name: "no_requirements", order: order("tea")},
		{name: "zero_quantity", order: order("tea", need("water", 0))},
		{name: "unnamed_resource", order: order("tea", need("", 1))},
		{name: "duplicate_resource", order: order("tea", need("water", 1), need("water", 2))},
	}
	for _, tc := range cases {
		err := tc.order.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

// TestOutcomeString ensures outcome messages match the machine's wording.
func TestOutcomeString(t *testing.T) {
	cases := []struct {
		outcome Outcome
		want    string
	}{
		{Prepared("hot_tea"), "hot_tea is prepared"},
		{Unavailable("green_tea", "green_mixture"), "green_tea cannot be prepared because green_mixture is not available"},
		{Insufficient("black_tea", "hot_water"), "black_tea cannot be prepared because item hot_water is not sufficient"},
	}
	for _, tc := range cases {
		if got := tc.outcome.String(); got != tc.want {
			t.Fatalf("got %q, want %q", got, tc.want)
		}
	}
}
