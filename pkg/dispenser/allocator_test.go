package dispenser

import (
	"reflect"
	"testing"
)

func order(name string, reqs ...Requirement) Order {
	return Order{Name: name, Requirements: reqs}
}

func need(r Resource, q Quantity) Requirement {
	return Requirement{Resource: r, Quantity: q}
}

// TestEvaluateAdmitsWhenStockCovers ensures a fully stocked order is admitted with its requirements as deductions.
func TestEvaluateAdmitsWhenStockCovers(t *testing.T) {
	stock := Stock{"hot_water": 500, "coffee": 100}
	o := order("hot_coffee", need("coffee", 50), need("hot_water", 100))

	got := Evaluate(stock, o)
	if !got.Admit {
		t.Fatalf("expected admit, got %+v", got)
	}
	if got.Outcome != Prepared("hot_coffee") {
		t.Fatalf("unexpected outcome %+v", got.Outcome)
	}
	if !reflect.DeepEqual(got.Deductions, o.Requirements) {
		t.Fatalf("deductions %+v, want %+v", got.Deductions, o.Requirements)
	}
}

// TestEvaluateExactQuantityIsEnough ensures requiring exactly the available quantity admits.
func TestEvaluateExactQuantityIsEnough(t *testing.T) {
	got := Evaluate(Stock{"milk": 10}, order("latte", need("milk", 10)))
	if !got.Admit {
		t.Fatalf("expected admit at exact quantity")
	}
}

// TestEvaluateRejections ensures rejection causes follow iteration order and precedence.
func TestEvaluateRejections(t *testing.T) {
	stock := Stock{"hot_water": 100, "sugar": 10, "milk": 0}
	cases := []struct {
		name  string
		order Order
		want  Outcome
	}{
		{
			name:  "first_unknown_reported",
			order: order("green_tea", need("hot_water", 10), need("green_mixture", 30), need("lemon", 1)),
			want:  Unavailable("green_tea", "green_mixture"),
		},
		{
			name:  "first_short_reported",
			order: order("black_tea", need("sugar", 50), need("hot_water", 300)),
			want:  Insufficient("black_tea", "sugar"),
		},
		{
			name:  "short_order_follows_requirements",
			order: order("black_tea", need("hot_water", 300), need("sugar", 50)),
			want:  Insufficient("black_tea", "hot_water"),
		},
		{
			name:  "unknown_after_short_wins",
			order: order("mocha", need("hot_water", 300), need("cocoa", 5)),
			want:  Unavailable("mocha", "cocoa"),
		},
		{
			name:  "zero_stock_is_known_but_short",
			order: order("latte", need("milk", 1)),
			want:  Insufficient("latte", "milk"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(stock, tc.order)
			if got.Admit {
				t.Fatalf("expected reject")
			}
			if got.Outcome != tc.want {
				t.Fatalf("outcome %+v, want %+v", got.Outcome, tc.want)
			}
			if got.Deductions != nil {
				t.Fatalf("rejected order carries deductions %+v", got.Deductions)
			}
		})
	}
}

// TestEvaluateDoesNotMutateStock ensures the allocator has no side effects.
func TestEvaluateDoesNotMutateStock(t *testing.T) {
	stock := Stock{"hot_water": 500, "coffee": 100}
	before := stock.Clone()
	o := order("hot_coffee", need("coffee", 50), need("hot_water", 100))

	got := Evaluate(stock, o)
	got.Deductions[0].Quantity = 999
	if !reflect.DeepEqual(stock, before) {
		t.Fatalf("stock mutated: %+v", stock)
	}
	if o.Requirements[0].Quantity != 50 {
		t.Fatalf("order requirements aliased by deductions")
	}
}
