package models

import "testing"

func TestValidOrderStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"open", OrderStatusOpen, true},
		{"ordered", OrderStatusOrdered, true},
		{"delivered", OrderStatusDelivered, true},
		{"unknown", "lost", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidOrderStatus(tt.value); got != tt.want {
				t.Fatalf("ValidOrderStatus(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestProductCategoryName(t *testing.T) {
	t.Parallel()

	if got := (Product{}).CategoryName(); got != "" {
		t.Fatalf("CategoryName() without category = %q, want empty", got)
	}
	p := Product{Category: &Category{Name: "Backwaren"}}
	if got := p.CategoryName(); got != "Backwaren" {
		t.Fatalf("CategoryName() = %q, want Backwaren", got)
	}
}
