package bmi

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestCompute_TableTests(t *testing.T) {
	tests := []struct {
		name   string
		weight decimal.Decimal
		height *decimal.Decimal
		want   string
		isNil  bool
	}{
		{
			name:   "reference value 70kg 1.75m",
			weight: dec("70.00"),
			height: decPtr("1.75"),
			want:   "22.86",
		},
		{
			name:   "rounding half even down",
			weight: dec("80.00"),
			height: decPtr("1.80"),
			want:   "24.69",
		},
		{
			name:   "light weight",
			weight: dec("52.30"),
			height: decPtr("1.60"),
			want:   "20.43",
		},
		{
			name:   "missing height",
			weight: dec("70.00"),
			height: nil,
			isNil:  true,
		},
		{
			name:   "zero height",
			weight: dec("70.00"),
			height: decPtr("0"),
			isNil:  true,
		},
		{
			name:   "zero weight",
			weight: dec("0"),
			height: decPtr("1.75"),
			isNil:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.weight, tt.height)
			if tt.isNil {
				if got != nil {
					t.Errorf("Compute() = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Compute() = nil, want %s", tt.want)
			}
			if got.String() != tt.want {
				t.Errorf("Compute() = %s, want %s", got.String(), tt.want)
			}
		})
	}
}

func TestCompute_SamePrecisionOnUpdate(t *testing.T) {
	// Пересчёт с новым весом обязан давать новое значение с той же точностью.
	first := Compute(dec("70.00"), decPtr("1.75"))
	second := Compute(dec("72.50"), decPtr("1.75"))
	if first == nil || second == nil {
		t.Fatal("expected both results to be non-nil")
	}
	if first.String() != "22.86" {
		t.Errorf("first = %s, want 22.86", first.String())
	}
	if second.String() != "23.67" {
		t.Errorf("second = %s, want 23.67", second.String())
	}
}
