package fieldparse

import "testing"

func TestNumber(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{"15000", 15000, true},
		{"15 000", 15000, true},
		{"1 000 000", 1000000, true},
		{"15000.50", 15000.50, true},
		{"15,5", 15.5, true},
		{"15000 тг", 15000, true},
		{"8 000,25", 8000.25, true},
		{"1 000 000.99", 1000000.99, true},
		{"0", 0, true},
		{"-0", 0, true},
		{"-250", -250, true},
		{"15000₸", 15000, true},
		{"  15000  ", 15000, true},

		{"", 0, false},
		{"1+5", 0, false},
		{"1№2", 0, false},
		{"abc123", 0, false},
		{"15 и 20", 0, false},
		{"15 20", 0, false},
		{"1 2 3 4 5", 0, false},
		{"пятнадцать тысяч", 0, false},
		{"15.000.000", 0, false},
		{"1 00", 0, false},
		{"1234 000", 0, false},
		{"15 000,", 0, false},
		{"15  000", 0, false},
		{"тг", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Number(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Number(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Number(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNumberNegativeZeroIsNotPositive(t *testing.T) {
	got, ok := Number("-0")
	if !ok {
		t.Fatal("expected -0 to parse")
	}
	if got > 0 {
		t.Errorf("expected -0 to be non-positive, got %v", got)
	}
}
