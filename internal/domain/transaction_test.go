package domain

import "testing"

func TestTransactionCode_Actionable(t *testing.T) {
	tests := []struct {
		code TransactionCode
		want bool
	}{
		{CodePurchase, true},
		{CodeExercise, true},
		{CodeSale, true},
		{CodeConversion, true},
		{"A", false}, // grant or award
		{"G", false}, // gift
		{"F", false}, // tax withholding
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.code.Actionable(); got != tt.want {
			t.Errorf("Actionable(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestTransactionCode_Disposes(t *testing.T) {
	if CodePurchase.Disposes() || CodeExercise.Disposes() {
		t.Error("acquisition codes must not dispose")
	}
	if !CodeSale.Disposes() || !CodeConversion.Disposes() {
		t.Error("sale and conversion must dispose")
	}
}

func TestPadCIK(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234567", "0001234567"},
		{"1", "0000000001"},
		{"0001234567", "0001234567"},
		{"12345678901", "12345678901"}, // already wider, left alone
	}

	for _, tt := range tests {
		if got := PadCIK(tt.in); got != tt.want {
			t.Errorf("PadCIK(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
