package money

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: "12.34"},
		{name: "comma separator", input: "12,5", want: "12.5"},
		{name: "integer", input: "20", want: "20"},
		{name: "surrounding spaces", input: "  7.10 ", want: "7.1"},
		{name: "leading dot", input: ".5", want: "0.5"},
		{name: "zero parses", input: "0", want: "0"},
		{name: "empty", input: "", wantErr: true},
		{name: "only separator", input: ".", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
		{name: "explicit plus", input: "+3", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
		{name: "mixed separators", input: "1,000.50", wantErr: true},
		{name: "letters", input: "12abc", wantErr: true},
		{name: "exponent", input: "1e3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("Parse(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(10), "10.00 €"},
		{decimal.RequireFromString("2.5"), "2.50 €"},
		{decimal.RequireFromString("-22.5"), "-22.50 €"},
		{decimal.NewFromInt(10).Div(decimal.NewFromInt(3)), "3.33 €"},
		{decimal.Zero, "0.00 €"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(decimal.Zero) {
		t.Error("zero should be zero")
	}
	if !IsZero(decimal.RequireFromString("0.0000000000000001")) {
		t.Error("division residue should count as zero")
	}
	if !IsZero(decimal.RequireFromString("-0.004")) {
		t.Error("sub half-cent negative should count as zero")
	}
	if IsZero(decimal.RequireFromString("0.01")) {
		t.Error("one cent should not count as zero")
	}
}
