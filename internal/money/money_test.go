package money

import (
	"encoding/json"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out Cents
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out Cents
		ok  bool
	}{
		{0, 0, true},
		{10, 1000, true},
		{12.34, 1234, true},
		{0.1, 10, true},
		{3.335, 334, true}, // half-up
		{-1, 0, false},
	}
	for _, tc := range cases {
		got, err := FromFloat(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%v expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%v expected error", tc.in)
		}
	}
}

func TestCentsString(t *testing.T) {
	if got := Cents(1234).String(); got != "12.34" {
		t.Errorf("String() = %q, want 12.34", got)
	}
	if got := Cents(-5).String(); got != "-0.05" {
		t.Errorf("String() = %q, want -0.05", got)
	}
}

func TestCentsJSON(t *testing.T) {
	type payload struct {
		Amount Cents `json:"amount"`
	}

	var p payload
	if err := json.Unmarshal([]byte(`{"amount": 10.5}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Amount != 1050 {
		t.Errorf("Amount = %d, want 1050", p.Amount)
	}

	out, err := json.Marshal(payload{Amount: 333})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `{"amount":3.33}` {
		t.Errorf("marshal = %s, want {\"amount\":3.33}", out)
	}
}

// Balance and settlement payloads carry negative amounts. Whatever
// MarshalJSON emits must decode back to the same cents, whether the
// client echoes it bare or wrapped in quotes.
func TestCentsJSONRoundTrip(t *testing.T) {
	for _, amount := range []Cents{-1000, -5, 0, 5, 1000} {
		encoded, err := json.Marshal(amount)
		if err != nil {
			t.Fatalf("marshal %d failed: %v", amount, err)
		}

		var bare Cents
		if err := json.Unmarshal(encoded, &bare); err != nil {
			t.Fatalf("unmarshal %s failed: %v", encoded, err)
		}
		if bare != amount {
			t.Errorf("round trip of %d through %s gave %d", amount, encoded, bare)
		}

		var quoted Cents
		if err := json.Unmarshal([]byte(`"`+string(encoded)+`"`), &quoted); err != nil {
			t.Fatalf("unmarshal quoted %s failed: %v", encoded, err)
		}
		if quoted != amount {
			t.Errorf("quoted round trip of %d gave %d", amount, quoted)
		}
	}

	if got := Cents(-1000).String(); got != "-10.00" {
		t.Errorf("String() = %q, want -10.00", got)
	}
}
