package rut

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		rut   string
		valid bool
	}{
		{"", true},
		{"12345678-5", true},
		{"12.345.678-5", true},
		{"12345678-0", false},
		{"12345678-K", false},
		{"7775777-k", false},
		{"11111111-1", true},
		{"1-9", true},
		{"9", false},
		{"abc-1", false},
		{"12.345.678", false},
	}

	for _, tc := range cases {
		if got := Validate(tc.rut); got != tc.valid {
			t.Fatalf("Validate(%q) = %v, want %v", tc.rut, got, tc.valid)
		}
	}
}

func TestValidate_UppercaseAndLowercaseK(t *testing.T) {
	// 20347878 has check digit K.
	if !Validate("20347878-K") {
		t.Fatalf("uppercase K rejected")
	}
	if !Validate("20347878-k") {
		t.Fatalf("lowercase k rejected")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"", ""},
		{"12345678-5", "12.345.678-5"},
		{"12.345.678-5", "12.345.678-5"},
		{"1-9", "1-9"},
		{"123456-0", "123.456-0"},
	}

	for _, tc := range cases {
		if got := Format(tc.in); got != tc.out {
			t.Fatalf("Format(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	in := "12345678-5"
	if got := Clean(Format(in)); got != "123456785" {
		t.Fatalf("Clean(Format(%q)) = %q, want %q", in, got, "123456785")
	}
}
