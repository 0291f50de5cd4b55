package domain

import "testing"

func TestNormalizeMCNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"mc123456", "MC123456"},
		{"  Mc987654  ", "MC987654"},
		{"MC000001", "MC000001"},
	}

	for _, c := range cases {
		got := NormalizeMCNumber(c.in)
		if got != c.want {
			t.Errorf("NormalizeMCNumber(%q) = %q, want %q", c.in, got, c.want)
		}
		if !ValidMCNumber(got) {
			t.Errorf("normalized %q should validate", got)
		}
	}
}

func TestValidMCNumberRejects(t *testing.T) {
	for _, in := range []string{"", "MC12345", "MC1234567", "XX123456", "123456"} {
		if ValidMCNumber(NormalizeMCNumber(in)) {
			t.Errorf("ValidMCNumber(%q) = true, want false", in)
		}
	}
}

func TestNormalizeSKU(t *testing.T) {
	if got := NormalizeSKU(" ast0042 "); got != "AST0042" {
		t.Fatalf("NormalizeSKU = %q, want AST0042", got)
	}
	if ValidSKU("AST123") {
		t.Error("three-digit SKU should not validate")
	}
	if !ValidSKU("AST1234") {
		t.Error("AST1234 should validate")
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"555-123-4567", "5551234567"},
		{"5551234567", "5551234567"},
		{" 555-1234567 ", "5551234567"},
	}

	for _, c := range cases {
		if got := NormalizePhoneNumber(c.in); got != c.want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"55-123-4567", "555123456", "55512345678", "phone"} {
		if ValidPhoneNumber(bad) {
			t.Errorf("ValidPhoneNumber(%q) = true, want false", bad)
		}
	}
}

func TestNormalizePlateNumber(t *testing.T) {
	if got := NormalizePlateNumber(" abc-123 "); got != "ABC-123" {
		t.Fatalf("NormalizePlateNumber = %q, want ABC-123", got)
	}
	if ValidPlateNumber("AB 123") {
		t.Error("plate with space should not validate")
	}
	if !ValidPlateNumber("TX-99-ZZ") {
		t.Error("TX-99-ZZ should validate")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Dispatch@Example.COM "); got != "dispatch@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Steel Coil 20T", "steel-coil-20t"},
		{"  Pallet -- Mixed  ", "pallet-mixed"},
		{"Crate #7 (oversize)", "crate-7-oversize"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
