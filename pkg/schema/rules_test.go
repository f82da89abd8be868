package schema

import "testing"

func TestExactDigits(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		value string
		valid bool
	}{
		{"ten digit mobile", 10, "1234567890", true},
		{"too short", 10, "123456789", false},
		{"letter suffix", 10, "123456789a", false},
		{"empty", 10, "", false},
		{"aadhaar length", 12, "123456789012", true},
		{"aadhaar short", 12, "12345678901", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ExactDigits(tc.n)(tc.value)
			if tc.valid && err != nil {
				t.Fatalf("expected %q to pass: %v", tc.value, err)
			}
			if !tc.valid && err == nil {
				t.Fatalf("expected %q to fail", tc.value)
			}
		})
	}
}

func TestNumericRange(t *testing.T) {
	rule := NumericRange(18, 120)

	cases := []struct {
		value string
		valid bool
	}{
		{"17", false},
		{"18", true},
		{"120", true},
		{"121", false},
		{"abc", false},
		{"", false},
	}

	for _, tc := range cases {
		err := rule(tc.value)
		if tc.valid && err != nil {
			t.Fatalf("expected %q to pass: %v", tc.value, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("expected %q to fail", tc.value)
		}
	}
}

func TestLettersAndSpacesOnly(t *testing.T) {
	rule := LettersAndSpacesOnly()
	if err := rule("Asha Devi"); err != nil {
		t.Fatalf("expected name to pass: %v", err)
	}
	if err := rule("123"); err == nil {
		t.Fatalf("expected digits to fail")
	}
	if err := rule(""); err == nil {
		t.Fatalf("expected empty value to fail")
	}
}

func TestEmailShape(t *testing.T) {
	rule := EmailShape()
	if err := rule("asha@example.org"); err != nil {
		t.Fatalf("expected address to pass: %v", err)
	}
	for _, bad := range []string{"", "asha", "asha@", "asha@example", "a b@example.org"} {
		if err := rule(bad); err == nil {
			t.Fatalf("expected %q to fail", bad)
		}
	}
}

func TestMinLengthCountsCharactersNotBytes(t *testing.T) {
	rule := MinLength(8)

	// Six Devanagari characters span eighteen bytes; the rule must still
	// reject them against a minimum of eight characters.
	if err := rule("नमस्ते"); err == nil {
		t.Fatalf("expected a six-character value to fail MinLength(8)")
	}
	if err := rule("नमस्तेनम"); err != nil {
		t.Fatalf("expected an eight-character value to pass: %v", err)
	}

	lenient := PasswordMinLength()
	if err := lenient("पासवर्ड"); err == nil {
		t.Fatalf("expected a seven-character password to fail")
	}
	if err := lenient("पासवर्ड१"); err != nil {
		t.Fatalf("expected an eight-character password to pass: %v", err)
	}
}

func TestPasswordRulesStayDistinct(t *testing.T) {
	lenient := PasswordMinLength()
	strict := PasswordStrict()

	// Long but lowercase-only: the lenient rule accepts, the strict one does
	// not. The two strictness levels must not be unified.
	value := "password1"
	if err := lenient(value); err != nil {
		t.Fatalf("lenient rule rejected %q: %v", value, err)
	}
	if err := strict(value); err == nil {
		t.Fatalf("strict rule accepted %q", value)
	}

	if err := strict("Passw0rd!"); err != nil {
		t.Fatalf("strict rule rejected a conforming password: %v", err)
	}
	if err := strict("Short!A"); err == nil {
		t.Fatalf("strict rule accepted a short password")
	}
}

func TestOptionalSkipsEmpty(t *testing.T) {
	rule := Optional(ExactDigits(10))
	if err := rule(""); err != nil {
		t.Fatalf("optional rule rejected empty value: %v", err)
	}
	if err := rule("12345"); err == nil {
		t.Fatalf("optional rule accepted a short value")
	}
}

func TestAllReturnsFirstFailure(t *testing.T) {
	rule := All(MinLength(3), LettersAndSpacesOnly())
	if err := rule("ab"); err == nil {
		t.Fatalf("expected length failure")
	}
	if err := rule("ab1"); err == nil {
		t.Fatalf("expected charset failure")
	}
	if err := rule("abc"); err != nil {
		t.Fatalf("expected value to pass: %v", err)
	}
}

func TestRulesAreTotal(t *testing.T) {
	rules := []Rule{
		ExactDigits(10),
		LettersAndSpacesOnly(),
		MinLength(4),
		NumericRange(18, 120),
		NonEmptyChoice(),
		EmailShape(),
		PasswordMinLength(),
		PasswordStrict(),
		Optional(nil),
		All(),
	}
	inputs := []string{"", " ", "\x00", "日本語", "a\nb", "<script>x</script>"}

	for _, rule := range rules {
		for _, input := range inputs {
			// A panic here fails the test; every rule must be total.
			_ = rule(input)
		}
	}
}
