package password

import "testing"

func testConfig() Config {
	cfg := DefaultConfig()
	// Cheap params so tests stay fast; policy is unchanged.
	cfg.Params.MemoryKiB = 8 * 1024
	cfg.Params.Iterations = 1
	cfg.Params.Parallelism = 1
	return cfg
}

func TestValidate_RuleOrder(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	cases := []struct {
		name string
		in   string
		want error
	}{
		{name: "too short", in: "Ab1", want: ErrPasswordTooShort},
		// Length fails before the missing-digit rule can be reported.
		{name: "short and no digit", in: "Abcdefg", want: ErrPasswordTooShort},
		{name: "no lowercase", in: "ABCDEFGHI1", want: ErrNoLowercase},
		{name: "no uppercase", in: "abcdefghi1", want: ErrNoUppercase},
		{name: "no digit", in: "Abcdefghij", want: ErrNoDigit},
		{name: "exactly ten, all rules met", in: "Abcdefghi1", want: nil},
		{name: "unicode letters count as runes", in: "Пароль123Aa", want: nil},
	}

	for _, tc := range cases {
		if got := cfg.Validate(tc.in); got != tc.want {
			t.Fatalf("%s: Validate(%q)=%v want=%v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestValidate_MaxLength(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Policy.MaxLength = 12

	if err := cfg.Validate("Abcdefghijklmnop1"); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}
