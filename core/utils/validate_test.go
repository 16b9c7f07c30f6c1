package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"alice", true},
		{"Alice99", true},
		{"ab", false},
		{"thisusernameiswaytoolong", false},
		{"bad name", false},
		{"bad-name", false},
		{"", false},
	}
	for _, tc := range cases {
		err := ValidateUsername(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ValidateUsername(%q) = %v, want ok=%v", tc.in, err, tc.ok)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Errorf("5-char password should fail")
	}
	if err := ValidatePassword("longenough"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}

func TestRandString(t *testing.T) {
	a, err := RandString(32)
	if err != nil || len(a) != 32 {
		t.Fatalf("RandString: %q err=%v", a, err)
	}
	b, _ := RandString(32)
	if a == b {
		t.Fatalf("two random strings matched")
	}
	odd, err := RandString(7)
	if err != nil || len(odd) != 7 {
		t.Fatalf("odd length: %q err=%v", odd, err)
	}
}
