package rbac

import "testing"

func TestPolicyRoles(t *testing.T) {
	p, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	cases := []struct {
		role string
		perm Permission
		want bool
	}{
		{"general", "incidents.view", true},
		{"general", "incidents.manage", false},
		{"general", "logs.view", false},
		{"general", "assistant.use", true},
		{"analyst", "incidents.view", true},
		{"analyst", "incidents.manage", true},
		{"analyst", "datasets.manage", true},
		{"analyst", "users.view", false},
		{"admin", "incidents.manage", true},
		{"admin", "logs.view", true},
		{"admin", "users.view", true},
		{"admin", "import.manage", true},
		// Free-text roles outside the policy match nothing.
		{"superuser", "incidents.view", false},
		{"", "incidents.view", false},
	}
	for _, tc := range cases {
		if got := p.Allowed(tc.role, tc.perm); got != tc.want {
			t.Errorf("Allowed(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPolicyMalformedPermission(t *testing.T) {
	p, err := NewPolicy()
	if err != nil {
		t.Fatalf("new policy: %v", err)
	}
	if p.Allowed("admin", "no-dot") {
		t.Fatalf("malformed permission should not be allowed")
	}
}
