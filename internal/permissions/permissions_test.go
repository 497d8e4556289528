package permissions

import "testing"

func TestIsPermitted(t *testing.T) {
	s := Parse("nexus:users:create, nexus:tasks:* ,")

	cases := []struct {
		action string
		want   bool
	}{
		{"nexus:users:create", true},
		{"nexus:users:delete", false},
		{"nexus:tasks:delete", true},
		{"nexus:tasks", false},
		{"nexus:taskschedule:delete", false},
	}
	for _, tc := range cases {
		if got := s.IsPermitted(tc.action); got != tc.want {
			t.Fatalf("IsPermitted(%q) = %v, want %v", tc.action, got, tc.want)
		}
	}
}

func TestWildcardGrantsEverything(t *testing.T) {
	if !New("*").IsPermitted("anything:at:all") {
		t.Fatal("expected * to grant every action")
	}
	if New().IsPermitted("nexus:users:create") {
		t.Fatal("empty set should grant nothing")
	}
}
