package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  John.DOE@Example.COM  "
	want := "john.doe@example.com"
	if got := Email(in); got != want {
		t.Fatalf("Email(%q) = %q, want %q", in, got, want)
	}
}
