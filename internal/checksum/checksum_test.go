package checksum

import "testing"

func TestSum(t *testing.T) {
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != want {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestETag(t *testing.T) {
	a, b := ETag([]byte("page one")), ETag([]byte("page two"))
	if a == b {
		t.Fatal("different pages share an etag")
	}
	if len(a) != 34 || a[0] != '"' || a[33] != '"' {
		t.Errorf("malformed etag %s", a)
	}
	if a != ETag([]byte("page one")) {
		t.Error("etag not stable")
	}
}

func TestMatches(t *testing.T) {
	tag := ETag([]byte("x"))
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{tag, true},
		{"W/" + tag, true},
		{`"other", ` + tag, true},
		{`"other"`, false},
		{"*", true},
	}
	for _, tc := range cases {
		if got := Matches(tc.header, tag); got != tc.want {
			t.Errorf("Matches(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}
