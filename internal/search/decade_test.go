package search

import "testing"

func TestParseDecadeFourDigit(t *testing.T) {
	got := ParseDecade("1990s")
	if got == nil || got.From != 1990 || got.To != 1999 {
		t.Fatalf("ParseDecade(1990s) = %+v, want [1990,1999]", got)
	}

	got = ParseDecade("best of the 2000s playlist")
	if got == nil || got.From != 2000 || got.To != 2009 {
		t.Fatalf("ParseDecade(2000s) = %+v, want [2000,2009]", got)
	}
}

func TestParseDecadeTwoDigit(t *testing.T) {
	got := ParseDecade("90s")
	if got == nil || got.From != 1990 || got.To != 1999 {
		t.Fatalf("ParseDecade(90s) = %+v, want [1990,1999]", got)
	}

	got = ParseDecade("05s")
	if got == nil || got.From != 2005 || got.To != 2014 {
		t.Fatalf("ParseDecade(05s) = %+v, want [2005,2014]", got)
	}
}

// The century cutoff is a heuristic: two-digit values below 30 read as 20xx,
// everything else as 19xx. That means "30s" parses as the 2030s and the
// 1930s cannot be written in two-digit form at all. The behavior is locked
// in here deliberately; changing the cutoff changes the meaning of stored
// client queries.
func TestParseDecadeCenturyCutoffHeuristic(t *testing.T) {
	got := ParseDecade("30s")
	if got == nil || got.From != 2030 || got.To != 2039 {
		t.Fatalf("ParseDecade(30s) = %+v, want [2030,2039] under the cutoff rule", got)
	}

	got = ParseDecade("60s")
	if got == nil || got.From != 1960 || got.To != 1969 {
		t.Fatalf("ParseDecade(60s) = %+v, want [1960,1969]", got)
	}
}

func TestParseDecadeNoMatch(t *testing.T) {
	if got := ParseDecade("no digits here"); got != nil {
		t.Fatalf("ParseDecade(no digits here) = %+v, want nil", got)
	}
	if got := ParseDecade(""); got != nil {
		t.Fatalf("ParseDecade(empty) = %+v, want nil", got)
	}
	// Digits glued to a word are not a decade token.
	if got := ParseDecade("track90sX"); got != nil {
		t.Fatalf("ParseDecade(track90sX) = %+v, want nil", got)
	}
}
