package search

import (
	"reflect"
	"testing"
)

func TestNewTextFilterSplitsAndDedupes(t *testing.T) {
	tf := NewTextFilter("arijit  singh", "Singh")
	if got, want := tf.Keywords(), []string{"arijit", "singh"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keywords = %v, want %v", got, want)
	}

	tf = NewTextFilter("   ")
	if !tf.IsZero() {
		t.Fatalf("whitespace-only value should impose no constraint, got %v", tf.Keywords())
	}

	tf = NewTextFilter()
	if !tf.IsZero() {
		t.Fatalf("no values should impose no constraint")
	}
}

func TestSubstringAnyExpr(t *testing.T) {
	expr, args := substringAnyExpr("songs.title", []string{"Chikni", "chameli"})
	wantExpr := "(lower(songs.title) LIKE ? OR lower(songs.title) LIKE ?)"
	if expr != wantExpr {
		t.Fatalf("expr = %q, want %q", expr, wantExpr)
	}
	wantArgs := []interface{}{"%chikni%", "%chameli%"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("args = %v, want %v", args, wantArgs)
	}

	expr, args = substringAnyExpr("songs.title", nil)
	if expr != "" || args != nil {
		t.Fatalf("empty keywords should produce no predicate, got %q %v", expr, args)
	}
}

func TestHasRelationJoins(t *testing.T) {
	var f SongFilter
	if f.HasRelationJoins() {
		t.Fatalf("empty filter should not join")
	}
	f.Mood = NewTextFilter("dance")
	if !f.HasRelationJoins() {
		t.Fatalf("mood filter requires a join")
	}
}
