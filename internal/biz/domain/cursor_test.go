package domain

import "testing"

func posts(ids ...string) []NormalizedPost {
	var result []NormalizedPost
	for _, id := range ids {
		result = append(result, NormalizedPost{ID: id})
	}
	return result
}

func TestSelectLatest_SkipsPinnedAndOlder(t *testing.T) {
	batch := posts("95", "100", "101", "102")
	batch[3].Pinned = true

	got := SelectLatest(batch, "100")
	if got == nil {
		t.Fatal("Expected a post, got nil")
	}
	if got.ID != "101" {
		t.Errorf("Expected 101, got %s", got.ID)
	}
}

func TestSelectLatest_NoCursorTakesFirstNonPinned(t *testing.T) {
	batch := posts("50", "51")
	batch[1].Pinned = true

	got := SelectLatest(batch, "")
	if got == nil || got.ID != "50" {
		t.Fatalf("Expected 50, got %v", got)
	}
}

func TestSelectLatest_PinnedFirstInFeed(t *testing.T) {
	batch := posts("900", "120", "119")
	batch[0].Pinned = true

	got := SelectLatest(batch, "")
	if got == nil || got.ID != "120" {
		t.Fatalf("Expected 120, got %v", got)
	}
}

func TestSelectLatest_NothingNewer(t *testing.T) {
	if got := SelectLatest(posts("98", "99", "100"), "100"); got != nil {
		t.Errorf("Expected nil, got %s", got.ID)
	}
	if got := SelectLatest(nil, "100"); got != nil {
		t.Errorf("Expected nil for empty batch, got %s", got.ID)
	}
}

func TestIsNewPost(t *testing.T) {
	tests := []struct {
		candidate, cursor string
		want              bool
	}{
		{"101", "", true},
		{"101", "101", false},
		{"102", "101", true},
		{"99", "101", false},
		// longer ids are larger even though they sort lower as strings
		{"10000000000000000001", "9999999999999999999", true},
		{"abc", "abd", true},
		{"abc", "abc", false},
		{"", "100", false},
	}

	for _, tt := range tests {
		if got := IsNewPost(tt.candidate, tt.cursor); got != tt.want {
			t.Errorf("IsNewPost(%q, %q) = %v, want %v", tt.candidate, tt.cursor, got, tt.want)
		}
	}
}

func TestNewest(t *testing.T) {
	got := Newest(posts("5", "17", "9"))
	if got == nil || got.ID != "17" {
		t.Fatalf("Expected 17, got %v", got)
	}

	got = Newest(posts("x", "y"))
	if got == nil || got.ID != "x" {
		t.Fatalf("Expected first post for non-numeric ids, got %v", got)
	}

	if Newest(nil) != nil {
		t.Error("Expected nil for empty batch")
	}
}
