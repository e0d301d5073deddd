package usecase

import "testing"

func TestTitleSimilarity(t *testing.T) {
	t.Run("exact match scores 1.0", func(t *testing.T) {
		if got := TitleSimilarity("Sport Cap", "Sport Cap"); got != 1.0 {
			t.Errorf("TitleSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("case and whitespace insensitive exact match", func(t *testing.T) {
		if got := TitleSimilarity("  SPORT CAP ", "sport cap"); got != 1.0 {
			t.Errorf("TitleSimilarity = %v, want 1.0", got)
		}
	})

	t.Run("containment scores 0.95", func(t *testing.T) {
		if got := TitleSimilarity("Sport Cap - White", "Sport Cap"); got != 0.95 {
			t.Errorf("TitleSimilarity = %v, want 0.95", got)
		}
	})

	t.Run("containment is symmetric", func(t *testing.T) {
		if got := TitleSimilarity("Sport Cap", "Sport Cap - White"); got != 0.95 {
			t.Errorf("TitleSimilarity = %v, want 0.95", got)
		}
	})

	t.Run("shared tokens score through token dice", func(t *testing.T) {
		// "wireless noise cancelling headphones" vs "headphones wireless"
		// shares 2 tokens of 4 and 2: dice = 2*2/(4+2) = 0.666...
		got := TitleSimilarity("wireless noise cancelling headphones", "headphones wireless premium")
		if got < 0.5 || got >= 0.95 {
			t.Errorf("TitleSimilarity = %v, want in [0.5, 0.95)", got)
		}
	})

	t.Run("near-identical strings score high via edit distance", func(t *testing.T) {
		got := TitleSimilarity("Sport Capz", "Sport Caps")
		if got < 0.8 {
			t.Errorf("TitleSimilarity = %v, want >= 0.8", got)
		}
	})

	t.Run("unrelated titles score low", func(t *testing.T) {
		got := TitleSimilarity("Sport Cap", "Stainless Steel Water Bottle 750ml")
		if got >= 0.5 {
			t.Errorf("TitleSimilarity = %v, want < 0.5", got)
		}
	})

	t.Run("empty input scores 0", func(t *testing.T) {
		if got := TitleSimilarity("", "Sport Cap"); got != 0 {
			t.Errorf("TitleSimilarity = %v, want 0", got)
		}
		if got := TitleSimilarity("Sport Cap", "   "); got != 0 {
			t.Errorf("TitleSimilarity = %v, want 0", got)
		}
	})

	t.Run("score is within [0,1]", func(t *testing.T) {
		pairs := [][2]string{
			{"a", "b"},
			{"Sport Cap", "sportcap"},
			{"12345", "123"},
			{"Long Product Title With Many Words", "Short"},
		}
		for _, pair := range pairs {
			got := TitleSimilarity(pair[0], pair[1])
			if got < 0 || got > 1 {
				t.Errorf("TitleSimilarity(%q, %q) = %v, want in [0,1]", pair[0], pair[1], got)
			}
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"cap", "cap", 0},
		{"cap", "cup", 1},
	}

	for _, tt := range tests {
		if got := levenshteinDistance([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
