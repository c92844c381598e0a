package model

import "testing"

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple title", input: "Cat Capture", want: "cat-capture"},
		{name: "punctuation is dropped inside words", input: "Cat's Capture!", want: "cats-capture"},
		{name: "hyphens and spaces collapse", input: "  A -  Rank   Mission ", want: "a-rank-mission"},
		{name: "accents are folded", input: "Técnica Prohibida", want: "tecnica-prohibida"},
		{name: "digits are kept", input: "Win 3 Duels", want: "win-3-duels"},
		{name: "apostrophe keeps the word whole", input: "Cat's Capture", want: "cats-capture"},
		{name: "symbol between spaces is dropped", input: "Cat & Mouse", want: "cat-mouse"},
		{name: "underscores are dropped", input: "snake_case", want: "snakecase"},
		{name: "empty title", input: "", want: "item"},
		{name: "only symbols", input: "!!!", want: "item"},
		{name: "non latin script", input: "忍者", want: "item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSessionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "/missions/a-rank-missions", want: "a-rank-missions"},
		{input: "missions/a-rank-missions/", want: "a-rank-missions"},
		{input: "a-rank-missions", want: "a-rank-missions"},
		{input: "/missions/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeSessionID(tt.input); got != tt.want {
				t.Errorf("NormalizeSessionID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMissionIDFromLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "/mission/cat-capture", want: "cat-capture"},
		{input: "mission/cat-capture", want: "cat-capture"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := MissionIDFromLink(tt.input); got != tt.want {
				t.Errorf("MissionIDFromLink(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
