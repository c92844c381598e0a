package heuristic

import "testing"

func TestClean(t *testing.T) {
	t.Parallel()

	if got := Clean("  Win\n\t3   duels  "); got != "Win 3 duels" {
		t.Errorf("Clean() = %q", got)
	}
}

func TestIsCompleted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{text: "Win 3 duels (8/8)", want: true},
		{text: "Win 3 duels (3/8)", want: false},
		{text: "Win 3 duels ( 8 / 8 )", want: true},
		{text: "Win 3 duels", want: false},
		{text: "Use 5 jutsu (2/5) then (5/5)", want: true},
		{text: "Win (18/8) duels", want: false},
		{text: "Win (08/8) duels", want: true},
		{text: "Ratio 8/8 without parens", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			if got := IsCompleted(tt.text); got != tt.want {
				t.Errorf("IsCompleted(%q) = %v, want %v", tt.text, got, tt.want)
			}
			// Repeated calls must agree.
			if got := IsCompleted(tt.text); got != tt.want {
				t.Errorf("second IsCompleted(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestStartsWithGoalVerb(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{text: "Win a match", want: true},
		{text: "DEFEAT Itachi", want: true},
		{text: "get 3 kills", want: true},
		{text: "Winner takes all", want: false},
		{text: "Please win a match", want: false},
		{text: "Earn", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			if got := StartsWithGoalVerb(tt.text); got != tt.want {
				t.Errorf("StartsWithGoalVerb(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRequirements(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "stops at period", text: "Mission Rank: At least Chunin. Unlocks: Tora", want: "Rank: At least Chunin"},
		{name: "case insensitive", text: "rank: at least Jounin", want: "rank: at least Jounin"},
		{name: "absent", text: "Unlocks: Tora", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Requirements(tt.text); got != tt.want {
				t.Errorf("Requirements() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReward(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "unlocks label", text: "Unlocks: Tora", want: "Tora"},
		{name: "reward label", text: "Reward : Kakashi (S)", want: "Kakashi"},
		{name: "keeps allowed punctuation", text: "unlocks: Might Guy's Border.v2", want: "Might Guy's Border.v2"},
		{name: "absent", text: "Rank: At least Genin", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Reward(tt.text); got != tt.want {
				t.Errorf("Reward() = %q, want %q", got, tt.want)
			}
		})
	}
}
