package pagestate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleState() map[string]any {
	return map[string]any{
		"rewardText": nil,
		"reward":     "",
		"mission": map[string]any{
			"reward":            "Tora",
			"unlockedCharacter": "Kakashi",
			"goals":             []any{"Win 3 duels (3/8)"},
		},
		"list": []any{map[string]any{"name": "first"}},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []Path
		fallback any
		want     any
	}{
		{
			name:     "skips null value",
			paths:    []Path{{"rewardText"}, {"mission", "reward"}},
			fallback: "none",
			want:     "Tora",
		},
		{
			name:     "empty string counts as present",
			paths:    []Path{{"reward"}, {"mission", "reward"}},
			fallback: "none",
			want:     "",
		},
		{
			name:     "missing intermediate does not panic",
			paths:    []Path{{"missionStatus", "unlockedChar", "name"}, {"mission", "unlockedCharacter"}},
			fallback: "none",
			want:     "Kakashi",
		},
		{
			name:     "walk through scalar fails",
			paths:    []Path{{"mission", "reward", "name"}},
			fallback: "none",
			want:     "none",
		},
		{
			name:     "array index",
			paths:    []Path{{"list", "0", "name"}},
			fallback: nil,
			want:     "first",
		},
		{
			name:     "array index out of range",
			paths:    []Path{{"list", "3", "name"}},
			fallback: "none",
			want:     "none",
		},
		{
			name:     "no paths",
			paths:    nil,
			fallback: 42.0,
			want:     42.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(sampleState(), tt.paths, tt.fallback)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveAbsentFirstSegments(t *testing.T) {
	t.Parallel()

	objects := []any{nil, "text", 3.0, []any{}, map[string]any{}, sampleState()}
	paths := []Path{{"absent"}, {"alsoAbsent", "deeper"}, {"nope", "0"}}

	for _, obj := range objects {
		if got := Resolve(obj, paths, "fallback"); got != "fallback" {
			t.Errorf("Resolve(%v) = %v, want fallback", obj, got)
		}
	}
}

func TestMapAndSlice(t *testing.T) {
	t.Parallel()

	state := sampleState()

	if m := Map(state, Path{"mission"}); m["reward"] != "Tora" {
		t.Errorf("unexpected map: %v", m)
	}
	if m := Map(state, Path{"reward"}); m != nil {
		t.Errorf("expected nil map for string value, got %v", m)
	}
	if s := Slice(state, Path{"goals"}, Path{"mission", "goals"}); len(s) != 1 {
		t.Errorf("expected one goal, got %v", s)
	}
	if s := Slice(state, Path{"mission"}); s != nil {
		t.Errorf("expected nil slice for object value, got %v", s)
	}
}

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "string", in: "Tora", want: "Tora"},
		{name: "integer number", in: 12.0, want: "12"},
		{name: "fractional number", in: 1.5, want: "1.5"},
		{name: "bool", in: true, want: "true"},
		{name: "named object", in: map[string]any{"name": "Kakashi"}, want: "Kakashi"},
		{name: "unnamed object", in: map[string]any{"id": 1.0}, want: ""},
		{name: "nil", in: nil, want: ""},
		{name: "array", in: []any{"a"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	truthy := []any{true, 1.0, "x", map[string]any{}, []any{}}
	falsy := []any{nil, false, 0.0, ""}

	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%v) = false, want true", v)
		}
	}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%v) = true, want false", v)
		}
	}
}
