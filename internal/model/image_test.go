package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImageFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		url    string
		want   string
	}{
		{
			name:   "keeps original extension",
			prefix: "session__a-rank",
			url:    "https://cdn.example.com/img/header.png",
			want:   "session__a-rank__header.png",
		},
		{
			name:   "strips query string",
			prefix: "a-rank__cat__reward",
			url:    "https://cdn.example.com/img/tora.webp?v=3",
			want:   "a-rank__cat__reward__tora.webp",
		},
		{
			name:   "defaults to jpg",
			prefix: "a-rank__cat__mission",
			url:    "https://cdn.example.com/img/thumb",
			want:   "a-rank__cat__mission__thumb.jpg",
		},
		{
			name:   "relative url",
			prefix: "p",
			url:    "/images/missions/cat.gif",
			want:   "p__cat.gif",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ImageFileName(tt.prefix, tt.url); got != tt.want {
				t.Errorf("ImageFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewImageRef(t *testing.T) {
	t.Parallel()

	t.Run("returns nil for empty url", func(t *testing.T) {
		t.Parallel()

		if ref := NewImageRef("missions_out/images", "p", ""); ref != nil {
			t.Errorf("expected nil, got %+v", ref)
		}
	})

	t.Run("joins images directory", func(t *testing.T) {
		t.Parallel()

		ref := NewImageRef("missions_out/images", SessionImagePrefix("a-rank"), "https://x.test/h.png")
		want := &ImageRef{URL: "https://x.test/h.png", File: "missions_out/images/session__a-rank__h.png"}
		if diff := cmp.Diff(want, ref); diff != "" {
			t.Errorf("NewImageRef() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestManifest(t *testing.T) {
	t.Parallel()

	header := &ImageRef{URL: "https://x.test/h.png", File: "img/session__a__h.png"}
	reward := &ImageRef{URL: "https://x.test/tora.png", File: "img/a__cat__reward__tora.png"}

	doc := &Document{
		Sessions: []MissionSession{
			{
				ID:    "a",
				Image: header,
				Missions: []Mission{
					{ID: "cat", Images: MissionImages{Reward: reward}},
					{ID: "cat", Images: MissionImages{Reward: reward}},
					{ID: "dog"},
				},
			},
			{ID: "b"},
		},
	}

	want := []ImageRef{*header, *reward}
	if diff := cmp.Diff(want, Manifest(doc)); diff != "" {
		t.Errorf("Manifest() mismatch (-want +got):\n%s", diff)
	}
}
