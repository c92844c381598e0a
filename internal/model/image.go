package model

import (
	"net/url"
	"path"
	"strings"
)

// defaultImageExt is used when the remote file name has no extension.
const defaultImageExt = ".jpg"

// ImageRef pairs a remote image with the local file it should be saved as.
type ImageRef struct {
	URL  string `json:"url"`
	File string `json:"file"`
}

// ImageFileName derives the local file name for a remote image.
//
// The result is "<prefix>__<name><ext>" where name is the last path segment
// of rawURL without query or fragment, and ext is its extension or ".jpg".
func ImageFileName(prefix, rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	name := path.Base(p)
	if name == "." || name == "/" {
		name = ""
	}

	ext := path.Ext(name)
	if ext == "" {
		ext = defaultImageExt
	}
	return prefix + "__" + strings.TrimSuffix(name, path.Ext(name)) + ext
}

// NewImageRef builds an ImageRef stored under dir.
// It returns nil when rawURL is empty so the field encodes as null.
func NewImageRef(dir, prefix, rawURL string) *ImageRef {
	if rawURL == "" {
		return nil
	}
	return &ImageRef{
		URL:  rawURL,
		File: path.Join(dir, ImageFileName(prefix, rawURL)),
	}
}

// SessionImagePrefix is the file prefix for a session header image.
func SessionImagePrefix(sessionID string) string {
	return "session__" + sessionID
}

// MissionImagePrefix is the file prefix for a mission thumbnail.
func MissionImagePrefix(sessionID, missionID string) string {
	return sessionID + "__" + missionID + "__mission"
}

// RewardImagePrefix is the file prefix for a mission reward image.
func RewardImagePrefix(sessionID, missionID string) string {
	return sessionID + "__" + missionID + "__reward"
}

// Manifest collects every image referenced by d in document order.
// Entries with the same URL and file are listed once.
func Manifest(d *Document) []ImageRef {
	seen := make(map[ImageRef]bool)
	refs := make([]ImageRef, 0)
	add := func(ref *ImageRef) {
		if ref == nil || seen[*ref] {
			return
		}
		seen[*ref] = true
		refs = append(refs, *ref)
	}

	for _, s := range d.Sessions {
		add(s.Image)
		for _, m := range s.Missions {
			add(m.Images.Mission)
			add(m.Images.Reward)
		}
	}
	return refs
}
