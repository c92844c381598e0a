package model

import "time"

// GeneratedAtLayout is the timestamp layout used for Document.GeneratedAt.
// The front end displays the value as-is, so it stays in local time.
const GeneratedAtLayout = "2006-01-02 15:04:05"

// Document is the top-level output of a crawl run.
type Document struct {
	// SourceRoot marks the page the corpus was scraped from.
	SourceRoot string `json:"sourceRoot"`

	// GeneratedAt is the local time the document was created.
	GeneratedAt string `json:"generatedAt"`

	// Sessions holds every crawled session in discovery order.
	// It is never nil so the JSON output is always an array.
	Sessions []MissionSession `json:"sessions"`
}

// NewDocument creates an empty Document stamped with the given time.
func NewDocument(sourceRoot string, now time.Time) *Document {
	return &Document{
		SourceRoot:  sourceRoot,
		GeneratedAt: now.Local().Format(GeneratedAtLayout),
		Sessions:    make([]MissionSession, 0),
	}
}

// AddSession appends a crawled session to the document.
func (d *Document) AddSession(s MissionSession) {
	d.Sessions = append(d.Sessions, s)
}

// MissionCount returns the number of missions across all sessions.
func (d *Document) MissionCount() int {
	n := 0
	for _, s := range d.Sessions {
		n += len(s.Missions)
	}
	return n
}

// MissionSession is one themed listing of missions.
type MissionSession struct {
	// ID is the normalized slug of the session URL.
	ID string `json:"id"`

	// Title is the session name shown on the listing page.
	Title string `json:"title"`

	// Description is the session blurb, possibly empty.
	Description string `json:"description"`

	// URL is the canonical session page.
	URL string `json:"url"`

	// Image is the session header image, nil when the page has none.
	Image *ImageRef `json:"image"`

	// Missions are listed in the order of the session page.
	Missions []Mission `json:"missions"`
}

// Mission is a single completable objective set.
type Mission struct {
	// ID comes from the card link, or a slug of the title.
	// It is unique within its session only.
	ID string `json:"id"`

	Title string `json:"title"`

	// Section is the title of the parent session.
	Section string `json:"section"`

	Card MissionCard `json:"card"`

	MissionInfo MissionInfo `json:"missionInfo"`

	Requirements string `json:"requirements"`

	// Reward falls back to Card.UnlockedCharacter.
	Reward string `json:"reward"`

	// Goals is never nil.
	Goals []Goal `json:"goals"`

	Images MissionImages `json:"images"`

	// PageURL is the mission detail page.
	PageURL string `json:"pageUrl"`
}

// MissionInfo is the name/type pair the front end shows in its mission header.
type MissionInfo struct {
	Name string `json:"Mission name"`
	Type string `json:"Mission type"`
}

// MissionImages groups the two images a mission can carry.
type MissionImages struct {
	Mission *ImageRef `json:"mission"`
	Reward  *ImageRef `json:"reward"`
}

// MissionCard is a verbatim snapshot of the summary card on the session page.
type MissionCard struct {
	ImageURL         string `json:"imageUrl"`
	IsAvailable      bool   `json:"isAvailable"`
	IsLevelAvailable bool   `json:"isLevelAvailable"`
	IsCompleted      bool   `json:"isCompleted"`
	RankRequirement  string `json:"rankRequirement"`

	// LevelRequirement is copied as decoded; nil encodes as null.
	LevelRequirement any `json:"levelRequirement"`

	// CompletedRequirements lists prior missions, kept under the key the
	// front end reads.
	CompletedRequirements []any `json:"completedRequeriments"`

	UnlockedCharacter string `json:"unlockedCharacter"`
}

// Goal is one measurable sub-objective of a mission.
type Goal struct {
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}
