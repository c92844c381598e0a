package crawler

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/missionscan/internal/heuristic"
	"github.com/nao1215/missionscan/internal/model"
	"github.com/nao1215/missionscan/internal/pagestate"
)

// Field paths of a mission detail page, relative to pageProps. Each list
// covers every layout the site has shipped, newest last.
var (
	requirementPaths = []pagestate.Path{
		{"requirementsText"},
		{"requirements"},
		{"mission", "requirements"},
	}
	rankRequirementPath = pagestate.Path{"missionStatus", "rankRequirement"}

	rewardPaths = []pagestate.Path{
		{"rewardText"},
		{"reward"},
		{"mission", "reward"},
		{"mission", "unlockedCharacter"},
		{"missionStatus", "unlockedChar", "name"},
		{"missionStatus", "unlockedBorder", "name"},
	}

	rewardImagePaths = []pagestate.Path{
		{"rewardImageUrl"},
		{"mission", "rewardImageUrl"},
		{"mission", "rewardImage"},
		{"missionStatus", "unlockedChar", "url"},
		{"missionStatus", "unlockedBorder", "url"},
	}

	goalPaths = []pagestate.Path{
		{"goals"},
		{"mission", "goals"},
		{"missionGoals"},
		{"missionStatus", "progress"},
	}

	goalTextPaths = []pagestate.Path{{"text"}, {"description"}}
	goalDonePaths = []pagestate.Path{{"isCompleted"}, {"completed"}}
)

// Field paths of a mission summary card.
var (
	cardTitlePaths     = []pagestate.Path{{"name"}, {"title"}}
	cardLinkPaths      = []pagestate.Path{{"linkTo"}}
	cardCompletedPaths = []pagestate.Path{{"completedRequeriments"}, {"completedRequirements"}}
)

const (
	// unknownMissionTitle names a card that carries neither name nor title.
	unknownMissionTitle = "Unknown"

	// rankRequirementLabel prefixes a bare rank from missionStatus.
	rankRequirementLabel = "Rank: At least "
)

// MissionDetail is what a mission detail page yields.
type MissionDetail struct {
	URL            string
	Requirements   string
	Reward         string
	RewardImageURL string

	// Goals is never nil.
	Goals []model.Goal
}

// FetchMission loads and reads one mission detail page.
//
// It never fails. A page that cannot be loaded or read yields a detail with
// empty fields so every summary card still maps to one record.
func (c *Crawler) FetchMission(ctx context.Context, slug string) MissionDetail {
	detail := MissionDetail{
		URL:   c.MissionURL(slug),
		Goals: []model.Goal{},
	}

	if c.fetcher == nil {
		c.logger.Warn("mission page skipped", "url", detail.URL, "error", ErrNoFetcher)
		return detail
	}

	page, err := c.fetcher.Fetch(ctx, detail.URL, c.settle)
	if err != nil {
		c.logger.Warn("mission page unavailable", "url", detail.URL, "error", err)
		return detail
	}
	c.checkRedirect(page)

	if props := pagestate.Map(pagestate.Extract(page.HTML), pagePropsPath); props != nil {
		readStructured(props, &detail)
	}

	if len(detail.Goals) > 0 && detail.Requirements != "" && detail.Reward != "" {
		return detail
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		c.logger.Debug("mission markup unreadable", "url", detail.URL, "error", err)
		return detail
	}

	if len(detail.Goals) == 0 {
		detail.Goals = heuristic.GoalsFromDocument(doc)
	}
	if detail.Requirements == "" || detail.Reward == "" {
		text := heuristic.BodyTextFromDocument(doc)
		if detail.Requirements == "" {
			detail.Requirements = heuristic.Requirements(text)
		}
		if detail.Reward == "" {
			detail.Reward = heuristic.Reward(text)
		}
	}

	c.logger.Debug("mission read with fallbacks",
		"url", detail.URL,
		"goals", len(detail.Goals),
	)
	return detail
}

// readStructured fills detail from the pageProps of a mission page.
func readStructured(props map[string]any, detail *MissionDetail) {
	detail.Requirements = strings.TrimSpace(pagestate.Text(pagestate.Resolve(props, requirementPaths, "")))
	if detail.Requirements == "" {
		if rank := pagestate.Text(pagestate.Resolve(props, []pagestate.Path{rankRequirementPath}, "")); rank != "" {
			detail.Requirements = rankRequirementLabel + rank
		}
	}

	detail.Reward = strings.TrimSpace(pagestate.Text(pagestate.Resolve(props, rewardPaths, "")))
	detail.RewardImageURL = pagestate.Text(pagestate.Resolve(props, rewardImagePaths, ""))
	detail.Goals = structuredGoals(pagestate.Slice(props, goalPaths...))
}

// structuredGoals converts goal entries from the state blob. Entries may be
// plain strings or objects; entries without text are dropped.
func structuredGoals(items []any) []model.Goal {
	goals := make([]model.Goal, 0, len(items))
	for _, item := range items {
		text := heuristic.Clean(pagestate.Text(pagestate.Resolve(item, goalTextPaths, item)))
		if text == "" {
			continue
		}

		done := heuristic.IsCompleted(text)
		if v := pagestate.Resolve(item, goalDonePaths, nil); v != nil {
			done = pagestate.Truthy(v)
		}

		goals = append(goals, model.Goal{Text: text, IsCompleted: done})
	}
	return goals
}

// crawlMission builds the record for one summary card of sp.
func (c *Crawler) crawlMission(ctx context.Context, sp *SessionPage, summary map[string]any, index, total int) model.Mission {
	title := pagestate.Text(pagestate.Resolve(summary, cardTitlePaths, unknownMissionTitle))
	id := model.MissionIDFromLink(pagestate.Text(pagestate.Resolve(summary, cardLinkPaths, "")))
	if id == "" {
		id = model.Slug(title)
	}

	c.progress.MissionStarted(sp.ID, id, index+1, total)

	card := cardFromSummary(summary)
	detail := c.FetchMission(ctx, id)

	reward := detail.Reward
	if reward == "" {
		reward = card.UnlockedCharacter
	}

	return model.Mission{
		ID:      id,
		Title:   title,
		Section: sp.Title,
		Card:    card,
		MissionInfo: model.MissionInfo{
			Name: title,
			Type: sp.Title,
		},
		Requirements: detail.Requirements,
		Reward:       reward,
		Goals:        detail.Goals,
		Images: model.MissionImages{
			Mission: model.NewImageRef(c.imagesDir, model.MissionImagePrefix(sp.ID, id), card.ImageURL),
			Reward:  model.NewImageRef(c.imagesDir, model.RewardImagePrefix(sp.ID, id), detail.RewardImageURL),
		},
		PageURL: detail.URL,
	}
}

// cardFromSummary copies the summary card fields verbatim.
func cardFromSummary(summary map[string]any) model.MissionCard {
	completed := pagestate.Slice(summary, cardCompletedPaths...)
	if completed == nil {
		completed = []any{}
	}

	return model.MissionCard{
		ImageURL:              pagestate.Text(summary["url"]),
		IsAvailable:           pagestate.Truthy(summary["isAvailable"]),
		IsLevelAvailable:      pagestate.Truthy(summary["isLevelAvailable"]),
		IsCompleted:           pagestate.Truthy(summary["isCompleted"]),
		RankRequirement:       pagestate.Text(summary["rankRequirement"]),
		LevelRequirement:      summary["levelRequirement"],
		CompletedRequirements: completed,
		UnlockedCharacter:     pagestate.Text(summary["unlockedCharacter"]),
	}
}
