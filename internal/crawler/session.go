package crawler

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/missionscan/internal/model"
	"github.com/nao1215/missionscan/internal/pagestate"
)

// Field paths of a session listing, relative to pageProps.
var (
	pagePropsPath = pagestate.Path{"props", "pageProps"}

	sessionTitlePaths       = []pagestate.Path{{"animeName"}, {"sessionName"}}
	sessionDescriptionPaths = []pagestate.Path{{"animeDescription"}, {"description"}}
	sessionHeaderPaths      = []pagestate.Path{{"randomHeader"}}
	sessionMissionsPaths    = []pagestate.Path{{"animeMissions"}}
)

// SessionPage is what a session listing says about itself.
type SessionPage struct {
	ID             string
	URL            string
	Title          string
	Description    string
	HeaderImageURL string

	// Cards are the raw mission summary objects in listing order.
	Cards []map[string]any
}

// FetchSession loads and reads one session listing.
// It returns an error wrapping ErrNoPageState when the page has no blob.
func (c *Crawler) FetchSession(ctx context.Context, id string) (*SessionPage, error) {
	if c.fetcher == nil {
		return nil, ErrNoFetcher
	}

	sessionURL := c.SessionURL(id)
	page, err := c.fetcher.Fetch(ctx, sessionURL, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	c.checkRedirect(page)

	state := pagestate.Extract(page.HTML)
	if state == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPageState, sessionURL)
	}
	props := pagestate.Map(state, pagePropsPath)

	sp := &SessionPage{
		ID:             id,
		URL:            sessionURL,
		Title:          pagestate.Text(pagestate.Resolve(props, sessionTitlePaths, id)),
		Description:    pagestate.Text(pagestate.Resolve(props, sessionDescriptionPaths, "")),
		HeaderImageURL: pagestate.Text(pagestate.Resolve(props, sessionHeaderPaths, "")),
		Cards:          make([]map[string]any, 0),
	}

	for _, item := range pagestate.Slice(props, sessionMissionsPaths...) {
		card, ok := item.(map[string]any)
		if !ok {
			c.logger.Debug("skipping non-object mission card", "id", id)
			continue
		}
		sp.Cards = append(sp.Cards, card)
	}

	return sp, nil
}

// CrawlSession reads a session listing and every mission it links to.
// Mission failures are absorbed into their records; only a listing failure
// or cancellation is returned.
func (c *Crawler) CrawlSession(ctx context.Context, id string) (model.MissionSession, error) {
	sp, err := c.FetchSession(ctx, id)
	if err != nil {
		return model.MissionSession{}, err
	}

	session := model.MissionSession{
		ID:          sp.ID,
		Title:       sp.Title,
		Description: sp.Description,
		URL:         sp.URL,
		Image:       model.NewImageRef(c.imagesDir, model.SessionImagePrefix(sp.ID), sp.HeaderImageURL),
		Missions:    make([]model.Mission, len(sp.Cards)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, card := range sp.Cards {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			session.Missions[i] = c.crawlMission(gctx, sp, card, i, len(sp.Cards))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return session, err
	}
	if err := ctx.Err(); err != nil {
		return session, err
	}

	return session, nil
}
