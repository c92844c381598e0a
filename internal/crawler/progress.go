package crawler

// Progress receives crawl milestones for operator feedback.
// MissionStarted may be called from several goroutines when missions are
// fetched concurrently.
type Progress interface {
	SessionStarted(sessionID string, index, total int)
	MissionStarted(sessionID, missionID string, index, total int)
}

type noopProgress struct{}

func (noopProgress) SessionStarted(string, int, int)         {}
func (noopProgress) MissionStarted(string, string, int, int) {}
