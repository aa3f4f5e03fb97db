package engine

import (
	"fmt"

	"github.com/akashvinod-2003/empmanage/internal/shared/config"
)

// LeaveSignals is the bounded snapshot the recommendation scorer works
// from. The service layer gathers it; the scorer never reads storage.
type LeaveSignals struct {
	Balance           int // remaining leave days
	DaysRequested     int
	ApprovedRequests  int // decided history inside the lookback window
	DecidedRequests   int
	DepartmentSize    int // peers in the requester's department, requester excluded
	DepartmentOnLeave int // peers with approved leave overlapping the requested span
}

type RecommendationLabel string

const (
	LabelRecommend  RecommendationLabel = "RECOMMEND"
	LabelCaution    RecommendationLabel = "CAUTION"
	LabelDiscourage RecommendationLabel = "DISCOURAGE"
)

type LeaveAssessment struct {
	Score   float64
	Label   RecommendationLabel
	Reasons []string
}

// RecommendLeave scores a leave request in [0,1]. The score is advisory
// only; the approval state machine never decides from it.
func RecommendLeave(cfg config.Engine, in LeaveSignals) LeaveAssessment {
	balanceRatio := 0.0
	if in.Balance+in.DaysRequested > 0 {
		balanceRatio = float64(in.Balance) / float64(in.Balance+in.DaysRequested)
	}

	// Neutral prior when the employee has no decided history.
	approvalRate := 0.5
	if in.DecidedRequests > 0 {
		approvalRate = float64(in.ApprovedRequests) / float64(in.DecidedRequests)
	}

	teamFraction := 0.0
	if in.DepartmentSize > 0 {
		teamFraction = float64(in.DepartmentOnLeave) / float64(in.DepartmentSize)
	}

	availability := 1.0
	if teamFraction >= cfg.DepartmentCapacity {
		availability = 0.15
	} else if cfg.DepartmentCapacity > 0 {
		penalty := teamFraction / cfg.DepartmentCapacity
		availability = 1 - 0.7*penalty*penalty
	}

	score := clamp01((0.6*balanceRatio + 0.4*approvalRate) * availability)

	label := LabelDiscourage
	switch {
	case score >= 0.65:
		label = LabelRecommend
	case score >= 0.35:
		label = LabelCaution
	}

	reasons := []string{
		fmt.Sprintf("balance of %d day(s) against %d requested", in.Balance, in.DaysRequested),
	}
	if in.DecidedRequests > 0 {
		reasons = append(reasons, fmt.Sprintf("%d of %d prior request(s) approved", in.ApprovedRequests, in.DecidedRequests))
	} else {
		reasons = append(reasons, "no prior leave decisions on record")
	}
	switch {
	case in.DepartmentSize == 0:
		reasons = append(reasons, "no department peers to consider")
	case teamFraction >= cfg.DepartmentCapacity:
		reasons = append(reasons, fmt.Sprintf("department at %.0f%% overlapping leave, over the %.0f%% capacity limit",
			teamFraction*100, cfg.DepartmentCapacity*100))
	default:
		reasons = append(reasons, fmt.Sprintf("%d of %d department peer(s) on overlapping leave",
			in.DepartmentOnLeave, in.DepartmentSize))
	}

	return LeaveAssessment{Score: score, Label: label, Reasons: reasons}
}
