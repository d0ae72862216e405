/*
report.go - Candidate grouping and statistics

Batch reporting over the evaluated roster: candidates grouped by official
period (April/October), by track and promotion path, and the summary
statistics the personnel office works from. The non-tenure associate-to-
full path is structurally impossible (no requirement-table row) and has no
bucket here.
*/
package promotion

// PeriodGroups buckets candidates by official promotion period.
type PeriodGroups struct {
	April   []Candidate `json:"april"`
	October []Candidate `json:"october"`
}

// TrackPathGroups buckets candidates by track and promotion path.
type TrackPathGroups struct {
	TenureAssistantToAssociate    []Candidate `json:"tenureAssistantToAssociate"`
	TenureAssociateToFull         []Candidate `json:"tenureAssociateToFull"`
	NonTenureAssistantToAssociate []Candidate `json:"nonTenureAssistantToAssociate"`
}

// PeriodTrackGroups combines both groupings.
type PeriodTrackGroups struct {
	April   TrackPathGroups `json:"april"`
	October TrackPathGroups `json:"october"`
}

// GroupByPeriod splits candidates on the month of their promotion date.
func GroupByPeriod(candidates []Candidate) PeriodGroups {
	var groups PeriodGroups
	for _, c := range candidates {
		if c.Info.NextPromotionDate == nil {
			continue
		}
		switch c.Info.NextPromotionDate.Month() {
		case 4:
			groups.April = append(groups.April, c)
		case 10:
			groups.October = append(groups.October, c)
		}
	}
	return groups
}

// GroupByTrackAndPath splits candidates by regime track and rank path.
func GroupByTrackAndPath(candidates []Candidate) TrackPathGroups {
	var groups TrackPathGroups
	for _, c := range candidates {
		rank, ok := CanonicalRank(c.Faculty.Rank)
		if !ok || c.Info.Requirement == nil {
			continue
		}
		if c.Info.Regime == RegimeNonTenure {
			if rank == RankAssistant {
				groups.NonTenureAssistantToAssociate = append(groups.NonTenureAssistantToAssociate, c)
			}
			continue
		}
		switch rank {
		case RankAssistant:
			groups.TenureAssistantToAssociate = append(groups.TenureAssistantToAssociate, c)
		case RankAssociate:
			groups.TenureAssociateToFull = append(groups.TenureAssociateToFull, c)
		}
	}
	return groups
}

// GroupByPeriodAndTrack applies the track split within each period.
func GroupByPeriodAndTrack(candidates []Candidate) PeriodTrackGroups {
	periods := GroupByPeriod(candidates)
	return PeriodTrackGroups{
		April:   GroupByTrackAndPath(periods.April),
		October: GroupByTrackAndPath(periods.October),
	}
}

// Statistics is the summary the reporting surface presents.
type Statistics struct {
	Total           int               `json:"total"`
	AprilCount      int               `json:"aprilCount"`
	OctoberCount    int               `json:"octoberCount"`
	UrgentCount     int               `json:"urgentCount"`
	RestrictedCount int               `json:"restrictedCount"`
	NextPeriod      Period            `json:"nextPeriod"`
	Groups          PeriodGroups      `json:"groups"`
	GroupsByTrack   PeriodTrackGroups `json:"groupsByTrack"`
	Urgent          []Candidate       `json:"urgentCandidates"`
	Restricted      []Candidate       `json:"restrictedCandidates"`
}

// Statistics summarises a candidate list as of the engine's base date.
// Urgent means the submission deadline is within 30 days and not yet past.
func (e *Engine) Statistics(candidates []Candidate) Statistics {
	groups := GroupByPeriod(candidates)

	var urgent, restricted []Candidate
	for _, c := range candidates {
		if d := c.Info.DaysUntilDeadline; d != nil && *d >= 0 && *d <= 30 {
			urgent = append(urgent, c)
		}
		if c.Info.Restriction.IsRestricted {
			restricted = append(restricted, c)
		}
	}

	return Statistics{
		Total:           len(candidates),
		AprilCount:      len(groups.April),
		OctoberCount:    len(groups.October),
		UrgentCount:     len(urgent),
		RestrictedCount: len(restricted),
		NextPeriod:      NextPeriod(e.base),
		Groups:          groups,
		GroupsByTrack:   GroupByPeriodAndTrack(candidates),
		Urgent:          urgent,
		Restricted:      restricted,
	}
}
