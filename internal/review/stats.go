// Package review implements the result aggregation and ranking core of the
// Plagiarism Review Service. It merges per-contest, per-problem, and
// per-language data fetched from the detection engine into the summary
// structures the host renderer displays.
package review

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"plagiarism-review/pkg/languages"
	"plagiarism-review/pkg/models"
	"plagiarism-review/pkg/timeutil"
)

// SystemStats computes the system-wide summary over the fetched contest list.
// An empty or nil list yields zero counts; the language section always
// reflects the catalog. No division happens anywhere in here.
func SystemStats(contests []models.ContestSummary, catalog *languages.Catalog, now time.Time) models.SystemStats {
	stats := models.SystemStats{
		TotalContests: len(contests),
		ContestStats:  models.CountPair{Total: len(contests)},
		LanguageStats: models.LanguageCounts{
			Supported: catalog.Supported(),
			Active:    catalog.Analyzable(),
		},
	}

	for _, contest := range contests {
		stats.TotalProblems += contest.CheckedProblems
		stats.TotalSubmissions += contest.TotalSubmissions
		stats.HighSimilarityCount += contest.HighSimilarityCount

		if contest.CheckedProblems > 0 {
			stats.ContestStats.Checked++
		}

		if t, ok := timeutil.Parse(contest.LastCheckAt); ok && timeutil.IsRecent(t, now) {
			stats.HistoryStats.Recent++
		}
	}

	stats.HistoryStats.Total = stats.TotalProblems
	return stats
}

// RecentActivities renders the last limit checked contests, in input order,
// as human-readable activity entries. Contests without a last-check instant
// are skipped; the remainder keeps the engine's ordering (no re-sort by
// recency).
func RecentActivities(contests []models.ContestSummary, limit int, now time.Time) []models.Activity {
	checked := make([]models.ContestSummary, 0, len(contests))
	for _, contest := range contests {
		if contest.LastCheckAt != "" {
			checked = append(checked, contest)
		}
	}

	if limit > 0 && len(checked) > limit {
		checked = checked[len(checked)-limit:]
	}

	activities := make([]models.Activity, 0, len(checked))
	for _, contest := range checked {
		t, _ := timeutil.Parse(contest.LastCheckAt)
		activities = append(activities, models.Activity{
			Type:        "contest_check",
			Title:       fmt.Sprintf("Checked contest %s", contest.Title),
			Description: fmt.Sprintf("Analyzed %d problems", contest.CheckedProblems),
			TimeAgo:     timeutil.TimeAgo(t, now),
		})
	}

	return activities
}

// ContestAverageSimilarity flattens every pair's AVG score across every
// problem's plagiarism result and returns the arithmetic mean. The second
// return value is false when no scored pairs exist anywhere.
func ContestAverageSimilarity(problems []models.ProblemSummary) (float64, bool) {
	var scores []float64
	for _, problem := range problems {
		if problem.PlagiarismResult == nil {
			continue
		}
		for _, pair := range problem.PlagiarismResult.Pairs {
			if avg, ok := pair.Similarities[models.AvgMetric]; ok {
				scores = append(scores, avg)
			}
		}
	}

	if len(scores) == 0 {
		return 0, false
	}
	return stat.Mean(scores, nil), true
}
