// Package models defines data structures for the Plagiarism Review Service.
// This package contains the typed view of the detection engine's API payloads,
// the aggregated structures handed to the host renderer, and the check task
// records managed locally.
package models

import (
	"time"
)

// Detection Engine Payloads

// ContestSummary describes one contest as reported by the detection engine.
// Produced fresh on every fetch; never persisted by this service.
type ContestSummary struct {
	ID                  string `json:"id" validate:"required"`                 // Contest identifier
	Title               string `json:"title"`                                  // Contest title for display
	BeginAt             string `json:"begin_at,omitempty"`                     // Contest window start (ISO-8601, as received)
	EndAt               string `json:"end_at,omitempty"`                       // Contest window end (ISO-8601, as received)
	CheckedProblems     int    `json:"checked_problems" validate:"min=0"`      // Number of problems already analyzed
	TotalSubmissions    int    `json:"total_submissions" validate:"min=0"`     // Submissions across all checked problems
	HighSimilarityCount int    `json:"high_similarity_count" validate:"min=0"` // Pairs flagged above the engine's threshold
	LastCheckAt         string `json:"last_check_at,omitempty"`                // Most recent check (ISO-8601, as received)

	// Enriched locally from the raw timestamp fields; never part of the
	// engine payload.
	BeginTime     *time.Time `json:"begin_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	LastCheckTime *time.Time `json:"last_check_time,omitempty"`
}

// ProblemSummary describes one problem of a contest. The contest is referenced
// by id only; this layer never owns contest records.
type ProblemSummary struct {
	ID          int64  `json:"id"`                      // Problem identifier within the contest
	ContestID   string `json:"contest_id,omitempty"`    // Owning contest reference
	Title       string `json:"title"`                   // Problem title for display
	LastCheckAt string `json:"last_check_at,omitempty"` // Most recent check (ISO-8601, as received)

	LastCheckTime *time.Time `json:"last_check_time,omitempty"` // Enriched locally

	// PlagiarismResult is nil until the per-problem result fetch succeeds.
	// A failed fetch leaves it nil; the page is still rendered.
	PlagiarismResult *PlagiarismResult `json:"plagiarism_result,omitempty"`
}

// PlagiarismResult is the detection engine's result for one problem: the
// ordered set of submission pairs it judged similar.
type PlagiarismResult struct {
	Pairs     []SimilarityPair `json:"high_similarity_pairs"` // Pairs in engine discovery order
	CheckedAt string           `json:"checked_at,omitempty"`  // When the engine produced this result
}

// SubmissionSummary holds per-side size information for a compared submission.
type SubmissionSummary struct {
	FileCount   int `json:"file_count" validate:"min=0"`   // Source files in the submission
	TotalTokens int `json:"total_tokens" validate:"min=0"` // Token count over all files
}

// CodeLine is one line of an annotated source listing.
type CodeLine struct {
	Content string `json:"content"`  // Line text, without trailing newline
	IsMatch bool   `json:"is_match"` // Whether the line is part of a matched span
}

// SimilarityPair is one compared submission couple for one problem. The
// Similarities map carries the engine's per-metric scores and always contains
// an "AVG" entry when any score is present; AVG is the ranking key.
type SimilarityPair struct {
	FirstUserID      string             `json:"first_user_id" validate:"required"`
	SecondUserID     string             `json:"second_user_id" validate:"required"`
	Language         string             `json:"language,omitempty"` // Engine attribution; empty when the engine cannot attribute
	Similarities     map[string]float64 `json:"similarities" validate:"omitempty,dive,gte=0,lte=1"`
	MatchedTokens    int                `json:"matched_tokens" validate:"min=0"`    // Tokens shared between the two submissions
	TotalComparisons int                `json:"total_comparisons" validate:"min=0"` // Pairwise comparisons the engine considered
	MatchLength      int                `json:"match_length" validate:"min=0"`      // Longest matched token run
	FirstSubmission  SubmissionSummary  `json:"first_submission"`
	SecondSubmission SubmissionSummary  `json:"second_submission"`
	FirstCodeLines   []CodeLine         `json:"first_code_lines,omitempty"`
	SecondCodeLines  []CodeLine         `json:"second_code_lines,omitempty"`
}

// AvgMetric is the engine's aggregate similarity metric used for ranking.
const AvgMetric = "AVG"

// AvgSimilarity returns the pair's aggregate similarity score, or 0 when the
// engine reported no scores.
func (p SimilarityPair) AvgSimilarity() float64 {
	return p.Similarities[AvgMetric]
}

// LanguageStat is the engine's per-language submission breakdown for a problem.
type LanguageStat struct {
	Language        string `json:"language" validate:"required"` // Language code (e.g. "cc", "py")
	CanAnalyze      bool   `json:"can_analyze"`                  // Whether the engine supports this language
	SubmissionCount int    `json:"submission_count" validate:"min=0"`
	UniqueUsers     int    `json:"unique_users" validate:"min=0"`
}

// Aggregated Structures (produced for the host renderer)

// LanguageResult combines a language's submission stats with the similarity
// pairs attributed to it, ranked by AVG similarity descending.
type LanguageResult struct {
	Language        string           `json:"language"`         // Language code
	DisplayName     string           `json:"language_display"` // Human display name from the catalog
	Icon            string           `json:"language_icon"`    // Display icon from the catalog
	SubmissionCount int              `json:"submission_count"`
	UniqueUsers     int              `json:"unique_users"`
	Pairs           []SimilarityPair `json:"similarity_pairs"` // Descending by AVG, stable on ties
	AvgSimilarity   float64          `json:"avg_similarity"`   // Mean of Pairs' AVG scores, 0 when empty
}

// CountPair is a total/subset counter used inside SystemStats.
type CountPair struct {
	Total   int `json:"total"`
	Checked int `json:"checked"`
}

// LanguageCounts summarizes the language catalog for the overview page.
type LanguageCounts struct {
	Supported int `json:"supported"` // Languages in the catalog
	Active    int `json:"active"`    // Languages the engine can analyze
}

// HistoryCounts summarizes check history for the overview page.
type HistoryCounts struct {
	Total  int `json:"total"`  // Checked problems across all contests
	Recent int `json:"recent"` // Contests checked within the recency window
}

// SystemStats is the system-wide summary shown on the overview page. All
// fields are plain sums/counts over the fetched contest list; an empty list
// yields the zero value.
type SystemStats struct {
	TotalContests       int            `json:"total_contests"`
	TotalProblems       int            `json:"total_problems"`    // Sum of checked_problems
	TotalSubmissions    int            `json:"total_submissions"` // Sum across contests
	HighSimilarityCount int            `json:"high_similarity_count"`
	ContestStats        CountPair      `json:"contest_stats"`
	LanguageStats       LanguageCounts `json:"language_stats"`
	HistoryStats        HistoryCounts  `json:"history_stats"`
}

// Activity is one entry of the overview page's recent activity feed.
type Activity struct {
	Type        string `json:"type"`        // Activity kind, currently always "contest_check"
	Title       string `json:"title"`       // e.g. "Checked contest Weekly Round 12"
	Description string `json:"description"` // e.g. "Analyzed 5 problems"
	TimeAgo     string `json:"time_ago"`    // Coarse relative label from the last check instant
}

// Page Payloads

// OverviewPage is the aggregate behind GET /plagiarism.
type OverviewPage struct {
	Stats            SystemStats `json:"stats"`
	RecentActivities []Activity  `json:"recent_activities"`
}

// ContestDetailPage is the aggregate behind GET /plagiarism/contest/{id}.
type ContestDetailPage struct {
	Contest             ContestSummary   `json:"contest"`
	Problems            []ProblemSummary `json:"problems"`
	TotalHighSimilarity int              `json:"total_high_similarity"` // Pair count over all problem results
	AvgSimilarity       *float64         `json:"avg_similarity"`        // Mean AVG over all pairs; nil when no scored pairs exist
}

// ProblemDetailPage is the aggregate behind GET /plagiarism/contest/{cid}/{pid}.
type ProblemDetailPage struct {
	Contest         ContestSummary   `json:"contest"`
	Problem         ProblemSummary   `json:"problem"`
	LanguageResults []LanguageResult `json:"language_results"`
}

// Check Tasks

// Check task lifecycle states.
const (
	TaskStatusSubmitted = "submitted" // Accepted by the engine, awaiting completion
	TaskStatusFailed    = "failed"    // The engine rejected the submission
)

// CheckTaskRequest is the administrator's request to start a new plagiarism
// check for a contest (optionally narrowed to one problem or language).
type CheckTaskRequest struct {
	ContestID string `json:"contest_id" validate:"required"`
	ProblemID int64  `json:"problem_id,omitempty" validate:"min=0"` // 0 checks the whole contest
	Language  string `json:"language,omitempty"`                    // Empty checks all analyzable languages
}

// CheckTask records a plagiarism check submitted to the detection engine.
// Stored locally so administrators can review what was requested and when.
type CheckTask struct {
	ID        string    `json:"id" db:"id"`                 // Local task identifier (UUID)
	ContestID string    `json:"contest_id" db:"contest_id"` // Target contest
	ProblemID int64     `json:"problem_id" db:"problem_id"` // Target problem, 0 for whole contest
	Language  string    `json:"language,omitempty" db:"language"`
	Status    string    `json:"status" db:"status"` // TaskStatusSubmitted or TaskStatusFailed
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Error Response

// ErrorResponse represents a standardized error response structure.
// Used to return consistent error information to API clients.
type ErrorResponse struct {
	Error ErrorDetails `json:"error"` // Detailed error information
}

// ErrorDetails contains specific error information including codes and messages.
type ErrorDetails struct {
	Code      string `json:"code"`                 // Machine-readable error code
	Message   string `json:"message"`              // Human-readable error description
	RequestID string `json:"request_id,omitempty"` // Request ID for error correlation
}
