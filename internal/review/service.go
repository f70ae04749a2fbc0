package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"plagiarism-review/pkg/config"
	"plagiarism-review/pkg/db"
	"plagiarism-review/pkg/languages"
	"plagiarism-review/pkg/logger"
	"plagiarism-review/pkg/models"
	"plagiarism-review/pkg/timeutil"
)

// ErrNotFound is returned when a referenced contest or problem id does not
// exist in the data fetched from the engine. The handler layer maps it to a
// not-found page; everything else degrades to partial data.
var ErrNotFound = errors.New("not found")

// EngineClient is the slice of the detection engine client the service
// consumes. Every call is independently fallible; the service treats each
// failure in isolation and continues with whatever data succeeded.
type EngineClient interface {
	Contests(ctx context.Context) ([]models.ContestSummary, error)
	Problems(ctx context.Context, contestID string) ([]models.ProblemSummary, error)
	PlagiarismResult(ctx context.Context, contestID string, problemID int64) (*models.PlagiarismResult, error)
	LanguageStats(ctx context.Context, contestID string, problemID int64) ([]models.LanguageStat, error)
	SubmitCheck(ctx context.Context, req models.CheckTaskRequest) error
}

// Service builds the aggregation graph for each administrator request. It
// holds no mutable state between requests; every page view starts from
// freshly fetched data.
type Service struct {
	cfg      *config.Config
	client   EngineClient
	catalog  *languages.Catalog
	tasks    *db.TaskStore
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates a review service over the given engine client, language
// catalog, and task store.
func NewService(cfg *config.Config, client EngineClient, catalog *languages.Catalog, tasks *db.TaskStore) *Service {
	return &Service{
		cfg:      cfg,
		client:   client,
		catalog:  catalog,
		tasks:    tasks,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Overview assembles the system overview page: system-wide statistics plus
// the recent activity feed. A failed contest fetch degrades to zero stats;
// the page always renders.
func (s *Service) Overview(ctx context.Context) models.OverviewPage {
	contests, err := s.client.Contests(ctx)
	if err != nil {
		logger.NewCategoryLogger(logger.Client).Warn().Err(err).Msg("Failed to fetch contests, rendering empty overview")
		contests = nil
	}

	now := s.now()
	return models.OverviewPage{
		Stats:            SystemStats(contests, s.catalog, now),
		RecentActivities: RecentActivities(contests, s.cfg.ActivityLimit, now),
	}
}

// ContestList returns every contest with plagiarism data, timestamp fields
// normalized for display. A failed fetch yields an empty list.
func (s *Service) ContestList(ctx context.Context) []models.ContestSummary {
	contests, err := s.client.Contests(ctx)
	if err != nil {
		logger.NewCategoryLogger(logger.Client).Warn().Err(err).Msg("Failed to fetch contest list")
		return []models.ContestSummary{}
	}

	for i := range contests {
		enrichContestTimes(&contests[i])
	}
	return contests
}

// ContestDetail assembles the contest detail page: the contest's problems,
// each with its plagiarism result, plus cross-problem summary figures.
// Per-problem result fetches run concurrently and merge by problem position,
// so the output is deterministic regardless of completion order. A failed
// sub-fetch leaves that problem's result absent; the page still renders.
func (s *Service) ContestDetail(ctx context.Context, contestID string) (*models.ContestDetailPage, error) {
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	problems := s.contestProblems(ctx, contestID)

	totalHigh := 0
	for _, problem := range problems {
		if problem.PlagiarismResult != nil {
			totalHigh += len(problem.PlagiarismResult.Pairs)
		}
	}

	page := &models.ContestDetailPage{
		Contest:             *contest,
		Problems:            problems,
		TotalHighSimilarity: totalHigh,
	}
	if avg, ok := ContestAverageSimilarity(problems); ok {
		page.AvgSimilarity = &avg
	}
	return page, nil
}

// ProblemDetail assembles the problem detail page: per-language results built
// from the engine's language stats and plagiarism result for the problem.
func (s *Service) ProblemDetail(ctx context.Context, contestID string, problemID int64) (*models.ProblemDetailPage, error) {
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	problem, err := s.findProblem(ctx, contestID, problemID)
	if err != nil {
		return nil, err
	}

	clientLogger := logger.WithContestID(contestID)

	stats, err := s.client.LanguageStats(ctx, contestID, problemID)
	if err != nil {
		clientLogger.Warn().Err(err).Int64("problem_id", problemID).Msg("Failed to fetch language stats")
		stats = nil
	}

	result, err := s.client.PlagiarismResult(ctx, contestID, problemID)
	if err != nil {
		clientLogger.Warn().Err(err).Int64("problem_id", problemID).Msg("Failed to fetch plagiarism result")
		result = nil
	}

	var candidates []models.SimilarityPair
	if result != nil {
		candidates = result.Pairs
	}

	return &models.ProblemDetailPage{
		Contest:         *contest,
		Problem:         *problem,
		LanguageResults: BuildLanguageResults(stats, result, candidates, s.catalog),
	}, nil
}

// CreateCheckTask validates and forwards a check request to the detection
// engine, then records the submission locally. The record is kept even when
// the engine rejects the submission, with a failed status.
func (s *Service) CreateCheckTask(ctx context.Context, req models.CheckTaskRequest) (*models.CheckTask, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("invalid check request: %w", err)
	}

	now := s.now().UTC()
	task := &models.CheckTask{
		ID:        uuid.New().String(),
		ContestID: req.ContestID,
		ProblemID: req.ProblemID,
		Language:  req.Language,
		Status:    models.TaskStatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	taskLogger := logger.NewCategoryLogger(logger.Task)

	submitErr := s.client.SubmitCheck(ctx, req)
	if submitErr != nil {
		task.Status = models.TaskStatusFailed
		taskLogger.Error().Err(submitErr).Str("contest_id", req.ContestID).Msg("Detection engine rejected check submission")
	}

	if err := s.tasks.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to record check task: %w", err)
	}

	if submitErr != nil {
		return task, fmt.Errorf("check submission failed: %w", submitErr)
	}

	taskLogger.Info().
		Str("task_id", task.ID).
		Str("contest_id", task.ContestID).
		Int64("problem_id", task.ProblemID).
		Msg("Check task submitted")
	return task, nil
}

// RecentTasks lists the most recently submitted check tasks, newest first.
func (s *Service) RecentTasks(limit int) ([]models.CheckTask, error) {
	tasks, err := s.tasks.ListRecentTasks(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list check tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.CheckTask{}
	}
	return tasks, nil
}

// findContest locates a contest by id within the freshly fetched contest set.
// A fetch failure or an unknown id both surface as ErrNotFound.
func (s *Service) findContest(ctx context.Context, contestID string) (*models.ContestSummary, error) {
	contests, err := s.client.Contests(ctx)
	if err != nil {
		logger.WithContestID(contestID).Warn().Err(err).Msg("Failed to fetch contests for lookup")
		return nil, fmt.Errorf("contest %s: %w", contestID, ErrNotFound)
	}

	for i := range contests {
		if contests[i].ID == contestID {
			enrichContestTimes(&contests[i])
			return &contests[i], nil
		}
	}
	return nil, fmt.Errorf("contest %s: %w", contestID, ErrNotFound)
}

// findProblem locates a problem by id within a contest's problem list.
func (s *Service) findProblem(ctx context.Context, contestID string, problemID int64) (*models.ProblemSummary, error) {
	problems, err := s.client.Problems(ctx, contestID)
	if err != nil {
		logger.WithContestID(contestID).Warn().Err(err).Msg("Failed to fetch problems for lookup")
		return nil, fmt.Errorf("problem %d: %w", problemID, ErrNotFound)
	}

	for i := range problems {
		if problems[i].ID == problemID {
			problems[i].LastCheckTime = timeutil.ParsePtr(problems[i].LastCheckAt)
			return &problems[i], nil
		}
	}
	return nil, fmt.Errorf("problem %d: %w", problemID, ErrNotFound)
}

// contestProblems fetches a contest's problems and fans out one plagiarism
// result fetch per problem, bounded by the configured concurrency. Results
// land in the problem slice by index, keeping the merge deterministic.
func (s *Service) contestProblems(ctx context.Context, contestID string) []models.ProblemSummary {
	clientLogger := logger.WithContestID(contestID)

	problems, err := s.client.Problems(ctx, contestID)
	if err != nil {
		clientLogger.Warn().Err(err).Msg("Failed to fetch contest problems")
		return []models.ProblemSummary{}
	}

	for i := range problems {
		problems[i].LastCheckTime = timeutil.ParsePtr(problems[i].LastCheckAt)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.cfg.FetchConcurrency)

	for i := range problems {
		i := i
		group.Go(func() error {
			result, err := s.client.PlagiarismResult(groupCtx, contestID, problems[i].ID)
			if err != nil {
				// Partial data: this problem renders without a result.
				clientLogger.Warn().Err(err).Int64("problem_id", problems[i].ID).Msg("Failed to fetch plagiarism result")
				return nil
			}
			problems[i].PlagiarismResult = result
			return nil
		})
	}

	// Goroutines never return errors; Wait only observes context cancellation.
	_ = group.Wait()

	return problems
}

// enrichContestTimes populates the parsed time fields from the engine's raw
// timestamp strings. Unparseable values stay nil.
func enrichContestTimes(contest *models.ContestSummary) {
	contest.BeginTime = timeutil.ParsePtr(contest.BeginAt)
	contest.EndTime = timeutil.ParsePtr(contest.EndAt)
	contest.LastCheckTime = timeutil.ParsePtr(contest.LastCheckAt)
}
