package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagiarism-review/pkg/languages"
	"plagiarism-review/pkg/models"
)

func attributedPair(user string, lang string, avg float64) models.SimilarityPair {
	return models.SimilarityPair{
		FirstUserID:  user,
		SecondUserID: user + "_peer",
		Language:     lang,
		Similarities: map[string]float64{models.AvgMetric: avg},
	}
}

func TestBuildLanguageResults(t *testing.T) {
	catalog := languages.Default()

	t.Run("ranks pairs descending with stable ties", func(t *testing.T) {
		pairs := []models.SimilarityPair{
			attributedPair("u1", "cc", 0.4),
			attributedPair("u2", "cc", 0.9),
			attributedPair("u3", "cc", 0.9),
			attributedPair("u4", "cc", 0.2),
		}
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true, SubmissionCount: 8, UniqueUsers: 4},
		}

		results := BuildLanguageResults(stats, &models.PlagiarismResult{Pairs: pairs}, pairs, catalog)

		require.Len(t, results, 1)
		ranked := results[0].Pairs
		require.Len(t, ranked, 4)
		assert.Equal(t, []float64{0.9, 0.9, 0.4, 0.2}, []float64{
			ranked[0].AvgSimilarity(), ranked[1].AvgSimilarity(),
			ranked[2].AvgSimilarity(), ranked[3].AvgSimilarity(),
		})
		// Tied pairs keep discovery order.
		assert.Equal(t, "u2", ranked[0].FirstUserID)
		assert.Equal(t, "u3", ranked[1].FirstUserID)
		assert.InDelta(t, 0.6, results[0].AvgSimilarity, 1e-9)
	})

	t.Run("excludes languages the engine cannot analyze", func(t *testing.T) {
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true, SubmissionCount: 3},
			{Language: "pas", CanAnalyze: false, SubmissionCount: 500},
			{Language: "py", CanAnalyze: true, SubmissionCount: 2},
		}

		results := BuildLanguageResults(stats, nil, nil, catalog)

		require.Len(t, results, 2)
		assert.Equal(t, "cc", results[0].Language)
		assert.Equal(t, "py", results[1].Language)
	})

	t.Run("selects only pairs attributed to the language", func(t *testing.T) {
		pairs := []models.SimilarityPair{
			attributedPair("u1", "cc", 0.7),
			attributedPair("u2", "py", 0.8),
			attributedPair("u3", "cc", 0.5),
		}
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true},
			{Language: "py", CanAnalyze: true},
			{Language: "go", CanAnalyze: true},
		}

		results := BuildLanguageResults(stats, &models.PlagiarismResult{Pairs: pairs}, pairs, catalog)

		require.Len(t, results, 3)
		byLang := map[string]models.LanguageResult{}
		for _, r := range results {
			byLang[r.Language] = r

			// No cross language leakage.
			for _, p := range r.Pairs {
				assert.Equal(t, r.Language, p.Language)
			}
		}
		assert.Len(t, byLang["cc"].Pairs, 2)
		assert.Len(t, byLang["py"].Pairs, 1)
		assert.Empty(t, byLang["go"].Pairs)
		assert.Zero(t, byLang["go"].AvgSimilarity)
	})

	t.Run("degrades to full sequence without attribution", func(t *testing.T) {
		pairs := []models.SimilarityPair{
			attributedPair("u1", "", 0.7),
			attributedPair("u2", "", 0.3),
		}
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true},
			{Language: "py", CanAnalyze: true},
		}

		results := BuildLanguageResults(stats, &models.PlagiarismResult{Pairs: pairs}, pairs, catalog)

		require.Len(t, results, 2)
		for _, r := range results {
			assert.Len(t, r.Pairs, 2, "unattributed results carry the full sequence for %s", r.Language)
			assert.InDelta(t, 0.5, r.AvgSimilarity, 1e-9)
		}
	})

	t.Run("nil result leaves pair lists empty", func(t *testing.T) {
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true, SubmissionCount: 12, UniqueUsers: 6},
		}

		results := BuildLanguageResults(stats, nil, nil, catalog)

		require.Len(t, results, 1)
		assert.NotNil(t, results[0].Pairs)
		assert.Empty(t, results[0].Pairs)
		assert.Zero(t, results[0].AvgSimilarity)
		assert.Equal(t, 12, results[0].SubmissionCount)
	})

	t.Run("catalog metadata and fallback", func(t *testing.T) {
		stats := []models.LanguageStat{
			{Language: "cc", CanAnalyze: true},
			{Language: "zig", CanAnalyze: true},
		}

		results := BuildLanguageResults(stats, nil, nil, catalog)

		require.Len(t, results, 2)
		assert.Equal(t, "C++", results[0].DisplayName)
		assert.Equal(t, "ZIG", results[1].DisplayName, "unknown codes fall back to upper case")
	})

	t.Run("ordering is non increasing for any pair count", func(t *testing.T) {
		pairs := []models.SimilarityPair{
			attributedPair("u1", "cc", 0.11),
			attributedPair("u2", "cc", 0.97),
			attributedPair("u3", "cc", 0.42),
			attributedPair("u4", "cc", 0.42),
			attributedPair("u5", "cc", 0.88),
		}
		stats := []models.LanguageStat{{Language: "cc", CanAnalyze: true}}

		results := BuildLanguageResults(stats, &models.PlagiarismResult{Pairs: pairs}, pairs, catalog)

		require.Len(t, results, 1)
		ranked := results[0].Pairs
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(t, ranked[i-1].AvgSimilarity(), ranked[i].AvgSimilarity())
		}
	})
}
