package review

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"plagiarism-review/pkg/languages"
	"plagiarism-review/pkg/models"
)

// BuildLanguageResults constructs one LanguageResult per analyzable language
// stat. Languages the engine cannot analyze are excluded entirely, whatever
// their submission volume. When result is nil (the problem has no detection
// result yet) every language gets an empty pair list.
//
// Attribution: pairs carrying a language code are selected into exactly that
// language's result. When no pair in the candidate set is attributed, the
// engine could not express per-language attribution and every language
// degrades to the full candidate sequence; subsets are never fabricated.
func BuildLanguageResults(stats []models.LanguageStat, result *models.PlagiarismResult, candidates []models.SimilarityPair, catalog *languages.Catalog) []models.LanguageResult {
	results := make([]models.LanguageResult, 0, len(stats))

	attributed := false
	for _, pair := range candidates {
		if pair.Language != "" {
			attributed = true
			break
		}
	}

	for _, langStat := range stats {
		if !langStat.CanAnalyze {
			continue
		}

		langResult := models.LanguageResult{
			Language:        langStat.Language,
			DisplayName:     catalog.DisplayName(langStat.Language),
			Icon:            catalog.Icon(langStat.Language),
			SubmissionCount: langStat.SubmissionCount,
			UniqueUsers:     langStat.UniqueUsers,
			Pairs:           []models.SimilarityPair{},
		}

		if result != nil {
			langResult.Pairs = selectPairs(candidates, langStat.Language, attributed)
			rankPairs(langResult.Pairs)
			langResult.AvgSimilarity = averageSimilarity(langResult.Pairs)
		}

		results = append(results, langResult)
	}

	return results
}

// selectPairs copies the pairs belonging to a language. With attribution
// available, only exact matches qualify; without it, the full sequence is
// returned for every language.
func selectPairs(candidates []models.SimilarityPair, language string, attributed bool) []models.SimilarityPair {
	selected := make([]models.SimilarityPair, 0, len(candidates))
	for _, pair := range candidates {
		if !attributed || pair.Language == language {
			selected = append(selected, pair)
		}
	}
	return selected
}

// rankPairs orders pairs descending by AVG similarity. The sort is stable so
// ties keep the engine's discovery order.
func rankPairs(pairs []models.SimilarityPair) {
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].AvgSimilarity() > pairs[j].AvgSimilarity()
	})
}

// averageSimilarity returns the arithmetic mean of the pairs' AVG scores,
// or 0 when no pairs exist. Never NaN.
func averageSimilarity(pairs []models.SimilarityPair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	scores := make([]float64, len(pairs))
	for i, pair := range pairs {
		scores[i] = pair.AvgSimilarity()
	}
	return stat.Mean(scores, nil)
}
