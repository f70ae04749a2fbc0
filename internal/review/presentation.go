package review

import (
	"plagiarism-review/pkg/models"
)

// Annotate converts a source listing into line-level match annotations for
// side-by-side display. Pure function: one annotation per input line, flagging
// membership in the matched-span index set.
func Annotate(lines []string, matched map[int]struct{}) []models.CodeLine {
	annotated := make([]models.CodeLine, len(lines))
	for i, line := range lines {
		_, isMatch := matched[i]
		annotated[i] = models.CodeLine{Content: line, IsMatch: isMatch}
	}
	return annotated
}

// MatchedSet builds the index set Annotate consumes from a plain index list.
func MatchedSet(indices []int) map[int]struct{} {
	set := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		set[idx] = struct{}{}
	}
	return set
}
