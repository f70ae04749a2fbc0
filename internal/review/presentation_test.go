package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate(t *testing.T) {
	lines := []string{
		"#include <iostream>",
		"using namespace std;",
		"int main() {",
		"    int a, b;",
		"    cin >> a >> b;",
		"    cout << a + b << endl;",
		"    return 0;",
		"}",
	}

	annotated := Annotate(lines, MatchedSet([]int{3, 4, 5}))

	require.Len(t, annotated, len(lines))
	for i, line := range annotated {
		assert.Equal(t, lines[i], line.Content)
		assert.Equal(t, i >= 3 && i <= 5, line.IsMatch, "line %d", i)
	}
}

func TestAnnotate_EmptyInput(t *testing.T) {
	annotated := Annotate(nil, MatchedSet(nil))
	assert.NotNil(t, annotated)
	assert.Empty(t, annotated)
}

func TestAnnotate_IndicesOutOfRange(t *testing.T) {
	annotated := Annotate([]string{"a", "b"}, MatchedSet([]int{-1, 5}))

	require.Len(t, annotated, 2)
	assert.False(t, annotated[0].IsMatch)
	assert.False(t, annotated[1].IsMatch)
}
