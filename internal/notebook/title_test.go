package notebook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitle(t *testing.T) {
	assert.Equal(t, "This is a note.", Title(DefaultContent))
	assert.Equal(t, "Heading words", Title("\n\n##   Heading \t words\nbody"))
	assert.Equal(t, "", Title("  \n\t\n"))

	long := strings.Repeat("y", 130)
	assert.Len(t, []rune(Title(long)), 120)
}
