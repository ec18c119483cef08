package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sci-fi", "science_fiction"},
		{"Historical", "historical_fiction"},
		{"literary", "literary_fiction"},
		{"Fantasy", "fantasy"},
		{"space  opera", "space_opera"},
		{"Cozy Mystery", "cozy_mystery"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.in))
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "science-fiction", Slugify("Science Fiction"))
	assert.Equal(t, "cafe-noir", Slugify("Café Noir"))
	assert.Equal(t, "sci-fi-fantasy", Slugify("Sci-Fi/Fantasy"))
}

func TestSubject_Accents(t *testing.T) {
	assert.Equal(t, "science_fiction", Subject("Sci-Fi"))
	assert.Equal(t, "thriller", Subject("Thrillér"))
	assert.Equal(t, "historical_fiction", Subject("historical fiction"))
}

func TestLookup(t *testing.T) {
	g, ok := Lookup("science_fiction")
	assert.True(t, ok)
	assert.Equal(t, "Science Fiction", g.Name)

	_, ok = Lookup("cookbooks")
	assert.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "historical fiction", DisplayName("historical_fiction"))
}
