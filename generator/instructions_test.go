package generator

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"experience-nv/models"
)

func TestBuildSystemInstructionsWithGeo(t *testing.T) {
	g := models.GeoInfo{City: "Las Vegas", CountryRegion: "NV", Latitude: "36.17", Longitude: "-115.14"}
	s := BuildSystemInstructions(5, g)

	assert.Contains(t, s, "5 experience prompts")
	assert.Contains(t, s, "User location: Las Vegas, NV (36.17, -115.14)")
	assert.Contains(t, s, "Today is "+time.Now().Format("Monday, January 2, 2006")+".")
}

func TestBuildSystemInstructionsWithoutGeo(t *testing.T) {
	s := BuildSystemInstructions(3, models.GeoInfo{})

	// no location line, but the date line is always present
	assert.NotContains(t, s, "User location")
	assert.Contains(t, s, "Today is ")
}

func TestBuildSystemInstructionsDefaultsCount(t *testing.T) {
	s := BuildSystemInstructions(0, models.GeoInfo{})
	assert.Contains(t, s, fmt.Sprintf("%d experience prompts", DefaultDesiredCount))
}

func TestBuildUserPromptAllSegmentsInOrder(t *testing.T) {
	p := BuildUserPrompt("road trips", 4, 7,
		[]string{"hiking", "food"},
		[]string{"Walk the Strip."},
		"User is visiting for a long weekend.")

	segments := strings.Split(p, "\n\n")
	assert.Len(t, segments, 5)
	assert.Contains(t, segments[0], "Generate 4 experience prompts.")
	assert.Contains(t, segments[0], "road trips")
	assert.Contains(t, segments[1], "hiking, food")
	assert.Contains(t, segments[2], "- Walk the Strip.")
	assert.Contains(t, segments[3], "already has 7 saved prompts")
	assert.Contains(t, segments[4], "long weekend")
}

func TestBuildUserPromptOmitsEmptySegments(t *testing.T) {
	p := BuildUserPrompt("", 4, 0, nil, nil, "")
	assert.Equal(t, "Generate 4 experience prompts.", p)
}

func TestBuildUserPromptDeterministic(t *testing.T) {
	a := BuildUserPrompt("x", 2, 1, []string{"a"}, []string{"b"}, "c")
	b := BuildUserPrompt("x", 2, 1, []string{"a"}, []string{"b"}, "c")
	assert.Equal(t, a, b)
}
