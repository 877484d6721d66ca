package generator

import (
	"fmt"
	"strings"
	"time"

	"experience-nv/models"
)

const personaTemplate = `You are a Nevada local with decades of backroads, neon, and high-desert experience, writing for the Experience NV app. Your task is to produce %d experience prompts: short, vivid invitations that nudge someone to go do something specific in Nevada and then capture it (text, photos, or audio).

Guidelines:
- Every prompt must be doable in Nevada; favor the user's area when location context is given.
- Write in the second person and the present tense ("Drive out to...", "Order the...").
- Be specific: name real neighborhoods, trails, diners, or stretches of highway where you can.
- Mix well-known spots with overlooked ones; avoid tourist-brochure phrasing.
- Keep each prompt to one to three sentences.
- Respect the requested JSON schema exactly; no commentary outside it.

Examples of good prompts:
- "Walk the Neon Museum boneyard at dusk and photograph the one sign that feels most like a ghost."
- "Drive Highway 50 until you lose cell service, then record sixty seconds of whatever you can hear."
- "Order sopapillas somewhere in east Reno and write down the conversation at the next table."`

// BuildSystemInstructions assembles the persona/guideline template,
// then appends whatever geo and time context is available. The date
// line is always present; the location line is omitted entirely when
// nothing was resolved.
func BuildSystemInstructions(desiredCount int, geo models.GeoInfo) string {
	if desiredCount <= 0 {
		desiredCount = DefaultDesiredCount
	}

	var b strings.Builder
	fmt.Fprintf(&b, personaTemplate, desiredCount)
	b.WriteString("\n\n")

	if geo.HasCity() || geo.HasCoordinates() {
		b.WriteString("User location: ")
		var parts []string
		if geo.HasCity() {
			city := geo.City
			if geo.CountryRegion != "" {
				city += ", " + geo.CountryRegion
			}
			parts = append(parts, city)
		}
		if geo.HasCoordinates() {
			parts = append(parts, fmt.Sprintf("(%s, %s)", geo.Latitude, geo.Longitude))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Today is %s.", time.Now().Format("Monday, January 2, 2006"))

	return b.String()
}

// DefaultDesiredCount is the item count used when the caller does not
// ask for a specific one.
const DefaultDesiredCount = 12

// BuildUserPrompt concatenates the optional prompt segments in a fixed
// order: base instruction, interests, exclusions, existing count,
// additional context. A segment whose source value is empty is omitted
// entirely. Pure and deterministic.
func BuildUserPrompt(subjectContext string, desiredCount, existingCount int, interests, exclusions []string, additionalContext string) string {
	if desiredCount <= 0 {
		desiredCount = DefaultDesiredCount
	}

	var segments []string

	base := fmt.Sprintf("Generate %d experience prompts.", desiredCount)
	if strings.TrimSpace(subjectContext) != "" {
		base += " Theme them around: " + strings.TrimSpace(subjectContext) + "."
	}
	segments = append(segments, base)

	if len(interests) > 0 {
		segments = append(segments, "The user is interested in: "+strings.Join(interests, ", ")+".")
	}

	if len(exclusions) > 0 {
		var b strings.Builder
		b.WriteString("Do not repeat or closely paraphrase any of these existing prompts:")
		for _, e := range exclusions {
			b.WriteString("\n- " + e)
		}
		segments = append(segments, b.String())
	}

	if existingCount > 0 {
		segments = append(segments, fmt.Sprintf("The user already has %d saved prompts; favor fresh angles over familiar ones.", existingCount))
	}

	if strings.TrimSpace(additionalContext) != "" {
		segments = append(segments, "Additional context:\n"+strings.TrimSpace(additionalContext))
	}

	return strings.Join(segments, "\n\n")
}
