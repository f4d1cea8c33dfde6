package rewrite

import (
	"net/url"
	"regexp"
	"strings"
)

// PlaceholderRef is substituted when a corrupted token cannot be
// repaired from context. It is deliberately conspicuous: a clearly-named
// dead reference is better than a corrupted rule or a truncated one.
const PlaceholderRef = "missing-asset"

// Corrupted tokens come from a URL value serialized as a generic object
// literal instead of a string, e.g. url([object Object]).
var (
	corruptedURLTokenRe = regexp.MustCompile(`(?i)url\(\s*['"]?\s*\[object\s+\w+\]\s*['"]?\s*\)`)
	corruptedLiteralRe  = regexp.MustCompile(`\[object\s+\w+\]`)
	anyURLTokenRe       = regexp.MustCompile(`(?i)url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

	fontContextRe = regexp.MustCompile(`(?i)@font-face|font-family`)
)

var fontExtensions = []string{".woff2", ".woff", ".ttf", ".otf", ".eot"}

// candidate is a valid url() value found in the document, with its
// position so repairs can prefer nearby context.
type candidate struct {
	value string
	pos   int
}

// Repair detects corrupted url() tokens and substitutes the best
// available original URL recovered from surrounding context: the nearest
// valid url() value in the same document, preferring font-extension
// candidates when the corrupted token sits in @font-face/font-family
// context. The corrupted token never survives into the output; when no
// candidate exists a generic placeholder reference is used instead.
func Repair(text string) string {
	if !strings.Contains(text, "[object") {
		return text
	}

	candidates := collectCandidates(text)

	var b strings.Builder
	last := 0
	for _, loc := range corruptedURLTokenRe.FindAllStringIndex(text, -1) {
		b.WriteString(text[last:loc[0]])

		preferFont := inFontContext(text, loc[0])
		repaired := pickCandidate(candidates, loc[0], preferFont)
		if repaired == "" {
			repaired = PlaceholderRef
		}
		b.WriteString("url(" + repaired + ")")
		last = loc[1]
	}
	b.WriteString(text[last:])
	out := b.String()

	// Whatever corrupted literals remain outside url() constructs are
	// scrubbed too; the defect must never reach written output.
	return corruptedLiteralRe.ReplaceAllString(out, PlaceholderRef)
}

// collectCandidates gathers every non-corrupted url() value that parses
// as a plausible reference.
func collectCandidates(text string) []candidate {
	var out []candidate
	for _, m := range anyURLTokenRe.FindAllStringSubmatchIndex(text, -1) {
		value := strings.TrimSpace(text[m[2]:m[3]])
		if value == "" || strings.Contains(value, "[object") {
			continue
		}
		if !isPlausibleRef(value) {
			continue
		}
		out = append(out, candidate{value: value, pos: m[0]})
	}
	return out
}

// pickCandidate returns the value of the candidate nearest to pos,
// restricted to font-extension candidates when preferFont is set and any
// such candidate exists.
func pickCandidate(candidates []candidate, pos int, preferFont bool) string {
	pick := func(filter func(string) bool) string {
		best := ""
		bestDist := -1
		for _, c := range candidates {
			if filter != nil && !filter(c.value) {
				continue
			}
			dist := c.pos - pos
			if dist < 0 {
				dist = -dist
			}
			if bestDist == -1 || dist < bestDist {
				best = c.value
				bestDist = dist
			}
		}
		return best
	}

	if preferFont {
		if v := pick(hasFontExtension); v != "" {
			return v
		}
	}
	return pick(nil)
}

// inFontContext reports whether the text shortly before pos mentions a
// font-face or font-family rule.
func inFontContext(text string, pos int) bool {
	start := pos - 400
	if start < 0 {
		start = 0
	}
	return fontContextRe.MatchString(text[start:pos])
}

func hasFontExtension(ref string) bool {
	if idx := strings.IndexAny(ref, "?#"); idx != -1 {
		ref = ref[:idx]
	}
	lower := strings.ToLower(ref)
	for _, ext := range fontExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isPlausibleRef filters candidates down to values that look like URLs
// or paths rather than arbitrary CSS function arguments.
func isPlausibleRef(value string) bool {
	if strings.HasPrefix(value, "data:") {
		return false
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		u, err := url.Parse(value)
		return err == nil && u.Host != ""
	}
	// Relative references: require at least a path-ish shape.
	return !strings.ContainsAny(value, " \t\n{}")
}
