package services

import (
	"regexp"
	"strings"
	"unicode"
)

// Phrases that indicate the writer may be at risk. Matching is done on the
// cleaned form of both the phrase and the input.
var baseSelfHarmPhrases = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"take my life",
	"end it all",
	"self harm",
	"cut myself",
	"hurt myself",
	"harm myself",
	"want to die",
	"wish i was dead",
	"not worth living",
	"better off dead",
	"end myself",
	"unalive",
	"no reason to live",
}

// SupportResource is shown alongside entries that need support.
type SupportResource struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	URL     string `json:"url,omitempty"`
}

var supportResources = []SupportResource{
	{Name: "988 Suicide & Crisis Lifeline (US)", Contact: "Call or text 988", URL: "https://988lifeline.org"},
	{Name: "Crisis Text Line", Contact: "Text HOME to 741741", URL: "https://www.crisistextline.org"},
	{Name: "Find a Helpline (international)", Contact: "findahelpline.com", URL: "https://findahelpline.com"},
}

// CrisisScreen is the outcome of screening a piece of user text.
type CrisisScreen struct {
	NeedsSupport bool              `json:"needsSupport"`
	Matched      []string          `json:"-"`
	Resources    []SupportResource `json:"resources,omitempty"`
}

var (
	obfuscationReplacer = strings.NewReplacer(
		"@", "a",
		"4", "a",
		"3", "e",
		"!", "i",
		"1", "i",
		"0", "o",
		"$", "s",
		"5", "s",
		"7", "t",
		"+", "t",
		"а", "a", // Cyrillic
		"е", "e",
		"і", "i",
		"о", "o",
		"р", "p",
	)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	cleanedSelfHarmPhrases = cleanAll(baseSelfHarmPhrases)
)

// CleanText reduces text to a canonical form: lowercase, leetspeak undone,
// non-letters turned into spaces, repeated letters collapsed
// ("sssuiiicide" -> "suicide").
func CleanText(text string) string {
	cleaned := obfuscationReplacer.Replace(strings.ToLower(text))

	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsLetter(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	cleaned = collapseRepeats(builder.String())
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// collapseRepeats reduces runs of the same letter to one letter. Spaces are
// kept so "kill kill" becomes "kil kil".
func collapseRepeats(text string) string {
	if text == "" {
		return text
	}

	var result strings.Builder
	lastChar := rune(0)
	lastWasLetter := false

	for _, char := range text {
		isLetter := unicode.IsLetter(char)
		if isLetter && lastWasLetter && char == lastChar {
			continue
		}
		result.WriteRune(char)
		lastChar = char
		lastWasLetter = isLetter
	}

	return result.String()
}

func cleanAll(phrases []string) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = CleanText(p)
	}
	return out
}

// containsPhrase matches single words on word boundaries ("skill" does not
// match "kill") and multi-word phrases as a padded substring.
func containsPhrase(cleanedText, phrase string) bool {
	return strings.Contains(" "+cleanedText+" ", " "+phrase+" ")
}

// ScreenForCrisis checks text for self-harm language. It never blocks a
// write; it only decides whether support resources are shown.
func ScreenForCrisis(text string) CrisisScreen {
	cleaned := CleanText(text)
	if cleaned == "" {
		return CrisisScreen{}
	}

	var matched []string
	for i, phrase := range cleanedSelfHarmPhrases {
		if containsPhrase(cleaned, phrase) {
			matched = append(matched, baseSelfHarmPhrases[i])
		}
	}
	if len(matched) == 0 {
		return CrisisScreen{}
	}

	resources := make([]SupportResource, len(supportResources))
	copy(resources, supportResources)
	return CrisisScreen{NeedsSupport: true, Matched: matched, Resources: resources}
}
