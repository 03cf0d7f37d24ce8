package generator

import (
	"fmt"
	"strings"

	"github.com/valtrilabs/postforge/internal/profile"
	"github.com/valtrilabs/postforge/internal/vectorstore"
)

// maxContextChunks caps how many retrieved chunks are embedded in the prompt,
// even when retrieval returned more.
const maxContextChunks = 4

// marketKeywords gates the live-data snippet: the snippet is only fetched
// when the theme+query text mentions at least one of these.
var marketKeywords = []string{
	"price",
	"trading",
	"market",
	"volatility",
	"halving",
	"liquidity",
	"futures",
	"options",
}

func wantsMarketData(theme, query string) bool {
	combined := strings.ToLower(theme + " " + query)
	for _, kw := range marketKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return false
}

// composePrompt assembles the single generation prompt: persona and brand
// voice, theme and format, length and hashtag rules, grounding context from
// retrieval, and an optional live market snippet.
func composePrompt(theme, format string, context []vectorstore.Result, prof profile.Profile, marketSnippet string) string {
	if len(context) > maxContextChunks {
		context = context[:maxContextChunks]
	}
	ctxTexts := make([]string, 0, len(context))
	for _, r := range context {
		ctxTexts = append(ctxTexts, r.Text)
	}
	ctxBlock := strings.Join(ctxTexts, "\n---\n")

	var b strings.Builder
	fmt.Fprintf(&b, "You are a technical educator and thought leader writing for %s.\n", prof.Company.Name)
	fmt.Fprintf(&b, "Brand voice: %s, authoritative, insightful, teach-first.\n", profile.BrandVoice.Tone)
	fmt.Fprintf(&b, "Audience: %s.\n", prof.Company.Audience)
	fmt.Fprintf(&b, "Theme: %s. Format: %s.\n", theme, format)
	b.WriteString("\n")
	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("1. LEAD with a concrete technical insight (first line). Not a question, not generic.\n")
	b.WriteString("2. EDUCATE: Explain the concept clearly. Use data-backed insights.\n")
	b.WriteString("3. GROUND claims in the provided context/data (actual mechanics, standards).\n")
	b.WriteString("4. PROVIDE VALUE: Why the audience should care about this.\n")
	b.WriteString("5. END with a thoughtful CTA: Invite discussion on implications or deeper aspects.\n")
	fmt.Fprintf(&b, "6. AVOID: %s.\n", profile.BrandVoice.Donts)
	b.WriteString("\n")
	b.WriteString("Length: 200-400 words. Structure: Hook -> Explanation -> Why it matters -> CTA\n")
	fmt.Fprintf(&b, "Hashtags: 4-6 technical/specific tags (e.g., %s)\n", strings.Join(prof.Hashtags, ", "))
	b.WriteString("\n")
	b.WriteString("CONTEXT DATA (ground claims here):\n")
	b.WriteString(ctxBlock)
	b.WriteString("\n")
	if marketSnippet != "" {
		b.WriteString("\n")
		b.WriteString(marketSnippet)
		b.WriteString("\n")
	}
	b.WriteString("\nOutput: Plain text post with hook, body, CTA, and hashtags (space-separated).")
	return b.String()
}
