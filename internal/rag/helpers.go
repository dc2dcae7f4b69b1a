package rag

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/akolanti/CareerRAG/internal/adapter/utils"
	"github.com/akolanti/CareerRAG/internal/config"
	"github.com/akolanti/CareerRAG/internal/domain/apperrors"
	"github.com/akolanti/CareerRAG/internal/domain/recordModel"
)

// User-facing messages. The /ask front end treats these as answers, so the
// exact wording is part of the contract.
const (
	MsgMissingQuery      = "Please provide a query."
	MsgMissingAPIKey     = "Please provide your Google API key in the settings."
	MsgMissingUniversity = "Please select a university from the dropdown before asking questions."
	MsgUnknownUniversity = "The selected university is no longer available. Please select a different university."

	MsgInvalidAPIKey   = "Invalid API key. Please check your Google API key in the settings."
	MsgQuotaExceeded   = "API quota exceeded. Please try again later or check your API key limits."
	MsgGenerationIssue = "Sorry, there was an issue generating the response. Please try again."

	MsgDatabaseDown = "Database temporarily unavailable. Please try again."
	MsgGenericError = "Sorry, an error occurred. Please try again."
)

// buildPrompt assembles, in order: the university-identity preamble, the base
// instruction block (caller-supplied or default persona), the flattened
// question, then one numbered line per retrieved passage.
func buildPrompt(university string, customPrompt string, query string, passages []recordModel.Passage) string {
	basePrompt := strings.TrimSpace(customPrompt)
	if basePrompt == "" {
		basePrompt = fmt.Sprintf(config.DefaultBasePrompt, university)
	}

	var prompt strings.Builder
	prompt.WriteString(fmt.Sprintf("University: %s. If anyone asks the university name or what university this is for answer with that.\n", university))
	prompt.WriteString(basePrompt)
	prompt.WriteString("\n\nQUESTION: " + flatten(query) + "\n")

	for i, passage := range passages {
		prompt.WriteString(fmt.Sprintf("PASSAGE %d: %s\n", i+1, flatten(passage.Content)))
	}
	return prompt.String()
}

func flatten(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

// collectSources gathers passage URLs in retrieval-rank order, skipping
// placeholders and de-duplicating while preserving first occurrence.
func collectSources(passages []recordModel.Passage) []string {
	var sources []string
	seen := make(map[string]bool)

	for _, passage := range passages {
		rawURL := strings.TrimSpace(passage.RecURL)
		switch strings.ToLower(rawURL) {
		case "", "nan", "none":
			continue
		}
		if seen[passage.RecURL] {
			continue
		}
		seen[passage.RecURL] = true
		sources = append(sources, passage.RecURL)
	}
	return sources
}

// formatSourcesBlock renders the Sources section as links opening in a new
// tab, each labeled with the URL's host (or the raw URL when unparsable).
func formatSourcesBlock(sources []string) string {
	if len(sources) == 0 {
		return ""
	}

	formattedLinks := make([]string, 0, len(sources))
	for _, source := range sources {
		displayText := source
		if parsed, err := url.Parse(source); err == nil && parsed.Host != "" {
			displayText = parsed.Host
		}

		link := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer" style="color: #007bff; text-decoration: underline; transition: color 0.3s ease;" onmouseover="this.style.color='#0056b3'" onmouseout="this.style.color='#007bff'" title="Click to open in new tab">%s...</a>`,
			source, displayText)
		formattedLinks = append(formattedLinks, link)
	}

	return "\n\n**Sources:**\n\n" + strings.Join(formattedLinks, "\n\n")
}

// generationFailureMessage maps a failed generation call onto the three
// user-facing buckets.
func generationFailureMessage(err error) string {
	switch {
	case apperrors.IsAuth(err):
		return MsgInvalidAPIKey
	case apperrors.IsQuota(err) || apperrors.IsThrottle(err):
		return MsgQuotaExceeded
	default:
		return MsgGenerationIssue
	}
}

// setupFailureMessage is the outer boundary bucket for errors escaping
// collection setup.
func setupFailureMessage(err error) string {
	switch {
	case apperrors.IsAuth(err):
		return MsgInvalidAPIKey
	case apperrors.IsStorage(err):
		return MsgDatabaseDown
	default:
		return MsgGenericError
	}
}

func newCacheID() string {
	return utils.GetNewUUID()
}
