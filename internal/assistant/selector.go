// Package assistant produces deterministic chat answers about eligible schemes.
package assistant

import (
	"fmt"
	"strings"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// SchemeSummary is the part of a scheme the assistant talks about.
type SchemeSummary struct {
	Title       string
	Description string
	Category    string
}

// Summarize projects schemes onto SchemeSummary.
func Summarize(schemes []domain.Scheme) []SchemeSummary {
	out := make([]SchemeSummary, 0, len(schemes))
	for _, s := range schemes {
		out = append(out, SchemeSummary{Title: s.Title, Description: s.Description, Category: s.Category})
	}
	return out
}

// Intent is one entry of the classifier table. Match receives the lowercased message.
type Intent struct {
	Name   string
	Match  func(msg string) bool
	Answer func(p domain.Profile, eligible []SchemeSummary) string
}

// Selector answers with the first matching intent, or Default when none match.
type Selector struct {
	Intents []Intent
	Default func(p domain.Profile, eligible []SchemeSummary) string
}

// NewSelector returns the standard intent table.
func NewSelector() *Selector {
	return &Selector{
		Intents: []Intent{
			{
				Name:  "eligibility",
				Match: containsAny("eligible", "qualify"),
				Answer: func(_ domain.Profile, eligible []SchemeSummary) string {
					if len(eligible) == 0 {
						return NoEligibilityText
					}
					return "Based on your profile, you are eligible for the following schemes:\n" + bulletList(eligible)
				},
			},
			categoryIntent(domain.CategoryEducation, containsAny("education", "study"),
				"I found these education-related schemes you're eligible for:\n",
				"I don't see any education schemes you're currently eligible for. Eligibility often depends on factors like years of service and rank. You might want to check back as your service profile changes."),
			categoryIntent(domain.CategoryMedical, containsAny("medical", "health"),
				"Here are the medical welfare schemes you're eligible for:\n",
				"While I don't see any medical schemes you're currently eligible for, medical emergency support is a priority. Please consult your welfare officer for the most current options."),
			categoryIntent(domain.CategoryHousing, containsAny("housing", "loan"),
				"I found these housing-related schemes you're eligible for:\n",
				"Currently, I don't see any housing schemes matching your eligibility. Housing schemes often require a minimum service period and specific rank requirements."),
			categoryIntent(domain.CategoryFamily, containsAny("family", "dependent"),
				"Here are the family welfare schemes you're eligible for:\n",
				"I don't see any family welfare schemes you're currently eligible for. However, there might be special provisions available - please consult your welfare officer."),
		},
		Default: func(p domain.Profile, eligible []SchemeSummary) string {
			return fmt.Sprintf("I can help you find suitable welfare schemes based on your profile (%s, %d years of service). You're currently eligible for %d schemes. You can ask me about specific categories like education, medical, housing, or family welfare, or ask to see all eligible schemes.",
				p.Rank, p.ServiceYears, len(eligible))
		},
	}
}

// NoEligibilityText is the answer to an eligibility question with nothing eligible.
const NoEligibilityText = "Based on your current profile, I don't see any schemes you're immediately eligible for. However, eligibility criteria can change, and new schemes may become available. I recommend checking back regularly or speaking with your welfare officer for the most up-to-date information."

// Classify returns the name of the intent message falls under, or "default".
func (s *Selector) Classify(message string) string {
	if in, ok := s.match(message); ok {
		return in.Name
	}
	return "default"
}

// Respond answers message for profile p given its eligible schemes.
func (s *Selector) Respond(message string, p domain.Profile, eligible []SchemeSummary) string {
	if in, ok := s.match(message); ok {
		return in.Answer(p, eligible)
	}
	return s.Default(p, eligible)
}

func (s *Selector) match(message string) (Intent, bool) {
	msg := strings.ToLower(message)
	for _, in := range s.Intents {
		if in.Match(msg) {
			return in, true
		}
	}
	return Intent{}, false
}

func categoryIntent(category string, match func(string) bool, header, none string) Intent {
	return Intent{
		Name:  category,
		Match: match,
		Answer: func(_ domain.Profile, eligible []SchemeSummary) string {
			var in []SchemeSummary
			for _, s := range eligible {
				if s.Category == category {
					in = append(in, s)
				}
			}
			if len(in) == 0 {
				return none
			}
			return header + bulletList(in)
		},
	}
}

func containsAny(keywords ...string) func(string) bool {
	return func(msg string) bool {
		for _, k := range keywords {
			if strings.Contains(msg, k) {
				return true
			}
		}
		return false
	}
}

func bulletList(ss []SchemeSummary) string {
	lines := make([]string, len(ss))
	for i, s := range ss {
		lines[i] = "- " + s.Title + ": " + s.Description
	}
	return strings.Join(lines, "\n")
}
