package assistant

import (
	"fmt"
	"strings"

	"github.com/armywelfare/welfare-api/internal/domain"
)

// SystemPrompt builds the system context handed to the text generator.
func SystemPrompt(p domain.Profile, eligible []SchemeSummary) string {
	names := "None"
	if len(eligible) > 0 {
		titles := make([]string, len(eligible))
		for i, s := range eligible {
			titles[i] = s.Title
		}
		names = strings.Join(titles, ", ")
	}
	return fmt.Sprintf("You are an AI Welfare Assistant helping army personnel find suitable welfare schemes. User profile: Rank %s, Age %d, Service %d years, Status %s. Eligible schemes: %s",
		p.Rank, p.Age, p.ServiceYears, p.Status, names)
}
