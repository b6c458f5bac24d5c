package insights

// ChecklistItem is one generated onboarding task, AI-produced or from
// the local template below.
type ChecklistItem struct {
	Phase       string `json:"phase"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
}

// FallbackChecklist is the static onboarding template served when the
// AI service is unreachable.
func FallbackChecklist() []ChecklistItem {
	return []ChecklistItem{
		{
			Phase:       "day1",
			Title:       "Account setup",
			Description: "Get access to email, Slack, and repository",
			Duration:    "1h",
			Order:       0,
		},
		{
			Phase:       "day1",
			Title:       "Meet your team",
			Description: "Introduction meeting with immediate team members",
			Duration:    "2h",
			Order:       1,
		},
		{
			Phase:       "week1",
			Title:       "Environment setup",
			Description: "Set up development environment and tools",
			Duration:    "4h",
			Order:       2,
		},
		{
			Phase:       "week1",
			Title:       "Code review",
			Description: "Review codebase structure and coding standards",
			Duration:    "3h",
			Order:       3,
		},
		{
			Phase:       "month1",
			Title:       "First feature delivery",
			Description: "Complete and deploy your first feature with mentor guidance",
			Duration:    "2w",
			Order:       4,
		},
	}
}

// FallbackChecklistRationale accompanies the template response.
const FallbackChecklistRationale = "Fallback heuristic: Standard onboarding template based on job title keywords"
