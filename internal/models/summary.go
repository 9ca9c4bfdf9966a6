package models

// Summary is the structured result of summarizing an advisor/client
// conversation.
type Summary struct {
	MeetingSummary        string   `json:"meetingSummary"`
	DiscussionPoints      []string `json:"discussionPoints"`
	ActionItems           []string `json:"actionItems"`
	InvestmentGoalChanges []string `json:"investmentGoalChanges"`
	Error                 string   `json:"error,omitempty"`
}
