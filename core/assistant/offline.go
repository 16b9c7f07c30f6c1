package assistant

import "strings"

// OfflineResponse is the deterministic rule-based fallback used whenever
// the external call is unavailable or fails. It still folds in the
// incident summary so the answer stays grounded in dashboard data.
func OfflineResponse(question, contextText string) string {
	var parts []string

	parts = append(parts,
		"Offline assistant mode (no usable AI API call succeeded).\n"+
			"Below is a rule-based analysis based on your incident data.")

	if strings.TrimSpace(contextText) != "" {
		parts = append(parts, "\nIncident summary:\n"+contextText)
	}

	msg := strings.ToLower(question)
	matched := false

	if strings.Contains(msg, "priorit") || strings.Contains(msg, "first") {
		matched = true
		parts = append(parts,
			"\nPrioritisation advice:\n"+
				"- Resolve High severity incidents that are still Open first.\n"+
				"- Next, clear Medium severity incidents that have been open for a long time.\n"+
				"- Low severity incidents can be grouped and handled in batches.")
	}
	if strings.Contains(msg, "phishing") {
		matched = true
		parts = append(parts,
			"\nPhishing guidance:\n"+
				"- Check if a large share of incidents are phishing emails.\n"+
				"- If yes, recommend short staff training and stronger email filtering rules.\n"+
				"- Monitor how phishing incidents change after these actions.")
	}
	if strings.Contains(msg, "backlog") || strings.Contains(msg, "bottleneck") {
		matched = true
		parts = append(parts,
			"\nBacklog / bottleneck analysis:\n"+
				"- A high count of Open incidents suggests insufficient capacity.\n"+
				"- Many incidents stuck in In Progress may indicate process bottlenecks.\n"+
				"- Compare incident counts per assignee to detect imbalances.")
	}
	if !matched {
		parts = append(parts,
			"\nGeneral guidance:\n"+
				"- Use the filters and charts above to inspect which incident types, "+
				"severities, and assignees dominate, then adjust playbooks accordingly.")
	}

	return strings.Join(parts, "\n")
}
