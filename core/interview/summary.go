package interview

import (
	"fmt"
	"strings"
)

// Render formats a summary as plain text. Unanswered questions are kept with
// a blank answer.
func Render(summary Summary) string {
	var b strings.Builder
	for i, entry := range summary.Entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, entry.Question)
		if entry.Answered {
			fmt.Fprintf(&b, "   Answer: %s\n", entry.Answer)
		} else {
			b.WriteString("   Answer: \n")
		}
	}
	if !summary.Completed {
		b.WriteString("(interview ended early)\n")
	}
	return b.String()
}
