package panel

import (
	"fmt"
	"strings"

	"github.com/tlmvpsc/questionbank/internal/models"
)

// RenderQuestionList renders the connected view's question list.
func RenderQuestionList(questions []models.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Questions (%d)\n", len(questions))
	if len(questions) == 0 {
		b.WriteString("  There are no questions in the database.\n")
		return b.String()
	}
	for i, q := range questions {
		b.WriteString(renderCard(i+1, q))
	}
	return b.String()
}

// renderCard renders one question card: statement, answers, labels.
func renderCard(n int, q models.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %d. %s\n", n, q.Statement)
	fmt.Fprintf(&b, "     answers: %s\n", strings.Join(q.Answers, " | "))
	if len(q.Labels) > 0 {
		fmt.Fprintf(&b, "     labels:  %s\n", strings.Join(q.Labels, ", "))
	}
	return b.String()
}

// RenderLoginBanner renders the login screen header, including the failure
// message of the previous attempt, if any.
func RenderLoginBanner(s State) string {
	var b strings.Builder
	b.WriteString("TLMVPSC - Admin Panel\n")
	if s.FailMessage != "" {
		fmt.Fprintf(&b, "!! %s\n", s.FailMessage)
	}
	return b.String()
}
