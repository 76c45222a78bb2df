package app

import (
	"fmt"
	"strings"
)

// Prompt builders are pure functions so their output can be asserted without
// any model call.

// RelevancePrompt asks the model to judge one fragment against the question
// with a single number in [0,1] as the only output.
func RelevancePrompt(question, fragment string) string {
	return fmt.Sprintf(
		"Rate how relevant the following text fragment is to the question.\n"+
			"Respond with a single number between 0 and 1, where 1.0 means the "+
			"fragment fully answers the question and 0.0 means it is unrelated. "+
			"Output only the number.\n\n"+
			"Question: %s\n\nFragment:\n%s\n\nScore:",
		question, fragment,
	)
}

// AnswerPrompt embeds the relevance-ordered fragments and the question, with
// an explicit instruction to admit insufficiency instead of inventing facts.
func AnswerPrompt(question string, fragments []string) string {
	var sb strings.Builder
	sb.WriteString("Use the following context to answer the question. ")
	sb.WriteString("Answer based only on the context. If the context does not ")
	sb.WriteString("contain enough information to answer, say so.\n\nContext:\n")
	sb.WriteString(strings.Join(fragments, "\n"))
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
