package pipeline

import (
	"fmt"
	"strings"

	"github.com/Bellilty/real-estate-multi-agent/internal/model"
	"github.com/Bellilty/real-estate-multi-agent/internal/validate"
)

const (
	unsupportedAnswer = "I can only answer questions about the property-transaction ledger: profit and loss, comparisons, tenants, and rankings. Could you rephrase your question in those terms?"

	serviceErrorAnswer = "I couldn't reach the language service to interpret your question. Please try again in a moment."

	internalErrorAnswer = "Something went wrong while processing your question. Please try again."
)

// clarificationMessage renders missing fields and unresolved ambiguities as
// one question back to the user. Missing fields come first; ambiguities
// list their ranked candidates so the user can answer with a name.
func clarificationMessage(missing []model.MissingField, ambiguous []model.AmbiguousMention) string {
	var b strings.Builder
	b.WriteString("I need a bit more detail to answer that.")

	for _, m := range missing {
		fmt.Fprintf(&b, "\n- %s", validate.Describe(m))
		if len(m.Suggestions) > 0 {
			fmt.Fprintf(&b, " (known: %s)", strings.Join(m.Suggestions, ", "))
		}
	}

	for _, a := range ambiguous {
		names := make([]string, 0, len(a.Candidates))
		for _, c := range a.Candidates {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, "\n- which %s did you mean by %q: %s?", a.Field, a.Mention, strings.Join(names, ", "))
	}

	return b.String()
}
