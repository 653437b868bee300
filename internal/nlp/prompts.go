package nlp

import (
	"fmt"
	"strings"
)

const classifySystemPrompt = `You classify questions about a property-transaction ledger into exactly one intent.

Intents:
- pl_calculation: profit, loss, revenue, or expenses for one property or the whole portfolio
- property_comparison: two or more properties compared over the same period
- temporal_comparison: one property or the portfolio compared across periods
- multi_entity_query: several property/period combinations answered independently
- property_details: what a property is, who its tenants are
- tenant_info: which properties a tenant occupies, what they pay
- analytics_query: best/worst rankings, highest revenue, lowest profit, largest expense category
- general_query: questions about the dataset itself, greetings, meta questions
- unsupported: anything the ledger cannot answer

Respond with only a JSON object:
{"intent": "<intent>", "confidence": "high|medium|low"}`

// extractSystemPrompt embeds the known entity catalogs so mentions come
// back spelled the way the ledger spells them whenever possible.
func extractSystemPrompt(properties, tenants []string) string {
	return fmt.Sprintf(`You extract structured entities from questions about a property-transaction ledger.

Known properties: %s
Known tenants: %s

Rules:
- Copy property and tenant mentions as written in the question; do not guess corrections.
- "all properties", "my portfolio" and similar phrases are the literal mention, not a property name.
- periods holds temporal expressions exactly as written: "2024", "Q3 2024", "last year", "March 2024", "overall".
- metric is "revenue" or "expense" only when the question asks for one side of the ledger, otherwise omit it.
- rank_by ("revenue", "profit", "expense"), rank_dir ("max", "min") and expense_category only apply to ranking questions.

Respond with only a JSON object:
{"properties": [], "tenants": [], "periods": [], "metric": "", "rank_by": "", "rank_dir": "", "expense_category": ""}`,
		strings.Join(properties, ", "), strings.Join(tenants, ", "))
}

const generateSystemPrompt = `You write a short answer to a question about a property-transaction ledger.

You are given the question and a JSON result containing the computed figures. The figures are authoritative: restate them exactly, never recompute, round, or invent numbers. Format currency with two decimals. Answer in at most a short paragraph, plus a compact list when the result ranks or compares several items. No preamble.`

func generateUserPrompt(query, resultJSON string) string {
	return fmt.Sprintf("Question: %s\n\nResult:\n%s", query, resultJSON)
}
