package pipeline

import (
	"strings"
)

// buildExtractionPrompt assembles the structured-extraction request: the
// candidate text, today's date for relative-phrase resolution, and the only
// category names the model is allowed to return.
func buildExtractionPrompt(text, today string, expenseNames, incomeNames []string) string {
	var b strings.Builder

	b.WriteString("You are a personal finance transaction parser.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract exactly one transaction from the input text below.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n")
	b.WriteString("- Output a single JSON object.\n\n")

	b.WriteString("The object must have these fields:\n")
	b.WriteString("- \"amount\": number (always positive, never signed)\n")
	b.WriteString("- \"type\": string, \"income\" or \"expense\"\n")
	b.WriteString("- \"category\": string (one of the predefined categories below)\n")
	b.WriteString("- \"merchant\": string or null\n")
	b.WriteString("- \"description\": string (short, cleaned up)\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n")
	b.WriteString("- \"confidence\": number between 0 and 1\n\n")

	b.WriteString("Use ONLY the following categories:\n\n")
	b.WriteString("Expense categories:\n")
	for _, name := range expenseNames {
		b.WriteString("  - " + name + "\n")
	}
	b.WriteString("\nIncome categories:\n")
	for _, name := range incomeNames {
		b.WriteString("  - " + name + "\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- Today's date is " + today + "; resolve relative phrases like \"yesterday\" against it.\n")
	b.WriteString("- If no category fits, use \"Other\" for expenses or \"Other Income\" for income.\n")
	b.WriteString("- Return ONLY valid raw JSON.\n")
	b.WriteString("- Do NOT wrap the response in code fences.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n\n")

	b.WriteString("Input text:\n")
	b.WriteString(text)

	return b.String()
}
