package services

import (
	"fmt"
	"strings"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/utils/ledger"
)

const jsonOnlyInstruction = "Respond with a single JSON object only, no markdown and no commentary."

const receiptPrompt = `Extract the following details from this medical receipt:
- date of service (YYYY-MM-DD)
- provider name (pharmacy, clinic, hospital or doctor)
- total amount paid, as a number without currency symbols
- short description of what was purchased or performed
- category: one of medication, consultation, test, hospital, other
- any insurance information (claim numbers, covered amounts)

Return {"date": "", "provider": "", "amount": 0, "description": "", "category": "", "insuranceInfo": ""}.
Leave a field empty when it cannot be read.`

const chatSystemPrompt = `You are a helpful assistant for a personal medical expense tracker.
Answer questions about healthcare costs, insurance, medications and saving money on care.
Keep answers short and practical. You are not a doctor; for medical decisions tell the user to consult a professional.`

func insightsPrompt(req domain.InsightsRequest) string {
	var b strings.Builder
	b.WriteString("You are a medical expense analysis assistant. Analyse the spending below and help the user reduce their healthcare costs.\n\nExpense categories:\n")
	for _, c := range req.Categories {
		fmt.Fprintf(&b, "- %s: $%s\n", c.Name, ledger.FormatAmount(c.Total))
	}
	fmt.Fprintf(&b, "\nTotal expenses: $%s\n\nRecent expenses:\n", ledger.FormatAmount(req.TotalExpenses))
	for _, e := range req.RecentExpenses {
		fmt.Fprintf(&b, "- %s: $%s (%s)\n", e.Name, ledger.FormatAmount(e.Amount), e.Category)
	}
	b.WriteString(`
Provide a brief analysis of the spending patterns, 3 to 5 specific actionable recommendations, and a short summary of potential savings.
Return {"analysis": "...", "recommendations": ["..."], "summary": "..."}.
`)
	b.WriteString(jsonOnlyInstruction)
	return b.String()
}

// serviceKind names the kind of care used in service-category prompts.
var serviceKind = map[domain.Category]string{
	domain.CategoryConsultation: "doctor visits",
	domain.CategoryTest:         "medical tests",
	domain.CategoryHospital:     "hospital services",
}

func alternativesPrompt(req domain.AlternativesRequest) string {
	var b strings.Builder
	b.WriteString("You are a medical expense advisor. A user recorded this expense:\n\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.ExpenseName)
	if req.ExpenseAmount.IsPositive() {
		fmt.Fprintf(&b, "- Amount: $%s\n", ledger.FormatAmount(req.ExpenseAmount))
	}
	if req.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", req.Category)
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "- Notes: %s\n", req.Notes)
	}
	b.WriteString("\n")

	if req.Category == domain.CategoryMedication {
		b.WriteString(`Identify the medical items in the name and notes, ignoring non-medical purchases.
For each item suggest up to 3 alternative brands or generics with EXACTLY the same active ingredients and composition.
`)
	} else if kind, ok := serviceKind[req.Category]; ok {
		fmt.Fprintf(&b, "Suggest up to 3 alternative %s that provide similar care at a lower cost than the original amount.\n", kind)
	} else {
		b.WriteString(`Decide whether this is a medication or a medical service.
For medications suggest up to 3 alternatives with identical active ingredients; for services suggest up to 3 cheaper providers of similar care.
`)
	}

	b.WriteString(`For each alternative give its name, an estimated cost in dollars and a one-sentence explanation.
Return {"medicalItems": [{"originalItem": "...", "alternatives": [{"name": "...", "estimatedCost": "...", "explanation": "..."}]}]}.
If nothing medical can be identified return {"medicalItems": []}.
`)
	b.WriteString(jsonOnlyInstruction)
	return b.String()
}
