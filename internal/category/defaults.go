package category

import "github.com/xiello/tracy/internal/domain"

// Default returns the built-in catalog, used when the category table is empty
// or the store is unavailable. Keyword order within a category matters as much
// as category order: the matcher takes the first keyword hit and stops.
func Default() *Catalog {
	return NewCatalog([]Definition{
		// Expenses
		{ID: "groceries", Name: "Groceries", Type: domain.TypeExpense, Group: "Essentials",
			Keywords: []string{"grocery", "groceries", "supermarket", "lidl", "aldi", "tesco", "carrefour", "walmart"}},
		{ID: "dining-out", Name: "Dining Out", Type: domain.TypeExpense, Group: "Lifestyle",
			Keywords: []string{"restaurant", "cafe", "coffee", "pizza", "burger", "takeaway", "takeout", "lunch", "dinner", "breakfast", "bar", "pub"}},
		{ID: "transport", Name: "Transport", Type: domain.TypeExpense, Group: "Essentials",
			Keywords: []string{"uber", "taxi", "bus", "train", "metro", "fuel", "gas", "parking", "toll", "flight"}},
		{ID: "housing", Name: "Housing", Type: domain.TypeExpense, Group: "Essentials",
			Keywords: []string{"rent", "mortgage", "landlord"}},
		{ID: "utilities", Name: "Utilities", Type: domain.TypeExpense, Group: "Essentials",
			Keywords: []string{"electricity", "electric", "water bill", "heating", "internet", "wifi", "phone bill", "utility"}},
		{ID: "shopping", Name: "Shopping", Type: domain.TypeExpense, Group: "Lifestyle",
			Keywords: []string{"amazon", "clothes", "clothing", "shoes", "electronics", "ikea", "shopping"}},
		{ID: "health", Name: "Health", Type: domain.TypeExpense, Group: "Essentials",
			Keywords: []string{"pharmacy", "doctor", "dentist", "hospital", "medicine", "gym"}},
		{ID: "entertainment", Name: "Entertainment", Type: domain.TypeExpense, Group: "Lifestyle",
			Keywords: []string{"cinema", "movie", "netflix", "spotify", "concert", "game", "steam"}},
		{ID: "travel", Name: "Travel", Type: domain.TypeExpense, Group: "Lifestyle",
			Keywords: []string{"hotel", "airbnb", "hostel", "holiday", "vacation"}},
		{ID: "education", Name: "Education", Type: domain.TypeExpense, Group: "Growth",
			Keywords: []string{"course", "tuition", "textbook", "udemy"}},
		{ID: "subscriptions", Name: "Subscriptions", Type: domain.TypeExpense, Group: "Lifestyle",
			Keywords: []string{"subscription", "membership"}},
		{ID: "other", Name: FallbackExpense, Type: domain.TypeExpense, Group: "Other"},

		// Income
		{ID: "salary", Name: "Salary", Type: domain.TypeIncome, Group: "Income",
			Keywords: []string{"salary", "paycheck", "wage", "payroll"}},
		{ID: "freelance", Name: "Freelance", Type: domain.TypeIncome, Group: "Income",
			Keywords: []string{"freelance", "invoice", "client", "gig"}},
		{ID: "investments", Name: "Investments", Type: domain.TypeIncome, Group: "Income",
			Keywords: []string{"dividend", "interest", "capital gain"}},
		{ID: "gifts", Name: "Gifts", Type: domain.TypeIncome, Group: "Income",
			Keywords: []string{"gift from", "sent me"}},
		{ID: "refunds", Name: "Refunds", Type: domain.TypeIncome, Group: "Income",
			Keywords: []string{"refund", "cashback", "reimbursement"}},
		{ID: "other-income", Name: FallbackIncome, Type: domain.TypeIncome, Group: "Income"},
	})
}
