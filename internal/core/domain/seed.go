package domain

// SeedCategory describes one category created for every new scope.
type SeedCategory struct {
	Name      string
	Type      CategoryType
	ColorCode string
	Icon      string
}

// SeedAccount describes the default account created for every new scope.
type SeedAccount struct {
	Name        string
	AccountType AccountType
	ColorCode   string
	Icon        string
}

// DefaultSeed is the set of rows every scope starts with.
type DefaultSeed struct {
	Categories []SeedCategory
	Account    SeedAccount
	// Categories restored transactions fall back to when their own category
	// cannot be matched.
	FallbackExpense string
	FallbackIncome  string
}

// FallbackName returns the fallback category name for the given type.
func (s DefaultSeed) FallbackName(t CategoryType) string {
	if t == CategoryIncome {
		return s.FallbackIncome
	}
	return s.FallbackExpense
}

// StandardSeed returns the stock defaults: three income and seven expense
// categories plus a "Petty Cash" account.
func StandardSeed() DefaultSeed {
	return DefaultSeed{
		Categories: []SeedCategory{
			{Name: "Salary", Type: CategoryIncome, ColorCode: "#4CAF50", Icon: "briefcase"},
			{Name: "Business", Type: CategoryIncome, ColorCode: "#2196F3", Icon: "store"},
			{Name: "Other Income", Type: CategoryIncome, ColorCode: "#9C27B0", Icon: "plus-circle"},
			{Name: "Food & Dining", Type: CategoryExpense, ColorCode: "#FF5722", Icon: "utensils"},
			{Name: "Transportation", Type: CategoryExpense, ColorCode: "#795548", Icon: "car"},
			{Name: "Shopping", Type: CategoryExpense, ColorCode: "#E91E63", Icon: "shopping-bag"},
			{Name: "Bills & Utilities", Type: CategoryExpense, ColorCode: "#607D8B", Icon: "file-invoice"},
			{Name: "Entertainment", Type: CategoryExpense, ColorCode: "#FFC107", Icon: "film"},
			{Name: "Healthcare", Type: CategoryExpense, ColorCode: "#F44336", Icon: "heartbeat"},
			{Name: "Other Expenses", Type: CategoryExpense, ColorCode: "#9E9E9E", Icon: "ellipsis-h"},
		},
		Account: SeedAccount{
			Name:        "Petty Cash",
			AccountType: AccountCash,
			ColorCode:   "#8BC34A",
			Icon:        "wallet",
		},
		FallbackExpense: "Other Expenses",
		FallbackIncome:  "Other Income",
	}
}

// SeedResult reports what SeedDefaults inserted.
type SeedResult struct {
	CategoriesCreated     int  `json:"categoriesCreated"`
	DefaultAccountCreated bool `json:"defaultAccountCreated"`
}
