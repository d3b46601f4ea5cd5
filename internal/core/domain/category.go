package domain

// CategoryType tells whether a category classifies spending or earnings.
type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryExpense || t == CategoryIncome
}

// Category classifies expense and income transactions.
// (Name, CategoryType) is unique inside a scope.
type Category struct {
	CategoryID       int64        `json:"categoryId"`
	BankID           int64        `json:"bankId"`
	Year             int          `json:"year"`
	Name             string       `json:"name"`
	CategoryType     CategoryType `json:"categoryType"`
	ParentCategoryID *int64       `json:"parentCategoryId,omitempty"`
	ColorCode        string       `json:"colorCode"`
	Icon             string       `json:"icon"`
	IsDefault        bool         `json:"isDefault"`
	AuditFields
}

// Key returns the normalized uniqueness key of the category.
func (c Category) Key() CategoryKey {
	return CategoryKey{Name: NormalizeName(c.Name), Type: c.CategoryType}
}

// CategoryKey is the (name, type) pair categories are unique by.
type CategoryKey struct {
	Name string
	Type CategoryType
}

// CleanupResult reports what a duplicate-category cleanup changed.
type CleanupResult struct {
	GroupsMerged          int     `json:"groupsMerged"`
	CategoriesRemoved     int     `json:"categoriesRemoved"`
	TransactionsRepointed int64   `json:"transactionsRepointed"`
	RemovedCategoryIDs    []int64 `json:"removedCategoryIds"`
}
