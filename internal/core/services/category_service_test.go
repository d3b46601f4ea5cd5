package services_test

import (
	"time"

	"github.com/SscSPs/ledgerbook/internal/apperrors"
	"github.com/SscSPs/ledgerbook/internal/core/domain"
	"github.com/SscSPs/ledgerbook/internal/dto"
)

func (suite *LedgerServicesTestSuite) TestCreateCategory_DuplicateKey() {
	_, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:         " food & dining",
		CategoryType: domain.CategoryExpense,
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	// Same name with the other type is a different key.
	created, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:         "Food & Dining",
		CategoryType: domain.CategoryIncome,
	})
	suite.Require().NoError(err)
	suite.False(created.IsDefault)
}

func (suite *LedgerServicesTestSuite) TestCreateCategory_DuplicateKeyFoldsUnicode() {
	_, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:         "Éclair",
		CategoryType: domain.CategoryExpense,
	})
	suite.Require().NoError(err)

	_, err = suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:         "éclair",
		CategoryType: domain.CategoryExpense,
	})
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	result, err := suite.svc.Category.CleanupDuplicateCategories(suite.ctx, suite.scope)
	suite.Require().NoError(err)
	suite.Zero(result.CategoriesRemoved, "nothing left for cleanup to merge")
}

func (suite *LedgerServicesTestSuite) TestCreateCategory_ParentMustShareType() {
	salary := suite.categoryID(suite.scope, "Salary", domain.CategoryIncome)
	_, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:             "Groceries",
		CategoryType:     domain.CategoryExpense,
		ParentCategoryID: &salary,
	})
	suite.ErrorIs(err, apperrors.ErrValidation)

	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	child, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{
		Name:             "Groceries",
		CategoryType:     domain.CategoryExpense,
		ParentCategoryID: &food,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(child.ParentCategoryID)
	suite.Equal(food, *child.ParentCategoryID)

	updated, err := suite.svc.Category.UpdateCategory(suite.ctx, suite.scope, child.CategoryID, dto.UpdateCategoryRequest{ClearParent: true})
	suite.Require().NoError(err)
	suite.Nil(updated.ParentCategoryID)
}

func (suite *LedgerServicesTestSuite) TestUpdateCategory_Guards() {
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	rename := "Eating Out"
	_, err := suite.svc.Category.UpdateCategory(suite.ctx, suite.scope, food, dto.UpdateCategoryRequest{Name: &rename})
	suite.ErrorIs(err, apperrors.ErrConstraint)

	color := "#000000"
	updated, err := suite.svc.Category.UpdateCategory(suite.ctx, suite.scope, food, dto.UpdateCategoryRequest{ColorCode: &color})
	suite.Require().NoError(err)
	suite.Equal(color, updated.ColorCode)

	custom, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{Name: "Pets", CategoryType: domain.CategoryExpense})
	suite.Require().NoError(err)
	acc := suite.createAccount(suite.scope, "Checking", "100")
	_, err = suite.svc.Transaction.CreateTransaction(suite.ctx, suite.scope, dto.TransactionRequest{
		TransactionType: domain.TransactionExpense,
		Amount:          amount("5"),
		Date:            "2024-03-03",
		AccountID:       acc.AccountID,
		CategoryID:      &custom.CategoryID,
	})
	suite.Require().NoError(err)

	income := domain.CategoryIncome
	_, err = suite.svc.Category.UpdateCategory(suite.ctx, suite.scope, custom.CategoryID, dto.UpdateCategoryRequest{CategoryType: &income})
	suite.ErrorIs(err, apperrors.ErrConstraint)

	clash := "Shopping"
	_, err = suite.svc.Category.UpdateCategory(suite.ctx, suite.scope, custom.CategoryID, dto.UpdateCategoryRequest{Name: &clash})
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerServicesTestSuite) TestDeleteCategory_Guards() {
	food := suite.categoryID(suite.scope, "Food & Dining", domain.CategoryExpense)
	suite.ErrorIs(suite.svc.Category.DeleteCategory(suite.ctx, suite.scope, food), apperrors.ErrConstraint)

	custom, err := suite.svc.Category.CreateCategory(suite.ctx, suite.scope, dto.CreateCategoryRequest{Name: "Pets", CategoryType: domain.CategoryExpense})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svc.Category.DeleteCategory(suite.ctx, suite.scope, custom.CategoryID))

	_, err = suite.svc.Category.GetCategoryByID(suite.ctx, suite.scope, custom.CategoryID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorIs(suite.svc.Category.DeleteCategory(suite.ctx, suite.scope, custom.CategoryID), apperrors.ErrNotFound)
}

// TestCleanupDuplicateCategories loads duplicates the service itself would
// never create and checks that cleanup converges.
func (suite *LedgerServicesTestSuite) TestCleanupDuplicateCategories() {
	scope := domain.Scope{BankID: suite.bank.BankID, Year: 2030}
	ts := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := suite.repos.ScopeRepo.RegisterScope(suite.ctx, scope, ts)
	suite.Require().NoError(err)

	save := func(name string, isDefault bool) int64 {
		id, err := suite.repos.CategoryRepo.SaveCategory(suite.ctx, domain.Category{
			BankID: scope.BankID, Year: scope.Year, Name: name, CategoryType: domain.CategoryExpense,
			IsDefault: isDefault, AuditFields: domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
		})
		suite.Require().NoError(err)
		return id
	}
	first := save("Food", false)
	second := save("food ", true)
	suite.Less(first, second)

	accountID, err := suite.repos.AccountRepo.SaveAccount(suite.ctx, domain.Account{
		BankID: scope.BankID, Year: scope.Year, Name: "Cash", AccountType: domain.AccountCash,
		Currency: "USD", AuditFields: domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
	})
	suite.Require().NoError(err)
	txnID, err := suite.repos.TransactionRepo.SaveTransaction(suite.ctx, domain.Transaction{
		BankID: scope.BankID, Year: scope.Year, TransactionType: domain.TransactionExpense,
		Amount: amount("12"), Date: ts, AccountID: accountID, CategoryID: &second,
		Tags: []string{}, Attachments: []string{},
		AuditFields: domain.AuditFields{CreatedAt: ts, UpdatedAt: ts},
	})
	suite.Require().NoError(err)

	result, err := suite.svc.Category.CleanupDuplicateCategories(suite.ctx, scope)
	suite.Require().NoError(err)
	suite.Equal(1, result.GroupsMerged)
	suite.Equal(1, result.CategoriesRemoved)
	suite.Equal(int64(1), result.TransactionsRepointed)
	suite.Equal([]int64{second}, result.RemovedCategoryIDs)

	categories, err := suite.svc.Category.ListCategories(suite.ctx, scope, nil)
	suite.Require().NoError(err)
	suite.Require().Len(categories, 1)
	suite.Equal(first, categories[0].CategoryID)
	suite.True(categories[0].IsDefault, "canonical category inherits the default flag")

	txn, err := suite.svc.Transaction.GetTransactionByID(suite.ctx, scope, txnID)
	suite.Require().NoError(err)
	suite.Require().NotNil(txn.CategoryID)
	suite.Equal(first, *txn.CategoryID)

	again, err := suite.svc.Category.CleanupDuplicateCategories(suite.ctx, scope)
	suite.Require().NoError(err)
	suite.Equal(0, again.CategoriesRemoved)
	suite.Empty(again.RemovedCategoryIDs)
}
