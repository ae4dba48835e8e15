package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
	"kasku/internal/pagination"
)

// transactionService coordinates transaction mutations. Every mutation that
// changes a transaction's effective state adjusts the owning wallet's balance
// in the same atomic unit, so the balance invariant (balance == sum of signed
// amounts of live transactions) holds after every commit.
type transactionService struct {
	db            *gorm.DB
	walletService WalletServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, walletService WalletServicer) TransactionServicer {
	return &transactionService{
		db:            db,
		walletService: walletService,
	}
}

// validateCategory checks that the category exists, belongs to the user, and
// matches the transaction type.
func (s *transactionService) validateCategory(userID, categoryID string, transactionType models.TransactionType) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if string(category.Type) != string(transactionType) {
		return nil, apperrors.ErrCategoryTypeMismatch
	}
	return &category, nil
}

// CreateTransaction records a new income or expense and applies its balance
// delta to the wallet atomically.
func (s *transactionService) CreateTransaction(
	userID, walletID, categoryID string,
	transactionType models.TransactionType,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if date.IsZero() {
		date = time.Now()
	}

	wallet, err := s.walletService.GetWalletByID(userID, walletID)
	if err != nil {
		return nil, err
	}
	if _, err := s.validateCategory(userID, categoryID, transactionType); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		WalletID:    wallet.ID,
		CategoryID:  categoryID,
		Type:        transactionType,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = runAtomic(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return err
		}
		return s.walletService.ApplyBalanceDelta(tx, wallet.ID, transaction.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions, newest first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").Preload("Wallet").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.WalletID != nil {
		q = q.Where("wallet_id = ?", *f.WalletID)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction edits a transaction. The old balance effect is reversed
// on the original wallet before the new effect is applied on the (possibly
// different) new wallet, all within one atomic unit.
func (s *transactionService) UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	oldWalletID := transaction.WalletID
	oldDelta := transaction.SignedAmount()

	// Resolve the target state.
	newWalletID := transaction.WalletID
	if fields.WalletID != nil {
		newWalletID = *fields.WalletID
	}
	newCategoryID := transaction.CategoryID
	if fields.CategoryID != nil {
		newCategoryID = *fields.CategoryID
	}
	newType := transaction.Type
	if fields.Type != nil {
		newType = *fields.Type
	}
	newAmount := transaction.Amount
	if fields.Amount != nil {
		newAmount = *fields.Amount
	}

	if newAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if newWalletID != oldWalletID {
		if _, err := s.walletService.GetWalletByID(userID, newWalletID); err != nil {
			return nil, err
		}
	}
	if _, err := s.validateCategory(userID, newCategoryID, newType); err != nil {
		return nil, err
	}

	transaction.WalletID = newWalletID
	transaction.CategoryID = newCategoryID
	transaction.Type = newType
	transaction.Amount = newAmount
	if fields.Description != nil {
		transaction.Description = *fields.Description
	}
	if fields.Date != nil {
		transaction.Date = *fields.Date
	}

	err = runAtomic(s.db, func(tx *gorm.DB) error {
		// Reverse the old effect first so a wallet change never double-counts.
		if err := s.walletService.ApplyBalanceDelta(tx, oldWalletID, -oldDelta); err != nil {
			return err
		}
		if err := tx.Save(transaction).Error; err != nil {
			return err
		}
		return s.walletService.ApplyBalanceDelta(tx, newWalletID, transaction.SignedAmount())
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction and reverses its balance effect
// on the wallet atomically.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return runAtomic(s.db, func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return err
		}
		return s.walletService.ApplyBalanceDelta(tx, transaction.WalletID, -transaction.SignedAmount())
	})
}
