package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
)

// nearLimitThreshold is the display percentage at which an envelope is
// flagged as near its limit.
const nearLimitThreshold = 80

// budgetService handles budget envelope logic. Spent amounts are always
// recomputed from the transaction log, never cached.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new envelope for an expense category. Only one
// envelope per (category, period cadence) may exist at a time.
func (s *budgetService) CreateBudget(userID, categoryID string, amount int64, period models.BudgetPeriod, startDate, endDate time.Time) (*BudgetEnvelope, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !endDate.After(startDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end date must be after start date")
	}

	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if category.Type != models.CategoryTypeExpense {
		return nil, apperrors.ErrBudgetCategoryType
	}

	var count int64
	if err := s.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND period = ?", userID, categoryID, period).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateBudget
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  startDate,
		EndDate:    endDate,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.Category = category

	return s.toEnvelope(userID, budget)
}

// GetUserBudgets returns all of the user's envelopes with derived spending
// figures, newest first.
func (s *budgetService) GetUserBudgets(userID string) ([]BudgetEnvelope, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	envelopes := make([]BudgetEnvelope, 0, len(budgets))
	for i := range budgets {
		envelope, err := s.toEnvelope(userID, &budgets[i])
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, *envelope)
	}
	return envelopes, nil
}

// GetBudgetByID returns one envelope with derived spending figures.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetEnvelope, error) {
	budget, err := s.loadBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.toEnvelope(userID, budget)
}

// UpdateBudget updates an envelope's fields, re-checking the one-envelope-
// per-(category, cadence) rule when either part of the key changes.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*BudgetEnvelope, error) {
	budget, err := s.loadBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	newCategoryID := budget.CategoryID
	if fields.CategoryID != nil {
		newCategoryID = *fields.CategoryID
	}
	newPeriod := budget.Period
	if fields.Period != nil {
		newPeriod = *fields.Period
	}

	if newCategoryID != budget.CategoryID {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", newCategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if category.Type != models.CategoryTypeExpense {
			return nil, apperrors.ErrBudgetCategoryType
		}
	}

	if newCategoryID != budget.CategoryID || newPeriod != budget.Period {
		var count int64
		if err := s.db.Model(&models.Budget{}).
			Where("user_id = ? AND category_id = ? AND period = ? AND id <> ?", userID, newCategoryID, newPeriod, budgetID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateBudget
		}
	}

	updates := map[string]interface{}{
		"category_id": newCategoryID,
		"period":      newPeriod,
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.StartDate != nil {
		updates["start_date"] = *fields.StartDate
	}
	if fields.EndDate != nil {
		updates["end_date"] = *fields.EndDate
	}

	if err := s.db.Model(budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Reload so the envelope reflects the stored state.
	budget, err = s.loadBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.toEnvelope(userID, budget)
}

// DeleteBudget removes an envelope. Transactions are untouched.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.loadBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) loadBudget(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Category").Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// spent sums the expense transactions of the budget's category within its
// period window.
func (s *budgetService) spent(userID string, budget *models.Budget) (int64, error) {
	var spent int64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category_id = ? AND type = ? AND date BETWEEN ? AND ?",
			userID, budget.CategoryID, models.TransactionTypeExpense, budget.StartDate, budget.EndDate).
		Scan(&spent).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return spent, nil
}

func (s *budgetService) toEnvelope(userID string, budget *models.Budget) (*BudgetEnvelope, error) {
	spent, err := s.spent(userID, budget)
	if err != nil {
		return nil, err
	}
	envelope := newEnvelope(budget, spent)
	return &envelope, nil
}

// newEnvelope derives the spending figures for one budget. The over-budget
// determination uses the raw spent amount; the percentage is capped at 100
// only for display.
func newEnvelope(budget *models.Budget, spent int64) BudgetEnvelope {
	var (
		percentage   int
		isOverBudget bool
	)
	if budget.Amount == 0 {
		percentage = 0
		isOverBudget = spent > 0
	} else {
		percentage = int(math.Round(float64(spent) / float64(budget.Amount) * 100))
		isOverBudget = spent > budget.Amount
	}
	if percentage > 100 {
		percentage = 100
	}

	isNearLimit := !isOverBudget && percentage >= nearLimitThreshold

	status := BudgetStatusOnTrack
	switch {
	case isOverBudget:
		status = BudgetStatusOver
	case isNearLimit:
		status = BudgetStatusNearLimit
	}

	return BudgetEnvelope{
		ID:           budget.ID,
		CategoryID:   budget.CategoryID,
		CategoryName: budget.Category.Name,
		CategoryIcon: budget.Category.Icon,
		Amount:       budget.Amount,
		Spent:        spent,
		Remaining:    budget.Amount - spent,
		Percentage:   percentage,
		IsOverBudget: isOverBudget,
		IsNearLimit:  isNearLimit,
		Status:       status,
		Period:       budget.Period,
		StartDate:    budget.StartDate,
		EndDate:      budget.EndDate,
	}
}
