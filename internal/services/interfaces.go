package services

import (
	"time"

	"gorm.io/gorm"

	"kasku/internal/models"
	"kasku/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, username, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// WalletUpdateFields holds optional fields for a wallet update.
type WalletUpdateFields struct {
	Name  *string
	Type  *models.WalletType
	Icon  *string
	Color *string
}

// WalletServicer defines the contract for wallet-related business logic.
type WalletServicer interface {
	CreateWallet(userID, name string, walletType models.WalletType, initialBalance int64, icon, color string) (*models.Wallet, error)
	GetUserWallets(userID string) ([]models.Wallet, error)
	GetWalletByID(userID, walletID string) (*models.Wallet, error)
	UpdateWallet(userID, walletID string, fields WalletUpdateFields) (*models.Wallet, error)
	DeleteWallet(userID, walletID string) error
	ApplyBalanceDelta(tx *gorm.DB, walletID string, delta int64) error
}

// CategoryUpdateFields holds optional fields for a category update.
type CategoryUpdateFields struct {
	Name  *string
	Type  *models.CategoryType
	Icon  *string
	Color *string
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name string, categoryType models.CategoryType, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, categoryType *models.CategoryType) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, fields CategoryUpdateFields) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *string
	WalletID   *string
}

// TransactionUpdateFields holds optional fields for a transaction update.
// Any combination may be set; the balance effect of the old state is always
// reversed before the new state is applied.
type TransactionUpdateFields struct {
	WalletID    *string
	CategoryID  *string
	Type        *models.TransactionType
	Amount      *int64
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction mutations and queries.
type TransactionServicer interface {
	CreateTransaction(userID, walletID, categoryID string, transactionType models.TransactionType, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetStatus classifies an envelope's spending level.
type BudgetStatus string

const (
	BudgetStatusOnTrack   BudgetStatus = "on-track"
	BudgetStatusNearLimit BudgetStatus = "near-limit"
	BudgetStatusOver      BudgetStatus = "over"
)

// BudgetEnvelope is a budget together with its derived spending figures.
// Spent is recomputed from the transaction log on every read.
type BudgetEnvelope struct {
	ID           string              `json:"id"`
	CategoryID   string              `json:"category_id"`
	CategoryName string              `json:"category_name"`
	CategoryIcon string              `json:"category_icon"`
	Amount       int64               `json:"amount"`
	Spent        int64               `json:"spent"`
	Remaining    int64               `json:"remaining"`
	Percentage   int                 `json:"percentage"`
	IsOverBudget bool                `json:"is_over_budget"`
	IsNearLimit  bool                `json:"is_near_limit"`
	Status       BudgetStatus        `json:"status"`
	Period       models.BudgetPeriod `json:"period"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
}

// BudgetUpdateFields holds optional fields for a budget update.
type BudgetUpdateFields struct {
	CategoryID *string
	Amount     *int64
	Period     *models.BudgetPeriod
	StartDate  *time.Time
	EndDate    *time.Time
}

// BudgetServicer defines the contract for budget envelope logic.
type BudgetServicer interface {
	CreateBudget(userID, categoryID string, amount int64, period models.BudgetPeriod, startDate, endDate time.Time) (*BudgetEnvelope, error)
	GetUserBudgets(userID string) ([]BudgetEnvelope, error)
	GetBudgetByID(userID, budgetID string) (*BudgetEnvelope, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*BudgetEnvelope, error)
	DeleteBudget(userID, budgetID string) error
}

// TrendGranularity selects the bucket size for trend reports.
type TrendGranularity string

const (
	TrendWeekly  TrendGranularity = "weekly"
	TrendMonthly TrendGranularity = "monthly"
)

// Summary holds income/expense totals for a transaction set.
type Summary struct {
	TotalIncome      int64 `json:"total_income"`
	TotalExpense     int64 `json:"total_expense"`
	Balance          int64 `json:"balance"`
	TransactionCount int   `json:"transaction_count"`
}

// CategoryBreakdownEntry is one category's share of a month's income or expense.
type CategoryBreakdownEntry struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Total      int64  `json:"total"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// DailyPoint is one day's income/expense totals inside a monthly report.
type DailyPoint struct {
	Day     int   `json:"day"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// MonthlyReport aggregates one calendar month of transactions.
type MonthlyReport struct {
	Month             int                      `json:"month"`
	Year              int                      `json:"year"`
	Summary           Summary                  `json:"summary"`
	ExpenseByCategory []CategoryBreakdownEntry `json:"expense_by_category"`
	IncomeByCategory  []CategoryBreakdownEntry `json:"income_by_category"`
	DailyData         []DailyPoint             `json:"daily_data"`
	Transactions      []models.Transaction     `json:"transactions"`
}

// TrendBucket is one time bucket of a trend report. Buckets with no
// transactions are still emitted with zero sums.
type TrendBucket struct {
	Label   string `json:"label"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Balance int64  `json:"balance"`
}

// TrendReport holds chronologically ordered trend buckets plus averages.
type TrendReport struct {
	Granularity TrendGranularity `json:"granularity"`
	Buckets     []TrendBucket    `json:"buckets"`
	AvgIncome   int64            `json:"avg_income"`
	AvgExpense  int64            `json:"avg_expense"`
	AvgBalance  int64            `json:"avg_balance"`
}

// MonthSnapshot is one month's totals inside a comparison report.
type MonthSnapshot struct {
	Label   string `json:"label"`
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
	Balance int64  `json:"balance"`
}

// ComparisonReport compares the current calendar month against the previous one.
type ComparisonReport struct {
	Current          MonthSnapshot `json:"current"`
	Previous         MonthSnapshot `json:"previous"`
	IncomeChange     int           `json:"income_change"`
	ExpenseChange    int           `json:"expense_change"`
	IncomeDirection  string        `json:"income_direction"`
	ExpenseDirection string        `json:"expense_direction"`
}

// ReportServicer defines the contract for report aggregation. All reports are
// recomputed from stored transactions on every call.
type ReportServicer interface {
	MonthlyReport(userID string, month time.Month, year int) (*MonthlyReport, error)
	Trend(userID string, granularity TrendGranularity, from, to time.Time) (*TrendReport, error)
	Comparison(userID string, ref time.Time) (*ComparisonReport, error)
}

// ReminderFilter holds optional filter parameters for listing reminders.
type ReminderFilter struct {
	Upcoming bool
	IsPaid   *bool
}

// ReminderView is a reminder together with its derived due-state fields.
type ReminderView struct {
	models.Reminder
	IsOverdue    bool `json:"is_overdue"`
	DaysUntilDue int  `json:"days_until_due"`
}

// ReminderUpdateFields holds optional fields for a reminder update.
type ReminderUpdateFields struct {
	Title       *string
	Amount      *int64
	CategoryID  *string
	WalletID    *string
	DueDate     *time.Time
	IsRecurring *bool
	Frequency   *models.ReminderFrequency
}

// ReminderServicer defines the contract for bill reminder logic.
type ReminderServicer interface {
	CreateReminder(userID, title string, amount int64, categoryID, walletID *string, dueDate time.Time, isRecurring bool, frequency *models.ReminderFrequency) (*models.Reminder, error)
	GetUserReminders(userID string, filter ReminderFilter) ([]ReminderView, error)
	UpdateReminder(userID, reminderID string, fields ReminderUpdateFields) (*models.Reminder, error)
	MarkPaid(userID, reminderID string) (*models.Reminder, *models.Reminder, error)
	DeleteReminder(userID, reminderID string) error
}
