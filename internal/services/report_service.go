package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
)

// reportService aggregates the transaction log into reports. Everything is
// computed on demand from stored state, so every report reflects all
// committed mutations.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// monthWindow returns the inclusive [start, end] range of a calendar month.
func monthWindow(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// weekStart returns the Monday 00:00 of t's calendar week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	year, month, day := t.AddDate(0, 0, -offset).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func (s *reportService) rangeTransactions(userID string, from, to time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := s.db.Preload("Category").Preload("Wallet").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, to).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func summarize(transactions []models.Transaction) Summary {
	var summary Summary
	for i := range transactions {
		if transactions[i].Type == models.TransactionTypeIncome {
			summary.TotalIncome += transactions[i].Amount
		} else {
			summary.TotalExpense += transactions[i].Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalExpense
	summary.TransactionCount = len(transactions)
	return summary
}

// breakdownByCategory groups transactions of one type by category, sums and
// counts each group, and assigns each group its rounded share of the grand
// total. Groups are sorted by total descending; ties keep first-seen order.
func breakdownByCategory(transactions []models.Transaction, transactionType models.TransactionType) []CategoryBreakdownEntry {
	entries := make([]CategoryBreakdownEntry, 0)
	index := make(map[string]int)
	var grandTotal int64

	for i := range transactions {
		t := &transactions[i]
		if t.Type != transactionType {
			continue
		}
		pos, ok := index[t.CategoryID]
		if !ok {
			pos = len(entries)
			index[t.CategoryID] = pos
			entries = append(entries, CategoryBreakdownEntry{
				CategoryID: t.CategoryID,
				Name:       t.Category.Name,
				Icon:       t.Category.Icon,
			})
		}
		entries[pos].Total += t.Amount
		entries[pos].Count++
		grandTotal += t.Amount
	}

	for i := range entries {
		entries[i].Percentage = roundedShare(entries[i].Total, grandTotal)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
	return entries
}

// roundedShare returns round(part/total*100), or 0 when total is zero.
func roundedShare(part, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// MonthlyReport aggregates one calendar month: summary, category breakdowns,
// a zero-filled daily series, and the transaction list itself.
func (s *reportService) MonthlyReport(userID string, month time.Month, year int) (*MonthlyReport, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12")
	}

	start, end := monthWindow(year, month, time.Local)
	transactions, err := s.rangeTransactions(userID, start, end)
	if err != nil {
		return nil, err
	}

	daysInMonth := start.AddDate(0, 1, -1).Day()
	daily := make([]DailyPoint, daysInMonth)
	for i := range daily {
		daily[i].Day = i + 1
	}
	for i := range transactions {
		t := &transactions[i]
		day := t.Date.Day()
		if t.Type == models.TransactionTypeIncome {
			daily[day-1].Income += t.Amount
		} else {
			daily[day-1].Expense += t.Amount
		}
	}

	return &MonthlyReport{
		Month:             int(month),
		Year:              year,
		Summary:           summarize(transactions),
		ExpenseByCategory: breakdownByCategory(transactions, models.TransactionTypeExpense),
		IncomeByCategory:  breakdownByCategory(transactions, models.TransactionTypeIncome),
		DailyData:         daily,
		Transactions:      transactions,
	}, nil
}

// Trend buckets the date range by calendar week (starting Monday) or
// calendar month. Every bucket covering the range is emitted, including
// empty ones, in chronological order.
func (s *reportService) Trend(userID string, granularity TrendGranularity, from, to time.Time) (*TrendReport, error) {
	if to.Before(from) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end of range is before its start")
	}

	transactions, err := s.rangeTransactions(userID, from, to)
	if err != nil {
		return nil, err
	}

	var (
		buckets []TrendBucket
		index   = make(map[string]int)
	)

	switch granularity {
	case TrendWeekly:
		for cursor := weekStart(from); !cursor.After(to); cursor = cursor.AddDate(0, 0, 7) {
			index[cursor.Format("2006-01-02")] = len(buckets)
			buckets = append(buckets, TrendBucket{Label: cursor.Format("2/1")})
		}
		for i := range transactions {
			t := &transactions[i]
			if pos, ok := index[weekStart(t.Date).Format("2006-01-02")]; ok {
				addToBucket(&buckets[pos], t)
			}
		}
	case TrendMonthly:
		first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
		for cursor := first; !cursor.After(to); cursor = cursor.AddDate(0, 1, 0) {
			index[cursor.Format("2006-01")] = len(buckets)
			buckets = append(buckets, TrendBucket{Label: cursor.Format("Jan 06")})
		}
		for i := range transactions {
			t := &transactions[i]
			if pos, ok := index[t.Date.Format("2006-01")]; ok {
				addToBucket(&buckets[pos], t)
			}
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "granularity must be weekly or monthly")
	}

	for i := range buckets {
		buckets[i].Balance = buckets[i].Income - buckets[i].Expense
	}

	report := &TrendReport{
		Granularity: granularity,
		Buckets:     buckets,
	}
	if len(buckets) > 0 {
		var incomeSum, expenseSum int64
		for i := range buckets {
			incomeSum += buckets[i].Income
			expenseSum += buckets[i].Expense
		}
		report.AvgIncome = roundedMean(incomeSum, len(buckets))
		report.AvgExpense = roundedMean(expenseSum, len(buckets))
		report.AvgBalance = report.AvgIncome - report.AvgExpense
	}
	return report, nil
}

func addToBucket(bucket *TrendBucket, t *models.Transaction) {
	if t.Type == models.TransactionTypeIncome {
		bucket.Income += t.Amount
	} else {
		bucket.Expense += t.Amount
	}
}

func roundedMean(sum int64, n int) int64 {
	return int64(math.Round(float64(sum) / float64(n)))
}

// Comparison reports the current calendar month against the previous one.
// A change from zero to a positive value counts as a full 100% swing.
func (s *reportService) Comparison(userID string, ref time.Time) (*ComparisonReport, error) {
	currentStart, currentEnd := monthWindow(ref.Year(), ref.Month(), ref.Location())
	previousFirst := currentStart.AddDate(0, -1, 0)
	previousStart, previousEnd := monthWindow(previousFirst.Year(), previousFirst.Month(), ref.Location())

	currentTx, err := s.rangeTransactions(userID, currentStart, currentEnd)
	if err != nil {
		return nil, err
	}
	previousTx, err := s.rangeTransactions(userID, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}

	current := summarize(currentTx)
	previous := summarize(previousTx)

	incomeChange := changePercent(current.TotalIncome, previous.TotalIncome)
	expenseChange := changePercent(current.TotalExpense, previous.TotalExpense)

	return &ComparisonReport{
		Current: MonthSnapshot{
			Label:   currentStart.Format("January 2006"),
			Income:  current.TotalIncome,
			Expense: current.TotalExpense,
			Balance: current.Balance,
		},
		Previous: MonthSnapshot{
			Label:   previousStart.Format("January 2006"),
			Income:  previous.TotalIncome,
			Expense: previous.TotalExpense,
			Balance: previous.Balance,
		},
		IncomeChange:     incomeChange,
		ExpenseChange:    expenseChange,
		IncomeDirection:  direction(incomeChange),
		ExpenseDirection: direction(expenseChange),
	}, nil
}

// changePercent returns the rounded percentage change from previous to
// current. A previous of zero counts as a full positive swing when current
// is positive, and no change when both are zero.
func changePercent(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}

func direction(change int) string {
	if change >= 0 {
		return "up"
	}
	return "down"
}
