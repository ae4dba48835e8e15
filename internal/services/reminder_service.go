package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
)

type reminderService struct {
	db         *gorm.DB
	categories CategoryServicer
	wallets    WalletServicer
}

// NewReminderService creates a new ReminderServicer.
func NewReminderService(db *gorm.DB, categories CategoryServicer, wallets WalletServicer) ReminderServicer {
	return &reminderService{db: db, categories: categories, wallets: wallets}
}

// addMonthsClamped advances t by the given number of months, clamping the
// day to the last valid day of the target month. Jan 31 plus one month is
// Feb 28 (or 29), never Mar 2.
func addMonthsClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location()).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// NextDueDate returns the due date of the occurrence after the given one.
func NextDueDate(due time.Time, frequency models.ReminderFrequency) time.Time {
	switch frequency {
	case models.ReminderFrequencyDaily:
		return due.AddDate(0, 0, 1)
	case models.ReminderFrequencyWeekly:
		return due.AddDate(0, 0, 7)
	case models.ReminderFrequencyMonthly:
		return addMonthsClamped(due, 1)
	case models.ReminderFrequencyYearly:
		return addMonthsClamped(due, 12)
	}
	return due
}

func (s *reminderService) validateReferences(userID string, categoryID, walletID *string) error {
	if categoryID != nil {
		if _, err := s.categories.GetCategoryByID(userID, *categoryID); err != nil {
			return err
		}
	}
	if walletID != nil {
		if _, err := s.wallets.GetWalletByID(userID, *walletID); err != nil {
			return err
		}
	}
	return nil
}

// CreateReminder creates a bill reminder. Recurring reminders must carry a
// frequency; one-off reminders must not.
func (s *reminderService) CreateReminder(userID, title string, amount int64, categoryID, walletID *string, dueDate time.Time, isRecurring bool, frequency *models.ReminderFrequency) (*models.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if isRecurring && frequency == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring reminders require a frequency")
	}
	if !isRecurring {
		frequency = nil
	}
	if err := s.validateReferences(userID, categoryID, walletID); err != nil {
		return nil, err
	}

	reminder := &models.Reminder{
		UserID:      userID,
		Title:       title,
		Amount:      amount,
		CategoryID:  categoryID,
		WalletID:    walletID,
		DueDate:     dueDate,
		IsRecurring: isRecurring,
		Frequency:   frequency,
	}
	if err := s.db.Create(reminder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminder, nil
}

func toReminderView(reminder models.Reminder, now time.Time) ReminderView {
	view := ReminderView{Reminder: reminder}
	if !reminder.IsPaid {
		view.IsOverdue = reminder.DueDate.Before(now)
		view.DaysUntilDue = int(math.Ceil(reminder.DueDate.Sub(now).Hours() / 24))
	}
	return view
}

// GetUserReminders lists reminders ordered by due date. The Upcoming filter
// keeps only unpaid reminders due within the next 7 days or overdue.
func (s *reminderService) GetUserReminders(userID string, filter ReminderFilter) ([]ReminderView, error) {
	query := s.db.Where("user_id = ?", userID)
	now := time.Now()

	if filter.Upcoming {
		query = query.Where("is_paid = ? AND due_date <= ?", false, now.AddDate(0, 0, 7))
	} else if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}

	var reminders []models.Reminder
	if err := query.Order("due_date ASC").Find(&reminders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]ReminderView, 0, len(reminders))
	for _, reminder := range reminders {
		views = append(views, toReminderView(reminder, now))
	}
	return views, nil
}

func (s *reminderService) loadReminder(userID, reminderID string) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := s.db.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReminderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &reminder, nil
}

// UpdateReminder applies the provided fields to a reminder.
func (s *reminderService) UpdateReminder(userID, reminderID string, fields ReminderUpdateFields) (*models.Reminder, error) {
	reminder, err := s.loadReminder(userID, reminderID)
	if err != nil {
		return nil, err
	}

	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
		}
		reminder.Title = title
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
		}
		reminder.Amount = *fields.Amount
	}
	if fields.CategoryID != nil {
		reminder.CategoryID = fields.CategoryID
	}
	if fields.WalletID != nil {
		reminder.WalletID = fields.WalletID
	}
	if err := s.validateReferences(userID, reminder.CategoryID, reminder.WalletID); err != nil {
		return nil, err
	}
	if fields.DueDate != nil {
		reminder.DueDate = *fields.DueDate
	}
	if fields.IsRecurring != nil {
		reminder.IsRecurring = *fields.IsRecurring
	}
	if fields.Frequency != nil {
		reminder.Frequency = fields.Frequency
	}
	if reminder.IsRecurring && reminder.Frequency == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recurring reminders require a frequency")
	}
	if !reminder.IsRecurring {
		reminder.Frequency = nil
	}

	if err := s.db.Save(reminder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return reminder, nil
}

// MarkPaid marks a reminder as paid. For recurring reminders the next
// occurrence is created in the same atomic unit and returned alongside the
// paid one; for one-off reminders the second return value is nil.
func (s *reminderService) MarkPaid(userID, reminderID string) (*models.Reminder, *models.Reminder, error) {
	reminder, err := s.loadReminder(userID, reminderID)
	if err != nil {
		return nil, nil, err
	}
	if reminder.IsPaid {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reminder is already paid")
	}

	now := time.Now()
	var next *models.Reminder
	if reminder.IsRecurring && reminder.Frequency != nil {
		next = &models.Reminder{
			UserID:      reminder.UserID,
			Title:       reminder.Title,
			Amount:      reminder.Amount,
			CategoryID:  reminder.CategoryID,
			WalletID:    reminder.WalletID,
			DueDate:     NextDueDate(reminder.DueDate, *reminder.Frequency),
			IsRecurring: true,
			Frequency:   reminder.Frequency,
		}
	}

	err = runAtomic(s.db, func(tx *gorm.DB) error {
		reminder.IsPaid = true
		reminder.PaidAt = &now
		if err := tx.Save(reminder).Error; err != nil {
			return err
		}
		if next != nil {
			if err := tx.Create(next).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return reminder, next, nil
}

// DeleteReminder removes a reminder.
func (s *reminderService) DeleteReminder(userID, reminderID string) error {
	reminder, err := s.loadReminder(userID, reminderID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(reminder).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
