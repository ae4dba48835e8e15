package services

import (
	"testing"
	"time"

	"kasku/internal/models"
	"kasku/internal/testutil"
)

func freq(f models.ReminderFrequency) *models.ReminderFrequency {
	return &f
}

func TestNextDueDate(t *testing.T) {
	t.Run("daily_and_weekly", func(t *testing.T) {
		due := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

		if got := NextDueDate(due, models.ReminderFrequencyDaily); !got.Equal(due.AddDate(0, 0, 1)) {
			t.Errorf("daily: got %s", got)
		}
		if got := NextDueDate(due, models.ReminderFrequencyWeekly); !got.Equal(due.AddDate(0, 0, 7)) {
			t.Errorf("weekly: got %s", got)
		}
	})

	t.Run("monthly_clamps_to_month_end", func(t *testing.T) {
		due := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.Local)
		got := NextDueDate(due, models.ReminderFrequencyMonthly)
		want := time.Date(2025, time.February, 28, 9, 0, 0, 0, time.Local)

		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("monthly_clamps_in_leap_year", func(t *testing.T) {
		due := time.Date(2024, time.January, 31, 9, 0, 0, 0, time.Local)
		got := NextDueDate(due, models.ReminderFrequencyMonthly)
		want := time.Date(2024, time.February, 29, 9, 0, 0, 0, time.Local)

		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("monthly_keeps_day_when_valid", func(t *testing.T) {
		due := time.Date(2025, time.March, 15, 9, 0, 0, 0, time.Local)
		got := NextDueDate(due, models.ReminderFrequencyMonthly)
		want := time.Date(2025, time.April, 15, 9, 0, 0, 0, time.Local)

		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("yearly_clamps_leap_day", func(t *testing.T) {
		due := time.Date(2024, time.February, 29, 9, 0, 0, 0, time.Local)
		got := NextDueDate(due, models.ReminderFrequencyYearly)
		want := time.Date(2025, time.February, 28, 9, 0, 0, 0, time.Local)

		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}

func TestCreateReminder(t *testing.T) {
	t.Run("one_off", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		reminder, err := reminderSvc.CreateReminder(user.ID, "Rent", 120000, nil, nil, time.Now().AddDate(0, 0, 5), false, nil)
		testutil.AssertNoError(t, err)

		if reminder.ID == "" {
			t.Fatal("expected generated reminder ID")
		}
		if reminder.IsPaid {
			t.Error("new reminder must be unpaid")
		}
		if reminder.Frequency != nil {
			t.Error("one-off reminder must not carry a frequency")
		}
	})

	t.Run("recurring_requires_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := reminderSvc.CreateReminder(user.ID, "Rent", 120000, nil, nil, time.Now(), true, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := reminderSvc.CreateReminder(user.ID, "   ", 120000, nil, nil, time.Now(), false, nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		missing := "0199f000-0000-7000-8000-000000000000"
		_, err := reminderSvc.CreateReminder(user.ID, "Rent", 120000, &missing, nil, time.Now(), false, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("other_users_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		wallet := testutil.CreateTestWallet(t, db, user1.ID)

		_, err := reminderSvc.CreateReminder(user2.ID, "Rent", 120000, nil, &wallet.ID, time.Now(), false, nil)
		testutil.AssertAppError(t, err, "WALLET_NOT_FOUND")
	})
}

func TestGetUserReminders(t *testing.T) {
	t.Run("ordered_with_derived_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))
		testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, -2))

		views, err := reminderSvc.GetUserReminders(user.ID, ReminderFilter{})
		testutil.AssertNoError(t, err)

		if len(views) != 2 {
			t.Fatalf("expected 2 reminders, got %d", len(views))
		}
		// Due date ascending: the overdue one first.
		if !views[0].IsOverdue {
			t.Error("expected first reminder overdue")
		}
		if views[0].DaysUntilDue >= 0 {
			t.Errorf("expected negative days until due, got %d", views[0].DaysUntilDue)
		}
		if views[1].IsOverdue {
			t.Error("future reminder must not be overdue")
		}
		if views[1].DaysUntilDue != 3 {
			t.Errorf("expected 3 days until due, got %d", views[1].DaysUntilDue)
		}
	})

	t.Run("upcoming_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))  // in window
		testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, -1)) // overdue, still shown
		testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 30)) // beyond window

		views, err := reminderSvc.GetUserReminders(user.ID, ReminderFilter{Upcoming: true})
		testutil.AssertNoError(t, err)

		if len(views) != 2 {
			t.Errorf("expected 2 upcoming reminders, got %d", len(views))
		}
	})

	t.Run("paid_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		unpaid := testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))
		paid := testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 4))
		_, _, err := reminderSvc.MarkPaid(user.ID, paid.ID)
		testutil.AssertNoError(t, err)

		isPaid := true
		views, err := reminderSvc.GetUserReminders(user.ID, ReminderFilter{IsPaid: &isPaid})
		testutil.AssertNoError(t, err)
		if len(views) != 1 || views[0].ID != paid.ID {
			t.Error("expected only the paid reminder")
		}

		isPaid = false
		views, err = reminderSvc.GetUserReminders(user.ID, ReminderFilter{IsPaid: &isPaid})
		testutil.AssertNoError(t, err)
		if len(views) != 1 || views[0].ID != unpaid.ID {
			t.Error("expected only the unpaid reminder")
		}
	})
}

func TestMarkPaid(t *testing.T) {
	t.Run("one_off_has_no_next", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))

		paid, next, err := reminderSvc.MarkPaid(user.ID, reminder.ID)
		testutil.AssertNoError(t, err)

		if !paid.IsPaid || paid.PaidAt == nil {
			t.Error("expected reminder marked paid with timestamp")
		}
		if next != nil {
			t.Error("one-off reminder must not spawn a next occurrence")
		}
	})

	t.Run("recurring_spawns_next_occurrence", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		due := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.Local)
		reminder, err := reminderSvc.CreateReminder(user.ID, "Electricity", 45000, nil, nil, due, true, freq(models.ReminderFrequencyMonthly))
		testutil.AssertNoError(t, err)

		paid, next, err := reminderSvc.MarkPaid(user.ID, reminder.ID)
		testutil.AssertNoError(t, err)

		if !paid.IsPaid {
			t.Error("expected reminder marked paid")
		}
		if next == nil {
			t.Fatal("recurring reminder must spawn a next occurrence")
		}
		if next.IsPaid {
			t.Error("next occurrence must start unpaid")
		}
		wantDue := time.Date(2025, time.February, 28, 9, 0, 0, 0, time.Local)
		if !next.DueDate.Equal(wantDue) {
			t.Errorf("expected next due %s, got %s", wantDue, next.DueDate)
		}
		if next.Title != reminder.Title || next.Amount != reminder.Amount {
			t.Error("next occurrence must inherit title and amount")
		}

		var count int64
		if err := db.Model(&models.Reminder{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if count != 2 {
			t.Errorf("expected 2 reminders stored, got %d", count)
		}
	})

	t.Run("already_paid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user.ID, time.Now())

		_, _, err := reminderSvc.MarkPaid(user.ID, reminder.ID)
		testutil.AssertNoError(t, err)

		_, _, err = reminderSvc.MarkPaid(user.ID, reminder.ID)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user1.ID, time.Now())

		_, _, err := reminderSvc.MarkPaid(user2.ID, reminder.ID)
		testutil.AssertAppError(t, err, "REMINDER_NOT_FOUND")
	})
}

func TestUpdateReminder(t *testing.T) {
	t.Run("updates_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))

		title := "Internet bill"
		amount := int64(9900)
		updated, err := reminderSvc.UpdateReminder(user.ID, reminder.ID, ReminderUpdateFields{Title: &title, Amount: &amount})
		testutil.AssertNoError(t, err)

		if updated.Title != "Internet bill" || updated.Amount != 9900 {
			t.Errorf("unexpected update result: %s %d", updated.Title, updated.Amount)
		}
	})

	t.Run("turning_recurring_on_requires_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user.ID, time.Now().AddDate(0, 0, 3))

		recurring := true
		_, err := reminderSvc.UpdateReminder(user.ID, reminder.ID, ReminderUpdateFields{IsRecurring: &recurring})
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = reminderSvc.UpdateReminder(user.ID, reminder.ID, ReminderUpdateFields{
			IsRecurring: &recurring,
			Frequency:   freq(models.ReminderFrequencyWeekly),
		})
		testutil.AssertNoError(t, err)
	})

	t.Run("turning_recurring_off_clears_frequency", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		reminder, err := reminderSvc.CreateReminder(user.ID, "Gym", 5000, nil, nil, time.Now().AddDate(0, 0, 3), true, freq(models.ReminderFrequencyMonthly))
		testutil.AssertNoError(t, err)

		recurring := false
		updated, err := reminderSvc.UpdateReminder(user.ID, reminder.ID, ReminderUpdateFields{IsRecurring: &recurring})
		testutil.AssertNoError(t, err)
		if updated.Frequency != nil {
			t.Error("frequency must be cleared when recurring is turned off")
		}
	})
}

func TestDeleteReminder(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)
		reminder := testutil.CreateTestReminder(t, db, user.ID, time.Now())

		err := reminderSvc.DeleteReminder(user.ID, reminder.ID)
		testutil.AssertNoError(t, err)

		views, err := reminderSvc.GetUserReminders(user.ID, ReminderFilter{})
		testutil.AssertNoError(t, err)
		if len(views) != 0 {
			t.Errorf("expected no reminders after delete, got %d", len(views))
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		reminderSvc := NewReminderService(db, NewCategoryService(db), NewWalletService(db))
		user := testutil.CreateTestUser(t, db)

		err := reminderSvc.DeleteReminder(user.ID, "0199f000-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "REMINDER_NOT_FOUND")
	})
}
