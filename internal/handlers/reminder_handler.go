package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
	"kasku/internal/services"
)

// ReminderHandler handles bill reminder requests.
type ReminderHandler struct {
	reminderService services.ReminderServicer
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService services.ReminderServicer) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// CreateReminderRequest represents the request payload for creating a reminder
type CreateReminderRequest struct {
	Title       string                    `json:"title" binding:"required,max=200"`
	Amount      int64                     `json:"amount" binding:"required,gt=0"`
	CategoryID  *string                   `json:"category_id" binding:"omitempty,uuid"`
	WalletID    *string                   `json:"wallet_id" binding:"omitempty,uuid"`
	DueDate     string                    `json:"due_date" binding:"required"`
	IsRecurring bool                      `json:"is_recurring"`
	Frequency   *models.ReminderFrequency `json:"frequency" binding:"omitempty,reminder_frequency"`
}

// CreateReminder handles the creation of a new reminder
// @Summary     Create a reminder
// @Description Create a bill reminder, optionally recurring
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateReminderRequest true "Reminder details"
// @Success     201 {object} services.ReminderView "Reminder created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category or wallet not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders [post]
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseFlexibleTime(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid due_date format, use RFC3339 or YYYY-MM-DD"))
		return
	}

	reminder, err := h.reminderService.CreateReminder(
		userID,
		req.Title,
		req.Amount,
		req.CategoryID,
		req.WalletID,
		dueDate,
		req.IsRecurring,
		req.Frequency,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reminder": reminder})
}

// GetUserReminders handles the retrieval of reminders for the authenticated user
// @Summary     Get user reminders
// @Description Get reminders ordered by due date, with overdue and days-until-due flags
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       upcoming query bool false "Only unpaid reminders due within 7 days or overdue"
// @Param       is_paid  query bool false "Filter by paid state"
// @Success     200 {object} services.ReminderView "Reminders"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders [get]
func (h *ReminderHandler) GetUserReminders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.ReminderFilter
	if v := c.Query("upcoming"); v != "" {
		upcoming, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid upcoming"))
			return
		}
		filter.Upcoming = upcoming
	}
	if v := c.Query("is_paid"); v != "" {
		isPaid, parseErr := strconv.ParseBool(v)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid is_paid"))
			return
		}
		filter.IsPaid = &isPaid
	}

	reminders, err := h.reminderService.GetUserReminders(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}

// UpdateReminderRequest represents the request payload for updating a reminder.
type UpdateReminderRequest struct {
	Title       *string                   `json:"title" binding:"omitempty,max=200"`
	Amount      *int64                    `json:"amount" binding:"omitempty,gt=0"`
	CategoryID  *string                   `json:"category_id" binding:"omitempty,uuid"`
	WalletID    *string                   `json:"wallet_id" binding:"omitempty,uuid"`
	DueDate     *string                   `json:"due_date"`
	IsRecurring *bool                     `json:"is_recurring"`
	Frequency   *models.ReminderFrequency `json:"frequency" binding:"omitempty,reminder_frequency"`
}

// UpdateReminder handles updating an existing reminder
// @Summary     Update reminder
// @Description Update a reminder's fields
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Reminder ID"
// @Param       request body UpdateReminderRequest true "Fields to update"
// @Success     200 {object} services.ReminderView "Updated reminder"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders/{id} [put]
func (h *ReminderHandler) UpdateReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updateFields := services.ReminderUpdateFields{
		Title:       req.Title,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
	}

	if req.DueDate != nil && *req.DueDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.DueDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid due_date format, use RFC3339 or YYYY-MM-DD"))
			return
		}
		updateFields.DueDate = &parsed
	}

	reminder, err := h.reminderService.UpdateReminder(userID, reminderID, updateFields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminder})
}

// MarkReminderPaid handles marking a reminder as paid
// @Summary     Mark reminder paid
// @Description Mark a reminder as paid. A recurring reminder spawns its next occurrence in the same atomic unit.
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Reminder ID"
// @Success     200 {object} services.ReminderView "Paid reminder, plus the next occurrence for recurring ones"
// @Failure     400 {object} ErrorResponse "Invalid reminder ID or already paid"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     503 {object} ErrorResponse "Atomic commit failed"
// @Router      /reminders/{id}/pay [put]
func (h *ReminderHandler) MarkReminderPaid(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	paid, next, err := h.reminderService.MarkPaid(userID, reminderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := gin.H{"reminder": paid}
	if next != nil {
		resp["next_reminder"] = next
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteReminder handles the deletion of a reminder
// @Summary     Delete reminder
// @Description Delete a reminder by ID
// @Tags        reminders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Reminder ID"
// @Success     200 {object} MessageResponse "Reminder deleted"
// @Failure     400 {object} ErrorResponse "Invalid reminder ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Reminder not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reminders/{id} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminderID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.reminderService.DeleteReminder(userID, reminderID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}
