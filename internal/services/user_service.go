package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
	"kasku/internal/models"
)

// defaultCategories is seeded for every new user so the tracker is usable
// immediately after registration.
var defaultCategories = []struct {
	Name string
	Type models.CategoryType
	Icon string
}{
	{"Salary", models.CategoryTypeIncome, "💰"},
	{"Bonus", models.CategoryTypeIncome, "🎁"},
	{"Investment", models.CategoryTypeIncome, "📈"},
	{"Food", models.CategoryTypeExpense, "🍽️"},
	{"Transport", models.CategoryTypeExpense, "🚗"},
	{"Shopping", models.CategoryTypeExpense, "🛒"},
	{"Electricity", models.CategoryTypeExpense, "⚡"},
	{"Internet", models.CategoryTypeExpense, "📶"},
	{"Health", models.CategoryTypeExpense, "🏥"},
	{"Education", models.CategoryTypeExpense, "📚"},
}

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// CreateUser registers a new user and seeds the default categories and
// wallet in the same atomic unit.
func (s *userService) CreateUser(name, email, username, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}
	if len(password) < 6 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 6 characters")
	}

	email = strings.ToLower(email)
	username = strings.ToLower(username)

	var existing models.User
	err := s.db.Where("email = ? OR username = ?", email, username).First(&existing).Error
	if err == nil {
		if existing.Email == email {
			return nil, apperrors.ErrDuplicateEmail
		}
		return nil, apperrors.ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Name:     capitalizeName(name),
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		IsActive: true,
	}

	err = runAtomic(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		for _, c := range defaultCategories {
			category := &models.Category{
				UserID: user.ID,
				Name:   c.Name,
				Type:   c.Type,
				Icon:   c.Icon,
			}
			if err := tx.Create(category).Error; err != nil {
				return err
			}
		}

		wallet := &models.Wallet{
			UserID: user.ID,
			Name:   "Main Wallet",
			Type:   models.WalletTypeCash,
			Icon:   "👛",
		}
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
