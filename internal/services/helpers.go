package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "kasku/internal/errors"
)

// capitalizeName uppercases the first letter of each word and lowercases the
// rest, so "main wallet" and "MAIN WALLET" normalize to the same stored name.
func capitalizeName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// runAtomic executes fn inside a database transaction. AppErrors raised by fn
// pass through untouched; any other failure (including a failed commit) is
// reported as a storage failure. Either way the transaction is rolled back,
// so no partial state is ever visible.
func runAtomic(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrStorageFailure, err)
}
