package service

import (
	"errors"
	"fmt"

	"github.com/lshigami/Bilim/internal/apperror"
	"gorm.io/gorm"
)

// notFoundOr turns gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else with action.
func notFoundOr(err error, resource string, id any, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("%s: %w", action, err)
}
