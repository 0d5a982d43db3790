package models

import (
	"strings"

	"restaurant-staffing/internal/apperror"
)

const (
	phonePrefix      = "+996"
	phoneLength      = 13
	minWaiterAge     = 18
	maxWaiterAge     = 30
	minWaiterYearsXP = 1
)

// ValidateWaiter applies the hiring policy for waiters created directly
// by restaurant management. Statement intake does not use it.
func ValidateWaiter(phone string, age, experience int) error {
	if err := validatePhone(phone); err != nil {
		return err
	}

	if age < minWaiterAge || age > maxWaiterAge {
		return apperror.BadRequest("The age of the waiter must be between %d and %d years old", minWaiterAge, maxWaiterAge)
	}

	if experience < minWaiterYearsXP {
		return apperror.BadRequest("The experience of the waiter must be at least %d year", minWaiterYearsXP)
	}

	return nil
}

func validatePhone(phone string) error {
	if phone == "" {
		return apperror.BadRequest("Phone number is required")
	}

	if len(phone) != phoneLength {
		return apperror.BadRequest("Phone number must be %d characters long", phoneLength)
	}

	if !strings.HasPrefix(phone, phonePrefix) {
		return apperror.BadRequest("Phone number must start with %s", phonePrefix)
	}

	return nil
}
