package models

import (
	"strings"
	"time"
)

// HeadcountCeiling is the maximum number of active employees a restaurant may hold
const HeadcountCeiling = 14

// Role is the declared role of an employee
type Role string

const (
	RoleChef   Role = "chef"
	RoleWaiter Role = "waiter"
	RoleAdmin  Role = "admin"
)

// IsStaff reports whether the role can be admitted into a restaurant
func (r Role) IsStaff() bool {
	return r == RoleChef || r == RoleWaiter
}

// Title returns the capitalized role name used in confirmation messages
func (r Role) Title() string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// EmployeeStatus tracks the admission state of an employee
type EmployeeStatus string

const (
	StatusPending EmployeeStatus = "pending"
	StatusActive  EmployeeStatus = "active"
)

// Employee is a restaurant staff member or a pending applicant.
// RestaurantID is set if and only if Status is active.
type Employee struct {
	ID           int64          `json:"id" db:"id"`
	FirstName    string         `json:"first_name" db:"first_name"`
	LastName     string         `json:"last_name" db:"last_name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	PhoneNumber  string         `json:"phone_number" db:"phone_number"`
	Role         Role           `json:"role" db:"role"`
	Status       EmployeeStatus `json:"status" db:"status"`
	Age          int            `json:"age" db:"age"`
	Experience   int            `json:"experience" db:"experience"`
	RestaurantID *int64         `json:"restaurant_id,omitempty" db:"restaurant_id"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// FullName joins first and last name with a single space
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) IsPending() bool {
	return e.Status == StatusPending
}

// IsActiveWaiter reports whether the employee is an admitted waiter
func (e *Employee) IsActiveWaiter() bool {
	return e.Status == StatusActive && e.Role == RoleWaiter
}

// AgeAt returns the number of whole years between birth and now
func AgeAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
