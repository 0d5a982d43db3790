package models

import "net/http"

// NoVacanciesMessage is returned on every failed admission, including an
// explicit rejection that has nothing to do with capacity
const NoVacanciesMessage = "Sorry we haven't run out of vacancies"

// SimpleResponse is the confirmation record returned by mutating operations
type SimpleResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// OK builds a 200 confirmation
func OK(message string) *SimpleResponse {
	return &SimpleResponse{Status: http.StatusOK, Message: message}
}
