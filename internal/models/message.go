package models

import (
	"time"
)

// EventType names a staff or order event published after a state change
type EventType string

const (
	EventStatementSubmitted EventType = "statement.submitted"
	EventStatementAccepted  EventType = "statement.accepted"
	EventStatementRemoved   EventType = "statement.removed"
	EventWaiterHired        EventType = "waiter.hired"
	EventWaiterUpdated      EventType = "waiter.updated"
	EventWaiterDismissed    EventType = "waiter.dismissed"
	EventChequeCreated      EventType = "cheque.created"
	EventChequeUpdated      EventType = "cheque.updated"
	EventChequeDeleted      EventType = "cheque.deleted"
)

// StaffEvent is the message body published to the staff events exchange
type StaffEvent struct {
	Type         EventType `json:"type"`
	EmployeeID   int64     `json:"employee_id,omitempty"`
	EmployeeName string    `json:"employee_name,omitempty"`
	Role         Role      `json:"role,omitempty"`
	RestaurantID int64     `json:"restaurant_id,omitempty"`
	ChequeID     int64     `json:"cheque_id,omitempty"`
	Headcount    int       `json:"headcount,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	RequestID    string    `json:"request_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewStaffEvent stamps an event with the current UTC time
func NewStaffEvent(eventType EventType, requestID string) *StaffEvent {
	return &StaffEvent{
		Type:      eventType,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey returns the topic routing key, which is the event type itself
func (e *StaffEvent) RoutingKey() string {
	return string(e.Type)
}
