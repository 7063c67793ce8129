package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
	ErrOverlappingRequest   = errors.New("leave request overlaps an existing pending request")
	ErrAlreadyProcessed     = errors.New("leave request already processed")
)
