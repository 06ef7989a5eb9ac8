package workboard

import "errors"

var (
	ErrTaskNotFound    = errors.New("Task not found")
	ErrProjectNotFound = errors.New("Project not found")
	ErrMissingName     = errors.New("Name is required")
	ErrInvalidStatus   = errors.New("Invalid status")
	ErrInvalidLane     = errors.New("Invalid board column")
	ErrInvalidPriority = errors.New("Invalid priority")
	ErrInvalidDate     = errors.New("Dates must be formatted yyyy-mm-dd")
	ErrInvalidRange    = errors.New("End date must be on or after start date")
	ErrInvalidHours    = errors.New("Please enter valid hours")
	ErrNotAssignee     = errors.New("You can only update tasks assigned to you")
)
