package attendance

import "errors"

// Messages are shown to the employee as-is.
var (
	ErrInvalidFormat    = errors.New("Please enter a valid 6-digit code")
	ErrNoActiveCode     = errors.New("No active code found for your account. Ask admin to generate one.")
	ErrCodeUsed         = errors.New("This code has already been used. Ask admin to generate a new one.")
	ErrCodeMismatch     = errors.New("Invalid code! Please check and try again.")
	ErrCodeExpired      = errors.New("This code has expired! Ask admin to generate a new one.")
	ErrEmployeeNotFound = errors.New("Employee not found!")
	ErrInvalidAction    = errors.New(`Invalid action. Use "Check In" or "Check Out".`)
)
