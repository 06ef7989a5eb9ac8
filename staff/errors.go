package staff

import "errors"

var (
	ErrDuplicateID      = errors.New("Employee ID already exists!")
	ErrNotFound         = errors.New("Employee not found!")
	ErrUserNotFound     = errors.New("User not found! Please check your ID.")
	ErrNotAdmin         = errors.New("Invalid credentials! You don't have admin access.")
	ErrLoginAsAdmin     = errors.New("Invalid credentials! Please login as Admin.")
	ErrInvalidRole      = errors.New("Role must be admin or employee")
	ErrInvalidImage     = errors.New("Face image must be a base64 data URL")
	ErrDeleteSelf       = errors.New("You cannot delete your own account")
	ErrDefaultAdminLock = errors.New("The default admin account cannot be deleted")
)
