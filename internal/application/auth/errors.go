package auth

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidCredentials    = errors.New("Invalid email or password")
	ErrEmailTaken            = errors.New("Email is already registered")
	ErrInvalidEmail          = errors.New("Invalid email format")
	ErrWeakPassword          = errors.New("Password must be at least 8 characters with a letter, number and special character")
	ErrInvalidName           = errors.New("Name may only contain letters, spaces, hyphens and apostrophes")
)
