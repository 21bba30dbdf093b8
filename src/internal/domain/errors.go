package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrForbidden = errors.New("Forbidden")
var ErrInsufficientFunds = errors.New("Insufficient funds")
var ErrInvalidInput = errors.New("Invalid input")
