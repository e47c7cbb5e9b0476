package pantry

import "errors"

var (
	ErrFoodNameRequired      = errors.New("food name is required")
	ErrFoodIDRequired        = errors.New("food id is required")
	ErrFoodReferenceRequired = errors.New("food reference is required")
	ErrNegativeQuantity      = errors.New("quantity must not be negative")
)
