package recipe

import "errors"

// Domain errors for recipe operations
var (
	ErrTitleRequired       = errors.New("recipe title is required")
	ErrTitleTooLong        = errors.New("recipe title must not exceed 200 characters")
	ErrInvalidQuantity     = errors.New("ingredient quantity must not be negative")
	ErrDuplicateIngredient = errors.New("ingredient food already used in recipe")
)
