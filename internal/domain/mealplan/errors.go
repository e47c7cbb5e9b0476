package mealplan

import "errors"

var (
	ErrUserRequired   = errors.New("meal plan requires an owner")
	ErrEntryNotFound  = errors.New("meal plan entry not found")
	ErrEntryNotInPlan = errors.New("entry id does not belong to the meal plan")
	ErrDuplicateEntry = errors.New("entry id submitted more than once")
)
