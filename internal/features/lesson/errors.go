package lesson

import "errors"

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name must be at most 255 characters")
	ErrInvalidVideoLink = errors.New("video link must be an absolute http(s) URL")
	ErrNegativeDuration = errors.New("duration must not be negative")
	ErrProductNotFound  = errors.New("one or more products do not exist")
	ErrProductNotLinked = errors.New("lesson is not linked to this product")
)
