package lessonview

import "errors"

var (
	ErrViewNotFound       = errors.New("lesson view not found")
	ErrViewExists         = errors.New("lesson view already exists for this user and lesson")
	ErrNegativeViewedTime = errors.New("viewed time must not be negative")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrUserNotFound       = errors.New("user not found")
)
