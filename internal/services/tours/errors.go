package tours

import "errors"

var (
	// ErrTourNotFound - tour not found in DB (or flagged secret)
	ErrTourNotFound = errors.New("tour not found")

	// ErrDuplicateName is returned when a tour with the same name already exists
	ErrDuplicateName = errors.New("a tour with this name already exists")

	// ErrCreateTour - failed to create tour
	ErrCreateTour = errors.New("failed to create tour")

	// ErrListTours - failed to list tours
	ErrListTours = errors.New("failed to list tours")

	// ErrInvalidLimit - limit query param out of bounds
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")

	// ErrInvalidPage - page query param out of bounds
	ErrInvalidPage = errors.New("page must be greater than 0")

	// ErrInvalidFilter - unparsable filter query param
	ErrInvalidFilter = errors.New("invalid filter parameter")
)
