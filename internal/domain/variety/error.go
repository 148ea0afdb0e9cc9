package variety

import "errors"

var (
	ErrNameRequired = errors.New("variety name is required")
	ErrInvalidColor = errors.New("invalid variety color")
)
