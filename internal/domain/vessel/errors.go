package vessel

import "errors"

var (
	ErrVesselNotFound      = errors.New("vessel not found")
	ErrVesselAlreadyExists = errors.New("vessel already exists")
)
