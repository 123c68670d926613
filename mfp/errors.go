package mfp

import (
	"errors"
)

var (
	ErrInvalidInput       = errors.New("Invalid input")
	ErrInvalidBounds      = errors.New("Invalid map bounds")
	ErrInvalidScale       = errors.New("Invalid scale")
	ErrLatitudeOutOfRange = errors.New("Latitude out of range")
	ErrGeodetic           = errors.New("Geodetic computation failed")
	ErrEmptyZoomLevels    = errors.New("Zoom levels are empty")
	ErrUnknownProjection  = errors.New("Unknown projection")
	ErrUnknownUnit        = errors.New("Unknown distance unit")
	ErrUnknownStrategy    = errors.New("Unknown zoom level snap strategy")
)
