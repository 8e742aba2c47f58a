package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrUnknownCollection = errors.New("unknown collection")
	ErrNegativeWatermark = errors.New("watermark must not be negative")

	ErrMissingID            = errors.New("record id is required")
	ErrMissingRequiredField = errors.New("required field is missing")
	ErrInvalidFieldType     = errors.New("invalid field type")
	ErrInvalidEnumValue     = errors.New("value is not allowed")
	ErrValueTooLong         = errors.New("value is too long")
	ErrValueOutOfRange      = errors.New("value is out of range")
	ErrInvalidCharacter     = errors.New("value contains a NUL character")
)
