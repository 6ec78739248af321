package domain

import "errors"

var (
	ErrNoSources          = errors.New("no ledger sources configured")
	ErrUnsupportedFormat  = errors.New("unsupported report format")
	ErrUnsupportedLevel   = errors.New("unsupported summary level")
	ErrHeaderMismatch     = errors.New("ledger header does not match the expected column layout")
	ErrInvalidS3Reference = errors.New("invalid s3 reference, expected s3://bucket/key")
)
