package domain

import "errors"

var (
	ErrPrimaryNotFound  = errors.New("primary dataset not found")
	ErrEmptyDataset     = errors.New("dataset has no data rows")
	ErrNoDatedFiles     = errors.New("no dated primary files found")
	ErrInvalidDateToken = errors.New("invalid date token")
	ErrUnsupportedFile  = errors.New("unsupported dataset file type")
	ErrRunNotFound      = errors.New("run not found")
)
