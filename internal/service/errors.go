package service

import "errors"

var (
	ErrNoProject        = errors.New("no project is open")
	ErrUnsavedChanges   = errors.New("the open project has unsaved changes")
	ErrDuplicateFeature = errors.New("feature id already exists")
	ErrFeatureNotFound  = errors.New("feature not found")
	ErrUnknownSection   = errors.New("unknown section")
)
