package repository

import (
	"time"
)

const timeLayout = time.RFC3339Nano

// nowUTC returns the current UTC time formatted for storage.
func nowUTC() string {
	return time.Now().UTC().Format(timeLayout)
}
