package domain

import "time"

// RecentProject is an entry in the recently-opened list.
type RecentProject struct {
	ID         string
	Name       string
	Code       string
	Version    string
	FilePath   string
	LastOpened time.Time
}

// RecentFrom builds a recent entry for a project stored at filePath.
func RecentFrom(p *Project, filePath string, openedAt time.Time) RecentProject {
	return RecentProject{
		ID:         p.Meta.ID,
		Name:       p.Meta.Name,
		Code:       p.Meta.Code,
		Version:    p.Meta.Version,
		FilePath:   filePath,
		LastOpened: openedAt,
	}
}
