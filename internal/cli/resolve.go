package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveProjectFile maps user input to a project file. It accepts a file
// name, a project code (case-insensitive), a project id or id prefix, and
// falls back to treating the input as a path.
func resolveProjectFile(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project is required")
	}
	files, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}

	for _, f := range files {
		if f.FileName == input || f.FilePath == input {
			return f.FilePath, nil
		}
	}
	for _, f := range files {
		if strings.EqualFold(f.Project.Code, input) || f.Project.ID == input {
			return f.FilePath, nil
		}
	}

	var matches []string
	for _, f := range files {
		if strings.HasPrefix(f.Project.ID, input) {
			matches = append(matches, f.FilePath)
		}
	}
	switch len(matches) {
	case 0:
		return input, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project id prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
