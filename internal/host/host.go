// Package host wraps the operating-system operations the application needs
// outside its own state: picking a folder and revealing one in the system
// file manager.
package host

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/huh"
)

// PickResult is the outcome of a folder prompt. Success is false when the
// user cancelled.
type PickResult struct {
	Success bool
	Path    string
}

type Host interface {
	PickFolder(ctx context.Context, start string) (PickResult, error)
	OpenFolder(ctx context.Context, path string) (bool, error)
}

// Shell implements Host on a terminal and the platform's opener command.
type Shell struct {
	// Opener overrides the command used by OpenFolder.
	Opener []string
	run    func(ctx context.Context, name string, args ...string) error
}

func NewShell() *Shell {
	return &Shell{run: runCommand}
}

// PickFolder prompts for a directory starting at start.
func (s *Shell) PickFolder(ctx context.Context, start string) (PickResult, error) {
	if start == "" {
		start, _ = os.Getwd()
	}
	var path string
	picker := huh.NewFilePicker().
		Title("Select a folder").
		CurrentDirectory(start).
		DirAllowed(true).
		FileAllowed(false).
		Picking(true).
		Value(&path)

	err := huh.NewForm(huh.NewGroup(picker)).WithShowHelp(true).RunWithContext(ctx)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return PickResult{}, nil
		}
		return PickResult{}, fmt.Errorf("picking folder: %w", err)
	}
	return PickResult{Success: path != "", Path: path}, nil
}

// OpenFolder reveals path in the system file manager. It reports false
// without error when path is not a directory.
func (s *Shell) OpenFolder(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	argv := s.opener()
	args := append(append([]string{}, argv[1:]...), path)
	if err := s.run(ctx, argv[0], args...); err != nil {
		return false, fmt.Errorf("opening folder: %w", err)
	}
	return true, nil
}

func (s *Shell) opener() []string {
	if len(s.Opener) > 0 {
		return s.Opener
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"explorer"}
	default:
		return []string{"xdg-open"}
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}
