// Package projectfile stores estimation projects as JSON files in a single
// directory.
package projectfile

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/alexanderramin/estimator/internal/logging"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
)

//go:embed project.schema.json
var projectSchema string

const schemaURL = "https://estimator.local/schemas/project.schema.json"

var (
	ErrNotFound       = errors.New("project file not found")
	ErrInvalidProject = errors.New("invalid project file")
	ErrOutsideDir     = errors.New("path is outside the projects directory")
)

// SaveResult describes where a project was written.
type SaveResult struct {
	FilePath string
	FileName string
}

// FileInfo summarizes a project file for listings.
type FileInfo struct {
	FilePath     string
	FileName     string
	Project      domain.ProjectMeta
	FeatureCount int
	FileSize     int64
	LastModified time.Time
}

// Dir reads and writes project files under one directory.
type Dir struct {
	root   string
	schema *jsonschema.Schema
	log    *logrus.Entry
}

// Open prepares root for use, creating it when missing.
func Open(root string, log *logrus.Entry) (*Dir, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating projects directory: %w", err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(projectSchema)); err != nil {
		return nil, fmt.Errorf("loading project schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling project schema: %w", err)
	}
	return &Dir{root: root, schema: schema, log: logging.OrDiscard(log)}, nil
}

// Root returns the projects directory.
func (d *Dir) Root() string {
	return d.root
}

// Load reads and validates the project at path. Relative paths are resolved
// against the projects directory.
func (d *Dir) Load(ctx context.Context, path string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = d.resolve(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return d.decode(data)
}

func (d *Dir) decode(data []byte) (*domain.Project, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if err := d.schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}

	var p domain.Project
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	if p.Features == nil {
		p.Features = []domain.Feature{}
	}
	if p.Phases == nil {
		p.Phases = domain.EmptyPhases()
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return &p, nil
}

// Save writes p to its canonical file name inside the directory. The write
// goes to a temporary file first and is renamed into place.
func (d *Dir) Save(ctx context.Context, p *domain.Project) (SaveResult, error) {
	if err := ctx.Err(); err != nil {
		return SaveResult{}, err
	}
	if err := p.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return SaveResult{}, fmt.Errorf("encoding project: %w", err)
	}

	name := FileName(p)
	path := filepath.Join(d.root, name)
	tmp, err := os.CreateTemp(d.root, ".save-*.json")
	if err != nil {
		return SaveResult{}, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return SaveResult{}, fmt.Errorf("writing project file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return SaveResult{}, fmt.Errorf("closing project file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return SaveResult{}, fmt.Errorf("replacing project file: %w", err)
	}

	d.log.WithFields(logrus.Fields{"project": p.Meta.ID, "file": name}).Info("project saved")
	return SaveResult{FilePath: path, FileName: name}, nil
}

// List returns every readable project in the directory, most recently
// modified first. Unreadable files are logged and skipped.
func (d *Dir) List(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("listing projects directory: %w", err)
	}

	var out []FileInfo
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(d.root, e.Name())
		info, err := e.Info()
		if err != nil {
			d.log.WithError(err).WithField("file", e.Name()).Warn("skipping project file")
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			d.log.WithError(err).WithField("file", e.Name()).Warn("skipping project file")
			continue
		}
		p, err := d.decode(data)
		if err != nil {
			d.log.WithError(err).WithField("file", e.Name()).Warn("skipping project file")
			continue
		}
		out = append(out, FileInfo{
			FilePath:     path,
			FileName:     e.Name(),
			Project:      p.Meta,
			FeatureCount: len(p.Features),
			FileSize:     info.Size(),
			LastModified: info.ModTime(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

// Delete removes a project file. Only files inside the directory may be
// deleted.
func (d *Dir) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path = d.resolve(path)
	rel, err := filepath.Rel(d.root, path)
	if err != nil || escapes(rel) {
		return fmt.Errorf("%w: %s", ErrOutsideDir, path)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("deleting project file: %w", err)
	}
	d.log.WithField("file", rel).Info("project deleted")
	return nil
}

// escapes reports whether a path relative to the directory points outside it.
func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel)
}

func (d *Dir) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(d.root, path)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName returns the file a project is saved under.
func FileName(p *domain.Project) string {
	code := unsafeChars.ReplaceAllString(p.Meta.Code, "_")
	id := p.Meta.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s.json", code, id)
}
