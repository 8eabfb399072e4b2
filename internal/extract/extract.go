package extract

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/parcel/internal/core/ports"
)

// projectFile is the package's project descriptor, default.project.json.
type projectFile struct {
	Tree *projectTree `json:"tree"`
}

type projectTree struct {
	Path string `json:"$path"`
}

// entryFileNames are the recognized entry filenames under the source tree.
var entryFileNames = []string{"init.lua", "init.luau"}

// Extractor reads a package's project descriptor and entry file and produces
// the set of type aliases link files must forward. Extraction is a
// best-effort enhancement layered on top of installation, never a
// precondition for it: every missing or unreadable input is logged and yields
// an empty result.
type Extractor struct {
	log ports.Logger
}

// NewExtractor creates an Extractor logging soft failures to log.
func NewExtractor(log ports.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract scans the package unpacked at packagePath.
func (e *Extractor) Extract(packagePath string) *Result {
	e.log.Debug("processing types for package", "path", packagePath)

	projectPath := filepath.Join(packagePath, "default.project.json")
	data, err := os.ReadFile(projectPath)
	if errors.Is(err, fs.ErrNotExist) {
		e.log.Debug("no project descriptor found", "path", projectPath)
		return &Result{}
	}
	if err != nil {
		e.log.Warn("failed to read project descriptor", "path", projectPath, "error", err)
		return &Result{}
	}

	var project projectFile
	if err := json.Unmarshal(data, &project); err != nil {
		e.log.Warn("invalid project descriptor", "path", projectPath, "error", err)
		return &Result{}
	}

	if project.Tree == nil || project.Tree.Path == "" {
		e.log.Debug("project descriptor has no tree path", "path", projectPath)
		return &Result{}
	}

	treePath := filepath.Join(packagePath, project.Tree.Path)
	entryPath := ""
	for _, name := range entryFileNames {
		candidate := filepath.Join(treePath, name)
		if _, err := os.Stat(candidate); err == nil {
			entryPath = candidate
			break
		}
	}
	if entryPath == "" {
		e.log.Debug("no entry file found", "path", treePath)
		return &Result{}
	}

	source, err := os.ReadFile(entryPath)
	if err != nil {
		e.log.Warn("failed to read entry file", "path", entryPath, "error", err)
		return &Result{}
	}

	return Parse(string(source))
}
