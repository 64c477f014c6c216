package spacedef

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/voxelview/voxelview/internal/coordspace"
)

// LoadMode controls error handling while loading definitions.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects every error before returning.
	LoadModeCollectAll
)

// LoadResult holds the spaces compiled from a definitions directory,
// keyed by the label under the top-level "space" struct (or "space" itself
// for a single unlabeled definition).
type LoadResult struct {
	Spaces    map[string]*coordspace.Space
	FileCount int
}

// LoadDir loads and compiles every CUE space definition in dir.
func LoadDir(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{fmt.Errorf("spacedef: directory not found: %s", dir)}
	}
	if err != nil {
		return nil, []error{fmt.Errorf("spacedef: accessing %s: %w", dir, err)}
	}
	if !info.IsDir() {
		return nil, []error{fmt.Errorf("spacedef: not a directory: %s", dir)}
	}

	cueFiles, err := findCUEFiles(dir)
	if err != nil {
		return nil, []error{fmt.Errorf("spacedef: scanning %s: %w", dir, err)}
	}
	if len(cueFiles) == 0 {
		return nil, []error{fmt.Errorf("spacedef: no CUE files in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{fmt.Errorf("spacedef: no CUE instances loaded from %s", dir)}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{fmt.Errorf("spacedef: loading CUE files: %w", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	result := &LoadResult{
		Spaces:    make(map[string]*coordspace.Space),
		FileCount: len(cueFiles),
	}
	var errs []error

	spaceVal := value.LookupPath(cue.ParsePath("space"))
	if !spaceVal.Exists() {
		return result, []error{fmt.Errorf("spacedef: no top-level space definition in %s", dir)}
	}

	// A definition directory may hold one space ("space: {dimensions:...}")
	// or several labeled ones ("space: em: {dimensions:...}").
	if spaceVal.LookupPath(cue.ParsePath("dimensions")).Exists() {
		space, err := CompileSpace(spaceVal, nil)
		if err != nil {
			return result, []error{err}
		}
		result.Spaces["space"] = space
		return result, nil
	}

	iter, iterErr := spaceVal.Fields()
	if iterErr != nil {
		return result, []error{fmt.Errorf("spacedef: iterating spaces: %w", iterErr)}
	}
	for iter.Next() {
		label := iter.Selector().String()
		space, err := CompileSpace(iter.Value(), nil)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Spaces[label] = space
	}

	if len(result.Spaces) == 0 && len(errs) == 0 {
		errs = append(errs, fmt.Errorf("spacedef: no spaces found in %s", dir))
	}
	return result, errs
}

// LoadFile compiles a single CUE file holding one space definition.
func LoadFile(path string, prev *coordspace.Space) (*coordspace.Space, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spacedef: reading %s: %w", path, err)
	}
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	spaceVal := value.LookupPath(cue.ParsePath("space"))
	if !spaceVal.Exists() {
		spaceVal = value
	}
	return CompileSpace(spaceVal, prev)
}

func findCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
