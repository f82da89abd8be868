package attach

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Picker abstracts the device image picker. Implementations own any platform
// permission prompting; this package only consumes the returned items.
type Picker interface {
	// PickFromLibrary returns the user's selection. When multiple is false,
	// at most one image is returned.
	PickFromLibrary(ctx context.Context, multiple bool) ([]Image, error)

	// CaptureFromCamera returns a single freshly captured image.
	CaptureFromCamera(ctx context.Context) (Image, error)
}

// DirPicker is a filesystem-backed Picker used by the CLI and by tests: it
// "picks" image files from a directory in name order.
type DirPicker struct {
	Dir string

	offset int
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// PickFromLibrary returns the next unpicked file(s) from the directory.
func (p *DirPicker) PickFromLibrary(ctx context.Context, multiple bool) ([]Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := p.listImages()
	if err != nil {
		return nil, err
	}
	if p.offset >= len(files) {
		return nil, nil
	}

	picked := files[p.offset:]
	if !multiple && len(picked) > 1 {
		picked = picked[:1]
	}
	p.offset += len(picked)

	out := make([]Image, 0, len(picked))
	for _, path := range picked {
		out = append(out, Image{URI: path})
	}
	return out, nil
}

// CaptureFromCamera returns the next unpicked file, treating the directory as
// a stand-in camera roll.
func (p *DirPicker) CaptureFromCamera(ctx context.Context) (Image, error) {
	images, err := p.PickFromLibrary(ctx, false)
	if err != nil {
		return Image{}, err
	}
	if len(images) == 0 {
		return Image{}, fmt.Errorf("attach: no images left in %s", p.Dir)
	}
	return images[0], nil
}

func (p *DirPicker) listImages() ([]string, error) {
	entries, err := os.ReadDir(p.Dir)
	if err != nil {
		return nil, fmt.Errorf("attach: read picker dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; !ok {
			continue
		}
		files = append(files, filepath.Join(p.Dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
