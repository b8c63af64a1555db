// Package diskprofile is a CSV-backed table of named image-layout presets,
// grounded on the teacher's disks.go/go:embed disk-geometries.csv pattern.
// It is a pure operator convenience for cmd/nufsctl: the engine itself has
// zero dependency on it and never consults it at runtime.
package diskprofile

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/roadkillsanta/nufs/internal/layout"
)

// Profile names a Layout for display and CLI selection.
type Profile struct {
	Slug        string `csv:"slug"`
	Name        string `csv:"name"`
	BlockSize   uint32 `csv:"block_size"`
	TotalBlocks uint32 `csv:"total_blocks"`
	InodeCount  uint32 `csv:"inode_count"`
	Notes       string `csv:"notes"`
}

// Layout converts the profile into the Layout value the rest of the engine
// consumes.
func (p Profile) Layout() layout.Layout {
	return layout.Layout{
		BlockSize:   p.BlockSize,
		TotalBlocks: p.TotalBlocks,
		InodeCount:  p.InodeCount,
	}
}

const rawCSV = `slug,name,block_size,total_blocks,inode_count,notes
default,Standard 1 MiB image,4096,256,256,the fixed layout this engine was designed around
tiny,Tiny 64 KiB image,4096,16,32,smallest layout with room for a root directory and a few files
large,Large 8 MiB image,4096,2048,1024,stress-sized layout for exercising allocator exhaustion
`

var profiles map[string]Profile

func init() {
	profiles = make(map[string]Profile)
	err := gocsv.UnmarshalToCallback(strings.NewReader(rawCSV), func(row Profile) error {
		if _, exists := profiles[row.Slug]; exists {
			return fmt.Errorf("duplicate disk profile slug %q", row.Slug)
		}
		profiles[row.Slug] = row
		return nil
	})
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// Get looks up a named profile.
func Get(slug string) (Profile, error) {
	profile, ok := profiles[slug]
	if !ok {
		return Profile{}, fmt.Errorf("no disk profile named %q", slug)
	}
	return profile, nil
}

// All returns every known profile, in no particular order.
func All() []Profile {
	result := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, p)
	}
	return result
}
