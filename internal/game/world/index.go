// Package world provides the referenced-object namespace: the catalogs of
// known mob and object vnums consulted when an editor binds a misc value.
package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one catalog row.
type Entry struct {
	Vnum int    `yaml:"vnum"`
	Name string `yaml:"name"`
}

type catalogFile struct {
	Entries []Entry `yaml:"entries"`
}

// Index is the mob/object vnum namespace.
type Index struct {
	mobs    map[int]string
	objects map[int]string
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		mobs:    make(map[int]string),
		objects: make(map[int]string),
	}
}

// LoadIndex reads the mob and object catalogs. Either path may be empty,
// leaving that namespace empty.
//
// Postcondition: Returns a non-nil Index, or an error if a named file
// fails to read or parse.
func LoadIndex(mobsFile, objectsFile string) (*Index, error) {
	idx := NewIndex()
	if mobsFile != "" {
		entries, err := loadCatalog(mobsFile)
		if err != nil {
			return nil, fmt.Errorf("loading mob catalog: %w", err)
		}
		for _, e := range entries {
			idx.mobs[e.Vnum] = e.Name
		}
	}
	if objectsFile != "" {
		entries, err := loadCatalog(objectsFile)
		if err != nil {
			return nil, fmt.Errorf("loading object catalog: %w", err)
		}
		for _, e := range entries {
			idx.objects[e.Vnum] = e.Name
		}
	}
	return idx, nil
}

func loadCatalog(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return f.Entries, nil
}

// AddMob registers a mob vnum. Used by tests and gameplay wiring.
func (i *Index) AddMob(vnum int, name string) { i.mobs[vnum] = name }

// AddObject registers an object vnum.
func (i *Index) AddObject(vnum int, name string) { i.objects[vnum] = name }

// MobExists reports whether the mob vnum is known.
func (i *Index) MobExists(vnum int) bool {
	_, ok := i.mobs[vnum]
	return ok
}

// ObjExists reports whether the object vnum is known.
func (i *Index) ObjExists(vnum int) bool {
	_, ok := i.objects[vnum]
	return ok
}

// MobCount returns the number of cataloged mobs.
func (i *Index) MobCount() int { return len(i.mobs) }

// ObjCount returns the number of cataloged objects.
func (i *Index) ObjCount() int { return len(i.objects) }
