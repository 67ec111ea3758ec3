package fasta

import (
	"fmt"
	"os"
	"sort"
)

// Catalog maps chromosome ids to read-only stores over the reference files
// of one batch. Records of the same file share one file handle.
type Catalog struct {
	stores  map[string]*Store
	files   []*os.File
	created []string
}

// OpenCatalog indexes and opens every path. A file that cannot be opened or
// indexed is reported through warn and skipped; so is a chromosome id that
// was already provided by an earlier file.
func OpenCatalog(paths []string, warn func(path string, err error)) *Catalog {
	c := &Catalog{stores: make(map[string]*Store)}
	for _, p := range paths {
		if err := c.add(p, warn); err != nil && warn != nil {
			warn(p, err)
		}
	}
	return c
}

func (c *Catalog) add(path string, warn func(string, error)) error {
	ix, created, err := LoadOrBuildIndex(path)
	if err != nil {
		return err
	}
	if created {
		c.created = append(c.created, IndexPath(path))
	}
	f, err := os.Open(path)
	if err != nil {
		return notFound(path, err)
	}
	c.files = append(c.files, f)
	for _, e := range ix {
		if err := checkEntry(path, e, 0); err != nil {
			if warn != nil {
				warn(path, err)
			}
			continue
		}
		if prev, dup := c.stores[e.Name]; dup {
			if warn != nil {
				warn(path, fmt.Errorf("chromosome %q already loaded from %s; ignoring this copy", e.Name, prev.path))
			}
			continue
		}
		c.stores[e.Name] = &Store{path: path, entry: e, f: f}
	}
	return nil
}

// Lookup returns the store for chromosome id.
func (c *Catalog) Lookup(id string) (*Store, bool) {
	s, ok := c.stores[id]
	return s, ok
}

func (c *Catalog) Len() int { return len(c.stores) }

// Chromosomes returns the loaded chromosome ids in sorted order.
func (c *Catalog) Chromosomes() []string {
	ids := make([]string, 0, len(c.stores))
	for id := range c.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CreatedIndexes lists the .fai files this catalog wrote.
func (c *Catalog) CreatedIndexes() []string { return append([]string(nil), c.created...) }

// Close releases every shared file handle.
func (c *Catalog) Close() error {
	var first error
	for _, f := range c.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	c.files = nil
	return first
}
