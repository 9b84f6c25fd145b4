package dataset

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Seed builds the initial dataset from the embedded fixture files. Each file
// holds a subset of the top-level collections; they are merged in name order.
func Seed() (*Dataset, error) {
	names, err := fs.Glob(fixtureFS, "fixtures/*.json")
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	sort.Strings(names)

	ds := Empty()
	for _, name := range names {
		data, err := fixtureFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", name, err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(ds); err != nil {
			return nil, fmt.Errorf("decode fixture %s: %w", name, err)
		}
	}
	if err := Check(ds); err != nil {
		return nil, fmt.Errorf("seed fixtures: %w", err)
	}
	return ds, nil
}
