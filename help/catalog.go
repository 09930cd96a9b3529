package help

import (
	_ "embed"
	"slices"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed docs.yaml
var catalogYAML []byte

var catalog = sync.OnceValue(func() map[string]Doc {
	var docs []Doc
	if err := yaml.Unmarshal(catalogYAML, &docs); err != nil {
		panic(ErrDecode.Wrap(err))
	}

	m := make(map[string]Doc, len(docs))
	for _, d := range docs {
		m[d.Name] = d
	}

	return m
})

// Lookup returns the catalog documentation of name.
func Lookup(name string) (Doc, bool) {
	d, ok := catalog()[name]

	return d.Clone(), ok
}

// Names returns the names of all documented entries in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog()))
	for name := range catalog() {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
