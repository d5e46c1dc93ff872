// Package mediaorder produces a deterministic display order for media sets
// that arrive unordered from storage listings.
//
// Three tiers apply: files named in an operator-curated list come first, in
// list order; the rest are grouped by subject through a keyword Table; ties
// are broken by natural, locale-aware comparison so "foto2" sorts before
// "foto10".
package mediaorder

import (
	"path"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Locale drives natural comparison of tied filenames.
var Locale = language.Spanish

type entry struct {
	name     string
	explicit int // index in the explicit list, or -1
	bucket   int
}

// Order returns filenames in display order. explicit lists basenames; it may
// be nil and need not cover every file. Duplicate filenames collapse. The
// result depends only on the arguments.
func Order(filenames []string, explicit []string, table Table) []string {
	index := explicitIndex(explicit)

	seen := make(map[string]struct{}, len(filenames))
	entries := make([]entry, 0, len(filenames))
	for _, f := range filenames {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		e := entry{name: f, explicit: -1}
		if i, ok := index[path.Base(f)]; ok {
			e.explicit = i
		} else {
			e.bucket = Classify(table, f).Position
		}
		entries = append(entries, e)
	}

	// Collators keep internal buffers; one per call keeps Order safe for
	// concurrent use.
	col := collate.New(Locale, collate.Numeric, collate.IgnoreCase)
	sort.SliceStable(entries, func(i, j int) bool {
		return less(col, entries[i], entries[j])
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func less(col *collate.Collator, a, b entry) bool {
	aListed, bListed := a.explicit >= 0, b.explicit >= 0
	if aListed != bListed {
		return aListed
	}
	if aListed && a.explicit != b.explicit {
		return a.explicit < b.explicit
	}
	if !aListed && a.bucket != b.bucket {
		return a.bucket < b.bucket
	}
	if c := col.CompareString(a.name, b.name); c != 0 {
		return c < 0
	}
	return a.name < b.name
}

// explicitIndex maps each listed basename to its first position.
func explicitIndex(explicit []string) map[string]int {
	index := make(map[string]int, len(explicit))
	for i, name := range explicit {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		name = path.Base(name)
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	return index
}
