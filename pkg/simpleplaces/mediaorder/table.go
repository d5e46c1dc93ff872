package mediaorder

import (
	"path"
	"strings"

	"github.com/tendant/simple-places/internal/textfold"
)

// Keyword is one predicate of a bucket. A keyword matches when it appears in
// the folded filename; WholeWord keywords must equal one of its tokens,
// so "BAR" does not match "BARRIO".
type Keyword struct {
	Text      string
	WholeWord bool
}

// Bucket is a named group with a fixed place in the display sequence.
type Bucket struct {
	Name     string
	Position int
	Keywords []Keyword
}

// Table is consulted in order; the first bucket with a matching keyword wins.
type Table []Bucket

// Unclassified is assigned to filenames that match no bucket. It sorts after
// every bucket of any table.
var Unclassified = Bucket{Name: "unclassified", Position: int(^uint(0) >> 1)}

func contains(words ...string) []Keyword {
	out := make([]Keyword, 0, len(words))
	for _, w := range words {
		out = append(out, Keyword{Text: w})
	}
	return out
}

func word(words ...string) []Keyword {
	out := make([]Keyword, 0, len(words))
	for _, w := range words {
		out = append(out, Keyword{Text: w, WholeWord: true})
	}
	return out
}

// DefaultTable is the master display sequence for place galleries.
var DefaultTable = Table{
	{Name: "portada", Position: 0, Keywords: contains("PORTADA", "COVER", "FACHADA", "FACADE")},
	{Name: "ninos", Position: 1, Keywords: append(contains("NINOS", "NINAS", "INFANTIL", "KIDS", "CHILDREN", "FAMILIA"), word("NINO", "KID")...)},
	{Name: "arquitectura", Position: 2, Keywords: contains("ARQUITECTURA", "ARCHITECTURE", "EDIFICIO", "BUILDING", "IGLESIA", "CHURCH", "CATEDRAL", "CATHEDRAL", "PALACIO")},
	{Name: "mercados", Position: 3, Keywords: append(contains("MERCADO", "MARKET", "PERSA"), word("FERIA", "VEGA")...)},
	{Name: "gastronomia", Position: 4, Keywords: append(contains("GASTRONOMIA", "RESTAURANT", "COMIDA", "FOOD", "PLATO", "DISH", "COCINA"), word("CAFE", "MENU")...)},
	{Name: "habitaciones", Position: 5, Keywords: contains("HABITACION", "ROOM", "SUITE", "PISCINA", "POOL", "LOBBY")},
	{Name: "naturaleza", Position: 6, Keywords: append(contains("PARQUE", "PARK", "CERRO", "PLAYA", "BEACH", "JARDIN", "GARDEN", "MIRADOR"), word("RIO")...)},
	{Name: "museos", Position: 7, Keywords: contains("MUSEO", "MUSEUM", "GALERIA", "GALLERY", "EXPOSICION", "MURAL")},
	{Name: "noche", Position: 8, Keywords: append(contains("NOCHE", "NIGHT", "COCTEL", "COCKTAIL"), word("BAR", "PUB")...)},
}

// Fold normalizes a filename for classification: directory and extension
// removed, accents stripped, uppercased.
func Fold(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	return textfold.Upper(base)
}

// Classify returns the bucket of filename under table.
func Classify(table Table, filename string) Bucket {
	folded := Fold(filename)
	tokens := textfold.Tokens(folded)
	for _, b := range table {
		for _, k := range b.Keywords {
			if k.matches(folded, tokens) {
				return b
			}
		}
	}
	return Unclassified
}

func (k Keyword) matches(folded string, tokens []string) bool {
	text := textfold.Upper(k.Text)
	if text == "" {
		return false
	}
	if !k.WholeWord {
		return strings.Contains(folded, text)
	}
	for _, t := range tokens {
		if t == text {
			return true
		}
	}
	return false
}
