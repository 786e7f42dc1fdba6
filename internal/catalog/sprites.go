package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SpriteResolver maps a normalized creature name to an opaque display-asset
// reference. Implementations fall back to their "default" entry when a name is
// unknown, so Resolve never fails outright.
type SpriteResolver interface {
	Resolve(name string) string
}

// specialSpriteNames covers names whose sprite files keep symbols, hyphens or
// accents that the generic normalization would otherwise mangle.
var specialSpriteNames = map[string]string{
	"Nidoran♀":  "nidoran♀",
	"Nidoran♂":  "nidoran♂",
	"Porygon-Z": "porygon-z",
	"Flabébé":   "flabébé",
	"Ho-oh":     "ho-oh",
	"Jangmo-o":  "jangmo-o",
	"Hakamo-o":  "hakamo-o",
	"Kommo-o":   "kommo-o",
	"Wo-Chien":  "wo-chien",
	"Chien-Pao": "chien-pao",
	"Ting-Lu":   "ting-lu",
	"Chi-Yu":    "chi-yu",
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SpriteName normalizes a creature name into its sprite-file key: special
// cases first, otherwise trim, lowercase, strip diacritics and drop everything
// outside [a-z0-9-].
func SpriteName(name string) string {
	if s, ok := specialSpriteNames[name]; ok {
		return s
	}
	s := strings.ToLower(strings.TrimSpace(name))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StaticResolver resolves from a fixed name -> reference map.
type StaticResolver map[string]string

func (r StaticResolver) Resolve(name string) string {
	if ref, ok := r[name]; ok {
		return ref
	}
	return r["default"]
}

// NewDirResolver builds a StaticResolver from the .png files found in dir,
// keyed by lowercase filename without extension.
func NewDirResolver(dir string) (StaticResolver, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	res := StaticResolver{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		res[key] = filepath.Join(dir, e.Name())
	}
	return res, nil
}
