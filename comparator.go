package filesort

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator reports whether a sorts strictly before b. It must be a strict
// weak ordering. Lines it considers equal keep their input order.
type Comparator func(a, b string) bool

// Ascending orders lines by their bytes.
func Ascending(a, b string) bool { return a < b }

// Descending orders lines by their bytes, largest first.
func Descending(a, b string) bool { return b < a }

// Reverse returns the opposite ordering. Equal lines stay equal, so the
// result is still stable.
func (c Comparator) Reverse() Comparator {
	return func(a, b string) bool { return c(b, a) }
}

// Collation returns a comparator following the collation rules of locale,
// for example "en", "de-u-co-phonebk" or "sv". The comparator is not safe
// for concurrent use.
func Collation(locale string) (Comparator, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, configError("locale %q: %w", locale, err)
	}
	c := collate.New(tag)
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}, nil
}
