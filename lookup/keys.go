package lookup

import (
	"strconv"
	"strings"
)

// KeySeparator delimits the segments of a fetch-service key.
const KeySeparator = "::"

// idForKey builds the coalescing key for an IDFor miss. The key namespaces
// by table so two caches sharing one fetch service cannot collide.
func idForKey(t Table, name string) string {
	return normalizeTableName(t.Name) + KeySeparator + "id_for" + KeySeparator + name
}

// nameForKey builds the coalescing key for a NameFor miss.
func nameForKey(t Table, id int64) string {
	return normalizeTableName(t.Name) + KeySeparator + "name_for" + KeySeparator + strconv.FormatInt(id, 10)
}

// normalizeTableName lowercases the table name and squeezes anything outside
// [a-z0-9] into single underscores. Keys built from the result stay prefix
// friendly and are accepted by external cache backends that reject
// punctuation.
func normalizeTableName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r + ('a' - 'A'))
		default:
			pendingSep = true
		}
	}

	return b.String()
}
