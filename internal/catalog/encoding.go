package catalog

import "strings"

// ListDelimiter separates entries of a multi-valued field in its stored text
// form. A bare comma or pipe can appear in ordinary names; the two-character
// sentinel cannot.
const ListDelimiter = "||"

// JoinAuthors encodes an author list for storage. Names are trimmed and
// empty entries dropped. An empty list encodes as the Unknown Author
// placeholder so the stored column is never blank.
func JoinAuthors(authors []string) string {
	cleaned := cleanList(authors)
	if len(cleaned) == 0 {
		return UnknownAuthor
	}
	return strings.Join(cleaned, ListDelimiter)
}

// SplitAuthors decodes a stored author column. Empty text yields an empty
// list; readers re-apply the Unknown Author fallback.
func SplitAuthors(text string) []string {
	return splitList(text)
}

// JoinList encodes an optional list (genre tags). Unlike JoinAuthors it
// preserves "no value": an empty list encodes as the empty string so the
// column can stay NULL.
func JoinList(values []string) string {
	return strings.Join(cleanList(values), ListDelimiter)
}

// SplitList is the inverse of JoinList.
func SplitList(text string) []string {
	return splitList(text)
}

func cleanList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

func splitList(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.Split(text, ListDelimiter)
	return cleanList(parts)
}
