package service

// Persisted key families. Links are stored under their id, the slug index
// maps a normalized slug back to that id, and clicks are keyed by link id
// plus click id so that listing a link's clicks is a prefix scan.
const (
	linkKeyPrefix  = "link:"
	slugKeyPrefix  = "slug:"
	clickKeyPrefix = "click:"
)

func linkKey(id string) string {
	return linkKeyPrefix + id
}

func slugKey(slug string) string {
	return slugKeyPrefix + slug
}

func clickKey(linkID, clickID string) string {
	return clickKeyPrefix + linkID + ":" + clickID
}

func clickScanPrefix(linkID string) string {
	return clickKeyPrefix + linkID + ":"
}
