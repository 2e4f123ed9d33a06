package domain

import (
	"math/big"
	"strings"
)

// parseToken parses a numeric ordering token
func parseToken(token string) (*big.Int, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(token, 10)
	return n, ok
}

// CompareTokens compares two numeric ordering tokens by magnitude.
// ok is false when either token is not a base-10 integer.
func CompareTokens(a, b string) (cmp int, ok bool) {
	x, okA := parseToken(a)
	y, okB := parseToken(b)
	if !okA || !okB {
		return 0, false
	}
	return x.Cmp(y), true
}

// IsNewPost reports whether candidate should be announced given the cursor.
// A candidate is new if it differs from the cursor and, when both tokens are
// numeric, is strictly greater. Non-numeric tokens fall back to inequality.
func IsNewPost(candidate, cursor string) bool {
	if candidate == "" {
		return false
	}
	if cursor == "" {
		return true
	}
	if candidate == cursor {
		return false
	}
	if cmp, ok := CompareTokens(candidate, cursor); ok {
		return cmp > 0
	}
	return true
}

// SelectLatest picks the post to announce from a batch in feed order.
// Pinned posts are skipped. With no cursor the first non-pinned post is the
// baseline; otherwise the first post strictly newer than the cursor wins.
func SelectLatest(batch []NormalizedPost, cursor string) *NormalizedPost {
	for i := range batch {
		p := batch[i]
		if p.Pinned || p.ID == "" {
			continue
		}
		if cursor == "" || IsNewPost(p.ID, cursor) {
			return &p
		}
	}
	return nil
}

// Newest returns the post with the greatest numeric token, or the first post
// when tokens are not comparable.
func Newest(batch []NormalizedPost) *NormalizedPost {
	if len(batch) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(batch); i++ {
		if cmp, ok := CompareTokens(batch[i].ID, batch[best].ID); ok && cmp > 0 {
			best = i
		}
	}
	p := batch[best]
	return &p
}
