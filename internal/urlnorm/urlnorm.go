// Package urlnorm canonicalizes article links so the same story URL
// compares equal across feeds, mirrors and share buttons.
package urlnorm

import (
	"net/url"
	"strings"
)

// Tracking parameters stripped from every link. Keys starting with
// utm_ are dropped wholesale on top of this set.
var trackingParams = map[string]struct{}{
	"fbclid":  {},
	"gclid":   {},
	"msclkid": {},
	"twclid":  {},
	"share":   {},
	"via":     {},
	"mc_cid":  {},
	"mc_eid":  {},
	"_ga":     {},
	"_gid":    {},
	"_hsenc":  {},
	"_hsmi":   {},
}

// Hosts where www./m./mobile. prefixes are known aliases of the bare
// domain. Unknown hosts keep their prefix: stripping it blindly can
// change which site the link points at.
var newsDomains = map[string]struct{}{
	"espn.com":           {},
	"cbssports.com":      {},
	"nfl.com":            {},
	"nbcsports.com":      {},
	"si.com":             {},
	"foxsports.com":      {},
	"bleacherreport.com": {},
}

var mobilePrefixes = []string{"www.", "m.", "mobile."}

// Canonical normalizes a link: lower-cases the host, collapses known
// mobile/www aliases, upgrades http to https, drops tracking and
// blank-valued query parameters, sorts the rest, removes the fragment
// and trims trailing slashes. Anything that does not parse as an
// absolute http(s) URL comes back unchanged.
func Canonical(raw string) string {
	if raw == "" {
		return raw
	}

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	// Only web links get rewritten; other schemes pass through as-is.
	if u.Scheme != "http" && u.Scheme != "https" {
		return raw
	}

	host := strings.ToLower(u.Host)
	base := host
	for _, prefix := range mobilePrefixes {
		if strings.HasPrefix(base, prefix) {
			base = base[len(prefix):]
			break
		}
	}
	if _, ok := newsDomains[base]; ok {
		host = base
	}

	scheme := u.Scheme
	if scheme == "http" {
		scheme = "https"
	}

	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}

	query := url.Values{}
	for key, values := range u.Query() {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "utm_") {
			continue
		}
		if _, ok := trackingParams[lower]; ok {
			continue
		}
		for _, v := range values {
			if v == "" {
				continue
			}
			query.Add(key, v)
		}
	}

	clean := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     path,
		RawQuery: query.Encode(),
	}
	return clean.String()
}
