package storage

import "strings"

// Reference points at a media asset that is either still on local disk or
// already served by the media host.
type Reference struct {
	local  string
	hosted string
}

func Local(path string) Reference { return Reference{local: path} }

func Hosted(url string) Reference { return Reference{hosted: url} }

// ParseReference classifies a free-form string coming from a request or a
// form file. http(s) URLs are hosted, anything else non-empty is a local path.
func ParseReference(s string) Reference {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Reference{}
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return Hosted(s)
	default:
		return Local(s)
	}
}

func (r Reference) IsZero() bool   { return r.local == "" && r.hosted == "" }
func (r Reference) IsLocal() bool  { return r.local != "" }
func (r Reference) IsHosted() bool { return r.hosted != "" }

// Path is the local file path, empty for hosted references.
func (r Reference) Path() string { return r.local }

// URL is the hosted URL, empty for local references.
func (r Reference) URL() string { return r.hosted }

func (r Reference) String() string {
	if r.hosted != "" {
		return r.hosted
	}
	return r.local
}
