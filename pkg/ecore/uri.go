package ecore

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// URI identifies resources and objects. It is either an absolute URI
// with scheme (file:/a/b.xmi, http://host/ns), or a relative path with
// an optional fragment (model.xmi#//A).
type URI string

// FileURI provides the URI for a file system path. Relative paths are
// kept relative.
func FileURI(p string) URI {
	p = filepath.ToSlash(p)
	if path.IsAbs(p) {
		return URI("file:" + p)
	}
	return URI(p)
}

func (u URI) String() string {
	return string(u)
}

func (u URI) IsEmpty() bool {
	return u == ""
}

// Scheme provides the scheme of absolute URIs, or "".
func (u URI) Scheme() string {
	s := string(u.TrimFragment())
	i := strings.Index(s, ":")
	if i <= 0 {
		return ""
	}
	for _, c := range s[:i] {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return ""
		}
	}
	return s[:i]
}

// IsFile reports whether the URI denotes a file, either with the file
// scheme or as a plain path.
func (u URI) IsFile() bool {
	s := u.Scheme()
	return s == "" || s == "file"
}

// Path provides the path part of the URI without fragment.
func (u URI) Path() string {
	s := string(u.TrimFragment())
	switch u.Scheme() {
	case "":
		return s
	case "file":
		s = strings.TrimPrefix(s, "file:")
		if strings.HasPrefix(s, "//") {
			s = strings.TrimPrefix(s, "//")
			if i := strings.Index(s, "/"); i >= 0 {
				s = s[i:]
			}
		}
		return s
	}
	if p, err := url.Parse(s); err == nil {
		return p.Path
	}
	return ""
}

// FilePath provides the file system path of file URIs.
func (u URI) FilePath() (string, error) {
	if !u.IsFile() {
		return "", ErrNotFile
	}
	p, err := url.PathUnescape(u.Path())
	if err != nil {
		return "", err
	}
	return filepath.FromSlash(p), nil
}

// FileExtension provides the extension of the last path segment, without
// the dot.
func (u URI) FileExtension() string {
	ext := path.Ext(u.Path())
	return strings.TrimPrefix(ext, ".")
}

func (u URI) HasFragment() bool {
	return strings.Contains(string(u), "#")
}

func (u URI) Fragment() string {
	_, f, _ := strings.Cut(string(u), "#")
	return f
}

func (u URI) TrimFragment() URI {
	s, _, _ := strings.Cut(string(u), "#")
	return URI(s)
}

func (u URI) AppendFragment(f string) URI {
	return URI(string(u.TrimFragment()) + "#" + f)
}

// Resolve resolves a relative URI against the base URI u.
func (u URI) Resolve(rel URI) URI {
	if rel.Scheme() != "" || u == "" {
		return rel
	}
	frag := ""
	if rel.HasFragment() {
		frag = "#" + rel.Fragment()
	}
	rp := string(rel.TrimFragment())
	if rp == "" {
		return URI(string(u.TrimFragment()) + frag)
	}
	if path.IsAbs(rp) {
		if s := u.Scheme(); s != "" {
			return URI(s + ":" + rp + frag)
		}
		return URI(rp + frag)
	}
	switch s := u.Scheme(); s {
	case "", "file":
		dir := path.Dir(u.Path())
		r := path.Join(dir, rp)
		if s == "file" {
			return URI("file:" + r + frag)
		}
		return URI(r + frag)
	default:
		b, err := url.Parse(string(u.TrimFragment()))
		if err != nil {
			return rel
		}
		r, err := url.Parse(rp)
		if err != nil {
			return rel
		}
		return URI(b.ResolveReference(r).String() + frag)
	}
}

// Deresolve provides a URI relative to the base u for the given URI, if
// both share the scheme. Otherwise the URI is returned unchanged.
func (u URI) Deresolve(abs URI) URI {
	if u.Scheme() != abs.Scheme() || !u.IsFile() {
		if u.TrimFragment() == abs.TrimFragment() && abs.HasFragment() {
			return URI("#" + abs.Fragment())
		}
		return abs
	}
	frag := ""
	if abs.HasFragment() {
		frag = "#" + abs.Fragment()
	}
	bp := u.Path()
	ap := abs.Path()
	if bp == ap {
		return URI(frag)
	}
	if path.IsAbs(bp) != path.IsAbs(ap) {
		return abs
	}
	r, err := filepath.Rel(filepath.FromSlash(path.Dir(bp)), filepath.FromSlash(ap))
	if err != nil {
		return abs
	}
	return URI(filepath.ToSlash(r) + frag)
}
