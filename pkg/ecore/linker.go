package ecore

import (
	"fmt"
	"strings"
)

// Linker collects the references found while decoding a resource and
// sets them after all objects of the resource have been created.
// References are given as tokens of the form
//
//	[prefix:Class ]fragment
//	[prefix:Class ]#fragment
//	[prefix:Class ]uri#fragment
//
// Targets in registered packages and loaded resources are resolved
// immediately, others are represented by proxies, which are resolved on
// access.
type Linker struct {
	res     *Resource
	pending []pendingRef
	// Classes maps type hints to classes.
	Classes func(hint string) *Class
}

type pendingRef struct {
	obj    Object
	ref    *Reference
	tokens []string
}

func NewLinker(r *Resource) *Linker {
	return &Linker{res: r}
}

// Add registers a reference value given by a single token.
func (l *Linker) Add(o Object, ref *Reference, tokens ...string) {
	l.pending = append(l.pending, pendingRef{o, ref, tokens})
}

// AddList registers a reference value given as space separated token
// list.
func (l *Linker) AddList(o Object, ref *Reference, list string) {
	l.Add(o, ref, SplitTokens(list)...)
}

// SplitTokens splits a space separated token list. Type hints are kept
// together with the following URI. A token is a type hint only if it is
// followed by a URI with fragment, so IDs may contain colons.
func SplitTokens(list string) []string {
	var r []string
	fields := strings.Fields(list)
	for i := 0; i < len(fields); i++ {
		t := fields[i]
		if isHint(t) && i+1 < len(fields) && strings.Contains(fields[i+1], "#") {
			t = t + " " + fields[i+1]
			i++
		}
		r = append(r, t)
	}
	return r
}

func isHint(t string) bool {
	return strings.Contains(t, ":") && !strings.Contains(t, "#") && !strings.Contains(t, "/")
}

// Link sets all registered references.
func (l *Linker) Link() error {
	for _, p := range l.pending {
		for _, t := range p.tokens {
			o, err := l.Object(t, p.ref.EReferenceType())
			if err != nil {
				return featureError(p.obj, p.ref.Name(), err)
			}
			if p.ref.IsMany() {
				_, err = p.obj.base().list(p.ref).Add(o)
			} else {
				err = p.obj.base().set(p.ref, o)
			}
			if err != nil {
				return err
			}
		}
	}
	l.pending = nil
	return nil
}

// Object resolves a single token. typ is used for proxies if the
// token has no type hint.
func (l *Linker) Object(token string, typ *Class) (Object, error) {
	hint, ref, ok := strings.Cut(token, " ")
	if !ok {
		hint, ref = "", token
	}
	if !strings.Contains(ref, "#") {
		return l.local(ref)
	}
	base, frag, _ := strings.Cut(ref, "#")
	if base == "" {
		return l.local(frag)
	}
	uri := l.res.URI().Resolve(URI(base))
	if uri == l.res.URI() {
		return l.local(frag)
	}
	uri = uri.AppendFragment(frag)

	reg := l.res.PackageRegistry()
	if reg.Get(string(uri.TrimFragment())) != nil {
		return ResolveURI(l.res.ResourceSet(), uri, false)
	}
	if set := l.res.ResourceSet(); set != nil {
		if r := set.Resource(uri); r != nil && r.IsLoaded() {
			if o := r.EObject(frag); o != nil {
				return o, nil
			}
		}
	}
	if hint != "" && l.Classes != nil {
		if c := l.Classes(hint); c != nil {
			typ = c
		}
	}
	return NewProxy(typ, uri), nil
}

func (l *Linker) local(frag string) (Object, error) {
	o := l.res.EObject(frag)
	if o == nil {
		return nil, fmt.Errorf("%w: %s#%s", ErrUnresolved, l.res.URI(), frag)
	}
	return o, nil
}

// NewProxy creates a proxy object for an object of the given class.
func NewProxy(c *Class, uri URI) Object {
	var o Object
	if c != nil && c.EPackage() != nil {
		o, _ = c.EPackage().Factory().Create(c)
	}
	if o == nil {
		o = NewDynamicObject(c)
	}
	o.ESetProxyURI(uri)
	return o
}

// ReferenceURI provides the URI used to refer to an object from a
// resource. For objects of the same resource it is the plain fragment.
// Objects neither contained in a resource nor in a registered package
// cannot be referred to.
func ReferenceURI(from *Resource, o Object) (URI, bool, error) {
	if o.EIsProxy() {
		return from.URI().Deresolve(o.EProxyURI()), false, nil
	}
	r := o.EResource()
	if r == from {
		return URI(from.URIFragment(o)), true, nil
	}
	root := rootOf(o)
	if p, ok := root.(*Package); ok && from.PackageRegistry().Get(p.NsURI()) == p {
		return URI(p.NsURI()).AppendFragment(PathFragment(nil, o)), false, nil
	}
	if r == nil {
		return "", false, fmt.Errorf("%w: %s referenced from %s", ErrDangling, o.EClass().Name(), from.URI())
	}
	return from.URI().Deresolve(r.URI().AppendFragment(r.URIFragment(o))), false, nil
}

func rootOf(o Object) Object {
	for o.EContainer() != nil {
		o = o.EContainer()
	}
	return o
}
