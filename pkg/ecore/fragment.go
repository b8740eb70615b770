package ecore

import (
	"fmt"
	"strconv"
	"strings"
)

// named is implemented by metamodel elements.
type named interface {
	Name() string
}

// URIFragment provides the fragment identifying the object within
// the resource. Objects with an ID are identified by the ID,
// others by a path of feature segments starting at the root index
// (/ for the first root, /1 for the second). Metamodel elements are
// identified by their names (//A/name).
func (r *Resource) URIFragment(o Object) string {
	if id := r.ID(o); id != "" {
		return id
	}
	return PathFragment(r, o)
}

// PathFragment provides the path based fragment of an object.
func PathFragment(r *Resource, o Object) string {
	var segs []string
	for o.EContainer() != nil {
		segs = append(segs, segment(o))
		o = o.EContainer()
	}
	root := ""
	if r != nil {
		if i := r.contents.indexOfRaw(o); i > 0 {
			root = strconv.Itoa(i)
		}
	}
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(root)
	for i := len(segs) - 1; i >= 0; i-- {
		b.WriteString("/")
		b.WriteString(segs[i])
	}
	return b.String()
}

func segment(o Object) string {
	c := o.EContainer()
	f := o.EContainingFeature()
	if n, ok := o.(named); ok && isMetaObject(o) && isMetaObject(c) {
		return n.Name()
	}
	if f.IsMany() {
		return fmt.Sprintf("@%s.%d", f.Name(), c.base().list(f).indexOfRaw(o))
	}
	return "@" + f.Name()
}

func isMetaObject(o Object) bool {
	if o == nil || o.EClass() == nil {
		return false
	}
	_, ok := o.(named)
	return ok && o.EClass().EPackage() == ecorePackage
}

// EObject resolves a fragment to an object of the resource. It returns
// nil if the fragment cannot be resolved.
func (r *Resource) EObject(fragment string) Object {
	if fragment == "" {
		return nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return r.objectByID(fragment)
	}
	segs := strings.Split(fragment[1:], "/")
	idx := 0
	if segs[0] != "" {
		i, err := strconv.Atoi(segs[0])
		if err != nil {
			return nil
		}
		idx = i
	}
	if idx < 0 || idx >= r.contents.Len() {
		return nil
	}
	o := r.contents.data[idx].(Object)
	for _, s := range segs[1:] {
		if o = resolveSegment(o, s); o == nil {
			return nil
		}
	}
	return o
}

func resolveSegment(o Object, seg string) Object {
	if name, ok := strings.CutPrefix(seg, "@"); ok {
		idx := -1
		if i := strings.LastIndex(name, "."); i >= 0 {
			n, err := strconv.Atoi(name[i+1:])
			if err == nil {
				idx = n
				name = name[:i]
			}
		}
		f := o.EClass().StructuralFeature(name)
		if f == nil {
			return nil
		}
		v := o.EGet(f)
		if l, ok := v.(*List); ok {
			if idx < 0 {
				idx = 0
			}
			t, _ := l.Get(idx).(Object)
			return t
		}
		t, _ := v.(Object)
		return t
	}
	for _, c := range o.EContents() {
		if nameOf(c) == seg {
			return c
		}
	}
	return nil
}

// nameOf provides the name of metamodel elements or the value of a
// name attribute of dynamic objects.
func nameOf(o Object) string {
	if n, ok := o.(named); ok {
		return n.Name()
	}
	if c := o.EClass(); c != nil {
		if f, ok := c.StructuralFeature("name").(*Attribute); ok {
			s, _ := o.EGet(f).(string)
			return s
		}
	}
	return ""
}
