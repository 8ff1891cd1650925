package api

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoSelfLink is returned when a reference has no usable "self" link.
var ErrNoSelfLink = errors.New("resource has no self link")

// Linked is implemented by every backend object that carries `_links`.
type Linked interface {
	ResourceLinks() Links
}

// RefKind tags the variant held by a Ref.
type RefKind int

const (
	RefPath RefKind = iota
	RefLink
	RefLinks
	RefObject
)

func (k RefKind) String() string {
	switch k {
	case RefPath:
		return "path"
	case RefLink:
		return "link"
	case RefLinks:
		return "links"
	case RefObject:
		return "object"
	default:
		return "unknown"
	}
}

// Ref identifies a backend resource. It is one of: a raw path or URL, a link
// object, a links collection or a full resource object. Only the field that
// matches Kind is set.
type Ref struct {
	kind   RefKind
	path   string
	link   Link
	links  Links
	object Linked
}

// Path references a resource by a relative path or an absolute URL.
func Path(path string) Ref {
	return Ref{kind: RefPath, path: path}
}

// Pathf is Path with fmt.Sprintf formatting.
func Pathf(format string, args ...any) Ref {
	return Path(fmt.Sprintf(format, args...))
}

// LinkRef references the resource a link points to.
func LinkRef(link Link) Ref {
	return Ref{kind: RefLink, link: link}
}

// LinksRef references the resource whose links collection is given.
func LinksRef(links Links) Ref {
	return Ref{kind: RefLinks, links: links}
}

// ObjectRef references a resource object by its own self link.
func ObjectRef(object Linked) Ref {
	return Ref{kind: RefObject, object: object}
}

// Kind returns the variant held by r.
func (r Ref) Kind() RefKind {
	return r.kind
}

// Resolve reduces the reference to the raw path or URL it designates:
// object -> links -> self link -> href.
func (r Ref) Resolve() (string, error) {
	switch r.kind {
	case RefPath:
		return r.path, nil
	case RefLink:
		return resolveLink(r.link)
	case RefLinks:
		return resolveLinks(r.links)
	case RefObject:
		return resolveObject(r.object)
	default:
		return "", fmt.Errorf("unknown reference kind %d", r.kind)
	}
}

func (r Ref) String() string {
	s, err := r.Resolve()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", r.kind, err)
	}
	return s
}

func resolveObject(object Linked) (string, error) {
	if object == nil {
		return "", ErrNoSelfLink
	}
	if v := reflect.ValueOf(object); v.Kind() == reflect.Ptr && v.IsNil() {
		return "", ErrNoSelfLink
	}
	return resolveLinks(object.ResourceLinks())
}

func resolveLinks(links Links) (string, error) {
	self, ok := links.Self()
	if !ok {
		return "", ErrNoSelfLink
	}
	return resolveLink(self)
}

func resolveLink(link Link) (string, error) {
	if link.Href == "" {
		return "", ErrNoSelfLink
	}
	return link.Href, nil
}
