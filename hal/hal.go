// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package hal recognizes HAL (Hypertext Application Language) documents in
// decoded JSON values.
//
// A HAL document is a JSON object in which the reserved keys "_links" and
// "_embedded" hold link relations and embedded resources respectively. All
// other members of the object are application properties:
//
//	{
//	  "_links": {"self": {"href": "/orders/123"}},
//	  "_embedded": {"customer": {"name": "Inigo"}},
//	  "total": 30.00
//	}
//
// FromObject shapes a decoded *value.Object into a *Document. The Decode,
// DecodeBytes, and DecodeString functions decode JSON text and shape the
// result in one step.
package hal

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/creachadair/jhal/value"
)

// Reserved keys of a HAL document.
const (
	LinksKey    = "_links"
	EmbeddedKey = "_embedded"
)

// A Document is a HAL resource: its links, its properties, and the resources
// embedded in it.
type Document struct {
	// Links maps each link relation to the links it names. A relation given
	// as a single link object in the input has a single element.
	Links map[string][]Link

	// Properties holds the members of the resource other than the reserved
	// keys, in input order.
	Properties *value.Object

	// Embedded maps each relation to the resources embedded under it. A
	// relation given as a single object in the input has a single element.
	Embedded map[string][]*Document
}

// Link returns the first link for the given relation, and reports whether
// any such link exists.
func (d *Document) Link(rel string) (Link, bool) {
	if ls := d.Links[rel]; len(ls) != 0 {
		return ls[0], true
	}
	return Link{}, false
}

// Rels returns the link relations of d in sorted order.
func (d *Document) Rels() []string { return slices.Sorted(maps.Keys(d.Links)) }

// EmbeddedRels returns the relations of the embedded resources of d in sorted
// order.
func (d *Document) EmbeddedRels() []string { return slices.Sorted(maps.Keys(d.Embedded)) }

// MarshalJSON implements json.Marshaler. It always reports an error, since
// encoding is not supported.
func (d *Document) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("hal: encoding is not supported: %w", errors.ErrUnsupported)
}

// A Link is a single hyperlink.
type Link struct {
	Href  string // the target URI or URI template
	Title string // empty if not specified

	// Attrs holds the members of the link object other than "href" and
	// "title", such as "templated", "type", and "name". It is nil if there
	// are no other members.
	Attrs *value.Object
}

// Templated reports whether l has a "templated" attribute set to true.
func (l Link) Templated() bool {
	if l.Attrs == nil {
		return false
	}
	b, ok := l.Attrs.Get("templated").(value.Bool)
	return ok && bool(b)
}

// FromObject shapes obj as a HAL document. The "_links" and "_embedded"
// members of obj, if present, must be objects; the document contains all the
// other members of obj as properties. FromObject does not modify obj, but the
// resulting document may share values with it. If obj == nil, FromObject
// returns an empty document.
//
// If the reserved members of obj do not have the expected structure,
// FromObject reports an error of concrete type *ShapeError.
func FromObject(obj *value.Object) (*Document, error) {
	return shape(obj, "")
}

func shape(obj *value.Object, path string) (*Document, error) {
	doc := &Document{
		Links:      make(map[string][]Link),
		Properties: new(value.Object),
		Embedded:   make(map[string][]*Document),
	}
	if obj == nil {
		return doc, nil
	}
	for _, m := range obj.Members {
		var err error
		switch m.Key {
		case LinksKey:
			err = doc.addLinks(m.Value, path+LinksKey)
		case EmbeddedKey:
			err = doc.addEmbedded(m.Value, path+EmbeddedKey)
		default:
			doc.Properties.Add(m.Key, m.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) addLinks(v value.Value, path string) error {
	rels, ok := v.(*value.Object)
	if !ok {
		return shapeErrorf(LinksKey, path, "got %s, want object", typeName(v))
	}
	for _, m := range rels.Members {
		rpath := path + "." + m.Key
		switch t := m.Value.(type) {
		case *value.Object:
			link, err := parseLink(t, rpath)
			if err != nil {
				return err
			}
			d.Links[m.Key] = []Link{link}
		case value.Array:
			links := make([]Link, 0, len(t))
			for i, elt := range t {
				epath := fmt.Sprintf("%s[%d]", rpath, i)
				lobj, ok := elt.(*value.Object)
				if !ok {
					return shapeErrorf(LinksKey, epath, "got %s, want link object", typeName(elt))
				}
				link, err := parseLink(lobj, epath)
				if err != nil {
					return err
				}
				links = append(links, link)
			}
			d.Links[m.Key] = links
		default:
			return shapeErrorf(LinksKey, rpath, "got %s, want link object or array", typeName(t))
		}
	}
	return nil
}

func parseLink(obj *value.Object, path string) (Link, error) {
	var link Link
	var haveHref bool
	for _, m := range obj.Members {
		switch m.Key {
		case "href":
			s, ok := stringOf(m.Value)
			if !ok {
				return Link{}, shapeErrorf(LinksKey, path+".href", "got %s, want string", typeName(m.Value))
			}
			link.Href, haveHref = s, true
		case "title":
			s, ok := stringOf(m.Value)
			if !ok {
				return Link{}, shapeErrorf(LinksKey, path+".title", "got %s, want string", typeName(m.Value))
			}
			link.Title = s
		default:
			if link.Attrs == nil {
				link.Attrs = new(value.Object)
			}
			link.Attrs.Add(m.Key, m.Value)
		}
	}
	if !haveHref {
		return Link{}, shapeErrorf(LinksKey, path, "missing href")
	}
	return link, nil
}

func (d *Document) addEmbedded(v value.Value, path string) error {
	rels, ok := v.(*value.Object)
	if !ok {
		return shapeErrorf(EmbeddedKey, path, "got %s, want object", typeName(v))
	}
	for _, m := range rels.Members {
		rpath := path + "." + m.Key
		switch t := m.Value.(type) {
		case *value.Object:
			sub, err := shape(t, rpath+".")
			if err != nil {
				return err
			}
			d.Embedded[m.Key] = []*Document{sub}
		case value.Array:
			docs := make([]*Document, 0, len(t))
			for i, elt := range t {
				epath := fmt.Sprintf("%s[%d]", rpath, i)
				eobj, ok := elt.(*value.Object)
				if !ok {
					return shapeErrorf(EmbeddedKey, epath, "got %s, want object", typeName(elt))
				}
				sub, err := shape(eobj, epath+".")
				if err != nil {
					return err
				}
				docs = append(docs, sub)
			}
			d.Embedded[m.Key] = docs
		default:
			return shapeErrorf(EmbeddedKey, rpath, "got %s, want object or array", typeName(t))
		}
	}
	return nil
}

// stringOf returns the text of a string-like value. Strings recognized as
// timestamps or identifiers are reported as their original text.
func stringOf(v value.Value) (string, bool) {
	switch t := v.(type) {
	case value.String:
		return string(t), true
	case value.Time:
		return t.Raw(), true
	case value.UUID:
		return t.Raw(), true
	}
	return "", false
}

func typeName(v value.Value) string {
	switch v.(type) {
	case value.Null:
		return "null"
	case value.Bool:
		return "bool"
	case value.Number:
		return "number"
	case value.String, value.Time, value.UUID:
		return "string"
	case value.Array:
		return "array"
	case *value.Object:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// Sentinel errors for use with errors.Is.
var (
	// ErrLinkShape matches a *ShapeError for an invalid "_links" member.
	ErrLinkShape = errors.New("invalid link shape")

	// ErrEmbeddedShape matches a *ShapeError for an invalid "_embedded" member.
	ErrEmbeddedShape = errors.New("invalid embedded resource shape")
)

// ShapeError is the concrete type of errors reported when the reserved
// members of a document do not have the required structure.
type ShapeError struct {
	Key     string // the reserved key concerned: LinksKey or EmbeddedKey
	Path    string // the path of the offending value, e.g., "_links.self[1]"
	Message string
}

func shapeErrorf(key, path, msg string, args ...any) *ShapeError {
	return &ShapeError{Key: key, Path: path, Message: fmt.Sprintf(msg, args...)}
}

// Error satisfies the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("hal: %s: %s", e.Path, e.Message)
}

// Is reports whether target is the sentinel error for the key of e.
func (e *ShapeError) Is(target error) bool {
	switch target {
	case ErrLinkShape:
		return e.Key == LinksKey
	case ErrEmbeddedShape:
		return e.Key == EmbeddedKey
	}
	return false
}
