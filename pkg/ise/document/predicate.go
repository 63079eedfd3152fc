package document

import "github.com/beevik/etree"

// Predicate selects elements during FindAll and FindFirst.
type Predicate func(*etree.Element) bool

// Tag matches elements with the given local tag name.
func Tag(name string) Predicate {
	return func(e *etree.Element) bool {
		return e.Tag == name
	}
}

// AttrEquals matches elements carrying attribute key with exactly value.
// A key without a namespace prefix matches the attribute in any namespace.
func AttrEquals(key, value string) Predicate {
	return func(e *etree.Element) bool {
		a := e.SelectAttr(key)
		return a != nil && a.Value == value
	}
}

// Within matches elements that have an ancestor with the given tag.
func Within(tag string) Predicate {
	return func(e *etree.Element) bool {
		for p := e.Parent(); p != nil; p = p.Parent() {
			if p.Tag == tag {
				return true
			}
		}
		return false
	}
}

// All matches elements accepted by every predicate.
func All(preds ...Predicate) Predicate {
	return func(e *etree.Element) bool {
		for _, pred := range preds {
			if !pred(e) {
				return false
			}
		}
		return true
	}
}

// Attr returns the value of attribute key on e and whether it exists.
func Attr(e *etree.Element, key string) (string, bool) {
	a := e.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

// SetAttr overwrites an existing attribute on e. It reports false when the
// attribute is absent; nothing is created.
func SetAttr(e *etree.Element, key, value string) bool {
	a := e.SelectAttr(key)
	if a == nil {
		return false
	}
	a.Value = value
	return true
}
