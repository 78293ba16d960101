package dom

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Node is implemented only by the wrapper variants in this package. Use a type switch
// on the concrete variant, or Kind, to reach variant specific accessors.
type Node interface {
	Kind() Kind
	// Base returns the generic element every variant is built on.
	Base() *Element
	node()
}

// Element is the generic wrapper and the base of every variant. It holds no state
// beyond the handle; every accessor queries the remote page.
type Element struct {
	handle schemas.RemoteElement
	kind   Kind
}

var _ Node = (*Element)(nil)

// NewElement wraps a handle as a generic element without classifying it.
func NewElement(handle schemas.RemoteElement) *Element {
	return &Element{handle: handle, kind: KindElement}
}

func (e *Element) Kind() Kind     { return e.kind }
func (e *Element) Base() *Element { return e }
func (e *Element) node()          {}

// Handle exposes the underlying remote handle.
func (e *Element) Handle() schemas.RemoteElement { return e.handle }

// HasElement reports whether at least one descendant matches the selector.
func (e *Element) HasElement(ctx context.Context, selector string) (bool, error) {
	found, err := e.handle.FindElements(ctx, selector)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// FindElement returns the first descendant matching the selector, wrapped.
func (e *Element) FindElement(ctx context.Context, selector string) (Node, error) {
	h, err := e.handle.FindElement(ctx, selector)
	if err != nil {
		return nil, err
	}
	return Wrap(ctx, h)
}

// FindElements returns every descendant matching the selector, wrapped.
func (e *Element) FindElements(ctx context.Context, selector string) ([]Node, error) {
	hs, err := e.handle.FindElements(ctx, selector)
	if err != nil {
		return nil, err
	}
	return WrapAll(ctx, hs)
}

func (e *Element) Click(ctx context.Context) error {
	return e.handle.Click(ctx)
}

func (e *Element) DoubleClick(ctx context.Context) error {
	return e.handle.DoubleClick(ctx)
}

// Attribute returns the attribute value and whether the attribute is present.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	return e.handle.Attribute(ctx, name)
}

func (e *Element) HasAttribute(ctx context.Context, name string) (bool, error) {
	_, ok, err := e.handle.Attribute(ctx, name)
	return ok, err
}

// attr returns the attribute value, empty when absent.
func (e *Element) attr(ctx context.Context, name string) (string, error) {
	v, _, err := e.handle.Attribute(ctx, name)
	return v, err
}

// Style returns the computed value of a CSS property.
func (e *Element) Style(ctx context.Context, property string) (string, error) {
	return e.handle.CSSValue(ctx, property)
}

// Text returns the visible text of the element.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.handle.Text(ctx)
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.handle.TagName(ctx)
}

// Classes returns the element's CSS classes sorted and without duplicates.
func (e *Element) Classes(ctx context.Context) ([]string, error) {
	raw, ok, err := e.handle.Attribute(ctx, "class")
	if err != nil {
		return nil, err
	}
	if !ok {
		return []string{}, nil
	}

	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, c := range strings.Fields(raw) {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes, nil
}

// Parent returns the parent element as a generic wrapper.
func (e *Element) Parent(ctx context.Context) (*Element, error) {
	p, err := e.handle.Parent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get parent element: %w", err)
	}
	return NewElement(p), nil
}
