package cdp

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Element is a handle to a page node held as a JavaScript object reference. The
// reference is only valid in the execution context it was obtained from.
type Element struct {
	d  *Driver
	id runtime.RemoteObjectID
}

var _ schemas.RemoteElement = (*Element)(nil)

// callOn runs fn with `this` bound to the element.
func (e *Element) callOn(ctx context.Context, fn string, byValue bool) (*runtime.RemoteObject, error) {
	var res *runtime.RemoteObject
	err := e.d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		r, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(e.id).
			WithObjectGroup(objectGroup).
			WithReturnByValue(byValue).
			WithAwaitPromise(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		res = r
		return nil
	}))
	return res, err
}

// value runs a body on the element and decodes the returned value.
func (e *Element) value(ctx context.Context, op, body string, args ...interface{}) (interface{}, error) {
	fn, err := elementFunc(body, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := e.callOn(ctx, fn, true)
	if err != nil {
		return nil, classify(op, err)
	}
	v, err := decodeValue(res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

func (e *Element) stringValue(ctx context.Context, op, body string, args ...interface{}) (string, error) {
	v, err := e.value(ctx, op, body, args...)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// handle runs a body on the element that returns a node, a node array or null.
func (e *Element) handle(ctx context.Context, op, body string, args ...interface{}) (*runtime.RemoteObject, error) {
	fn, err := elementFunc(body, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	res, err := e.callOn(ctx, fn, false)
	if err != nil {
		return nil, classify(op, err)
	}
	return res, nil
}

func (e *Element) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	found, err := e.FindElements(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, schemas.NewElementNotFoundError(selector, nil)
	}
	return found[0], nil
}

func (e *Element) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	arr, err := e.handle(ctx, "findElements", jsQueryAll, selector)
	if err != nil {
		return nil, err
	}
	return e.d.enumerate(ctx, arr)
}

func (e *Element) Parent(ctx context.Context) (schemas.RemoteElement, error) {
	res, err := e.handle(ctx, "parent", jsParent)
	if err != nil {
		return nil, err
	}
	if res == nil || res.ObjectID == "" {
		return nil, schemas.NewElementNotFoundError("..", nil)
	}
	return &Element{d: e.d, id: res.ObjectID}, nil
}

func (e *Element) Click(ctx context.Context) error       { return e.click(ctx, 1) }
func (e *Element) DoubleClick(ctx context.Context) error { return e.click(ctx, 2) }

// click scrolls the element into view and dispatches real mouse events at the
// centre of its box.
func (e *Element) click(ctx context.Context, count int) error {
	v, err := e.value(ctx, "click", jsClickPoint)
	if err != nil {
		return err
	}
	pt, _ := v.(map[string]interface{})
	x, okX := toFloat(pt["x"])
	y, okY := toFloat(pt["y"])
	if !okX || !okY {
		return fmt.Errorf("click: element has no clickable point")
	}
	if err := e.d.run(ctx, chromedp.MouseClickXY(x, y, chromedp.ClickCount(count))); err != nil {
		return classify("click", err)
	}
	return nil
}

func (e *Element) Clear(ctx context.Context) error {
	_, err := e.value(ctx, "clear", jsClear)
	return err
}

// SendKeys focuses the element and types keys as keyboard events.
func (e *Element) SendKeys(ctx context.Context, keys string) error {
	if _, err := e.value(ctx, "sendKeys", jsFocus); err != nil {
		return err
	}
	if err := e.d.run(ctx, chromedp.KeyEvent(keys)); err != nil {
		return classify("sendKeys", err)
	}
	return nil
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	return e.stringValue(ctx, "tagName", jsTagName)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.stringValue(ctx, "text", jsText)
}

func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	v, err := e.value(ctx, "attribute", jsAttribute, name)
	if err != nil {
		return "", false, err
	}
	m, _ := v.(map[string]interface{})
	present, _ := m["present"].(bool)
	value, _ := m["value"].(string)
	return value, present, nil
}

func (e *Element) CSSValue(ctx context.Context, property string) (string, error) {
	return e.stringValue(ctx, "cssValue", jsCSSValue, property)
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	v, err := e.value(ctx, "isSelected", jsIsSelected)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// enumerate turns an array handle into element handles in index order and releases
// the array.
func (d *Driver) enumerate(ctx context.Context, arr *runtime.RemoteObject) ([]schemas.RemoteElement, error) {
	if arr == nil || arr.ObjectID == "" {
		return []schemas.RemoteElement{}, nil
	}

	type slot struct {
		index int
		id    runtime.RemoteObjectID
	}
	var slots []slot
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		defer func() { _ = runtime.ReleaseObject(arr.ObjectID).Do(ctx) }()

		props, _, _, exc, err := runtime.GetProperties(arr.ObjectID).WithOwnProperties(true).Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return exceptionError(exc)
		}
		for _, p := range props {
			i, convErr := strconv.Atoi(p.Name)
			if convErr != nil || p.Value == nil || p.Value.ObjectID == "" {
				continue
			}
			slots = append(slots, slot{index: i, id: p.Value.ObjectID})
		}
		return nil
	}))
	if err != nil {
		return nil, classify("findElements", err)
	}

	sort.Slice(slots, func(a, b int) bool { return slots[a].index < slots[b].index })
	out := make([]schemas.RemoteElement, len(slots))
	for i, s := range slots {
		out[i] = &Element{d: d, id: s.id}
	}
	return out, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
