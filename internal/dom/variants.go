package dom

import (
	"context"
	"strconv"
	"strings"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// -- Inputs --

// Input is an <input> whose type has no dedicated variant.
type Input struct{ *Element }

// Value returns the current value attribute.
func (i *Input) Value(ctx context.Context) (string, error) {
	return i.attr(ctx, "value")
}

// TextInput is an <input type="text">.
type TextInput struct{ Input }

// SetText replaces the field's contents.
func (t *TextInput) SetText(ctx context.Context, value string) error {
	return replaceText(ctx, t.handle, value)
}

// NumberInput is an <input type="number">.
type NumberInput struct{ Input }

// SetText replaces the field's contents.
func (n *NumberInput) SetText(ctx context.Context, value string) error {
	return replaceText(ctx, n.handle, value)
}

func replaceText(ctx context.Context, h schemas.RemoteElement, value string) error {
	if err := h.Clear(ctx); err != nil {
		return err
	}
	return h.SendKeys(ctx, value)
}

// CheckBox is an <input type="checkbox">.
type CheckBox struct{ Input }

func (c *CheckBox) IsChecked(ctx context.Context) (bool, error) {
	return c.handle.IsSelected(ctx)
}

// Check ticks the box. It does nothing when the box is already checked.
func (c *CheckBox) Check(ctx context.Context) error {
	checked, err := c.IsChecked(ctx)
	if err != nil || checked {
		return err
	}
	return c.handle.Click(ctx)
}

// RadioButton is an <input type="radio">.
type RadioButton struct{ Input }

func (r *RadioButton) IsSelected(ctx context.Context) (bool, error) {
	return r.handle.IsSelected(ctx)
}

// Select picks the option. It does nothing when the option is already selected.
func (r *RadioButton) Select(ctx context.Context) error {
	selected, err := r.IsSelected(ctx)
	if err != nil || selected {
		return err
	}
	return r.handle.Click(ctx)
}

// -- Other form controls --

// Button is a <button>.
type Button struct{ *Element }

// Type returns "button" for type="button" and "submit" for anything else.
func (b *Button) Type(ctx context.Context) (string, error) {
	t, err := b.attr(ctx, "type")
	if err != nil {
		return "", err
	}
	if t == "button" {
		return "button", nil
	}
	return "submit", nil
}

// TextArea is a <textarea>.
type TextArea struct{ *Element }

// Rows returns the rows attribute. ok is false when it is missing or empty.
func (t *TextArea) Rows(ctx context.Context) (n int, ok bool, err error) {
	return t.intAttr(ctx, "rows")
}

// Cols returns the cols attribute. ok is false when it is missing or empty.
func (t *TextArea) Cols(ctx context.Context) (n int, ok bool, err error) {
	return t.intAttr(ctx, "cols")
}

func (t *TextArea) intAttr(ctx context.Context, name string) (int, bool, error) {
	raw, present, err := t.Attribute(ctx, name)
	if err != nil {
		return 0, false, err
	}
	if !present || raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, &schemas.InvalidArgumentError{Reason: "textarea " + name + " is not an integer: " + strconv.Quote(raw), Err: err}
	}
	return n, true, nil
}

// -- Links and media --

// Anchor is an <a>.
type Anchor struct{ *Element }

func (a *Anchor) Href(ctx context.Context) (string, error)   { return a.attr(ctx, "href") }
func (a *Anchor) Title(ctx context.Context) (string, error)  { return a.attr(ctx, "title") }
func (a *Anchor) Target(ctx context.Context) (string, error) { return a.attr(ctx, "target") }

// Img is an <img>.
type Img struct{ *Element }

func (i *Img) Src(ctx context.Context) (string, error) { return i.attr(ctx, "src") }
func (i *Img) Alt(ctx context.Context) (string, error) { return i.attr(ctx, "alt") }

// -- Lists --

// itemSelector matches direct <li> children only.
const itemSelector = ":scope > li"

type list struct{ *Element }

// Items returns the list's direct <li> children, wrapped.
func (l list) Items(ctx context.Context) ([]Node, error) {
	return l.FindElements(ctx, itemSelector)
}

// Ul is an unordered list.
type Ul struct{ list }

// Ol is an ordered list.
type Ol struct{ list }
