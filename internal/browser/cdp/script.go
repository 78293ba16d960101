package cdp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/runtime"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// jsonEncode encodes a value for embedding in a script as a JavaScript literal.
// Values JSON cannot represent (NaN, channels, functions) are rejected.
func jsonEncode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", &schemas.InvalidArgumentError{Reason: fmt.Sprintf("cannot pass %T to the page", v), Err: err}
	}
	return string(b), nil
}

// elementFunc wraps a function body that runs with `this` bound to the element.
// Detached elements raise staleMarker before the body runs.
func elementFunc(body string, args ...interface{}) (string, error) {
	encoded := make([]string, len(args))
	for i, a := range args {
		enc, err := jsonEncode(a)
		if err != nil {
			return "", err
		}
		encoded[i] = enc
	}
	return fmt.Sprintf(`function() {
	if (!this.isConnected) { throw new Error(%q); }
	return (function(%s) { %s }).apply(this, [%s]);
}`, staleMarker, argNames(len(args)), body, strings.Join(encoded, ", ")), nil
}

func argNames(n int) string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("a%d", i)
	}
	return strings.Join(names, ", ")
}

// scriptFunc wraps a WebDriver style script body, which reads its parameters from
// `arguments` and hands back a value with `return`.
func scriptFunc(body string) string {
	return "function() {\n" + body + "\n}"
}

// decodeValue converts a by-value remote object into plain Go values. Integral
// numbers come back as int64, other numbers as float64.
func decodeValue(obj *runtime.RemoteObject) (interface{}, error) {
	if obj == nil || obj.Type == runtime.TypeUndefined {
		return nil, nil
	}
	if obj.UnserializableValue != "" {
		return string(obj.UnserializableValue), nil
	}
	if len(obj.Value) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(obj.Value))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode script result: %w", err)
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []interface{}:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]interface{}:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}

// Page-side bodies used by Element. `this` is the element; a0.. are arguments.
const (
	jsQueryAll   = `return Array.from(this.querySelectorAll(a0));`
	jsParent     = `return this.parentElement;`
	jsTagName    = `return (this.tagName || '').toLowerCase();`
	jsText       = `return this.innerText === undefined ? (this.textContent || '') : this.innerText;`
	jsIsSelected = `return !!(this.checked || this.selected);`
	jsCSSValue   = `return window.getComputedStyle(this).getPropertyValue(a0);`
	jsFocus      = `this.focus(); return true;`
	jsAttribute  = `
if (a0 === 'value' && 'value' in this) { return {present: true, value: String(this.value)}; }
if (!this.hasAttribute(a0)) { return {present: false, value: ''}; }
return {present: true, value: this.getAttribute(a0) || ''};`
	jsClear = `
if (this.isContentEditable) { this.textContent = ''; }
else if ('value' in this) { this.value = ''; }
this.dispatchEvent(new Event('input', {bubbles: true}));
this.dispatchEvent(new Event('change', {bubbles: true}));
return true;`
	jsClickPoint = `
this.scrollIntoView({block: 'center', inline: 'center'});
const r = this.getBoundingClientRect();
return {x: r.left + r.width / 2, y: r.top + r.height / 2};`
)
