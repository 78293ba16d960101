// Package dom wraps remote element handles in typed variants chosen from the
// element's tag name and, for inputs, its type attribute.
package dom

// Kind identifies the wrapper variant built for an element.
type Kind int

const (
	KindElement Kind = iota
	KindInput
	KindTextInput
	KindNumberInput
	KindRadioButton
	KindCheckBox
	KindButton
	KindTextArea
	KindAnchor
	KindImg
	KindUl
	KindOl
)

var kindNames = [...]string{
	KindElement:     "element",
	KindInput:       "input",
	KindTextInput:   "text-input",
	KindNumberInput: "number-input",
	KindRadioButton: "radio-button",
	KindCheckBox:    "checkbox",
	KindButton:      "button",
	KindTextArea:    "textarea",
	KindAnchor:      "anchor",
	KindImg:         "img",
	KindUl:          "ul",
	KindOl:          "ol",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Classify maps a lower-case tag name and type attribute to a Kind. The type
// attribute is only consulted for input elements. Comparisons are case-exact.
func Classify(tag, typeAttr string) Kind {
	switch tag {
	case "input":
		switch typeAttr {
		case "text":
			return KindTextInput
		case "number":
			return KindNumberInput
		case "radio":
			return KindRadioButton
		case "checkbox":
			return KindCheckBox
		default:
			return KindInput
		}
	case "textarea":
		return KindTextArea
	case "a":
		return KindAnchor
	case "img":
		return KindImg
	case "ul":
		return KindUl
	case "ol":
		return KindOl
	case "button":
		return KindButton
	default:
		return KindElement
	}
}
