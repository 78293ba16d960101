package dom

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Wrap classifies a remote handle and builds the matching variant. The tag name is
// always read; the type attribute only for inputs.
func Wrap(ctx context.Context, handle schemas.RemoteElement) (Node, error) {
	tag, err := handle.TagName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag name: %w", err)
	}

	var typeAttr string
	if tag == "input" {
		if typeAttr, _, err = handle.Attribute(ctx, "type"); err != nil {
			return nil, fmt.Errorf("failed to read input type: %w", err)
		}
	}

	return build(handle, Classify(tag, typeAttr)), nil
}

// WrapAll wraps every handle, stopping at the first failure.
func WrapAll(ctx context.Context, handles []schemas.RemoteElement) ([]Node, error) {
	nodes := make([]Node, 0, len(handles))
	for _, h := range handles {
		n, err := Wrap(ctx, h)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func build(handle schemas.RemoteElement, kind Kind) Node {
	base := &Element{handle: handle, kind: kind}
	switch kind {
	case KindInput:
		return &Input{base}
	case KindTextInput:
		return &TextInput{Input{base}}
	case KindNumberInput:
		return &NumberInput{Input{base}}
	case KindRadioButton:
		return &RadioButton{Input{base}}
	case KindCheckBox:
		return &CheckBox{Input{base}}
	case KindButton:
		return &Button{base}
	case KindTextArea:
		return &TextArea{base}
	case KindAnchor:
		return &Anchor{base}
	case KindImg:
		return &Img{base}
	case KindUl:
		return &Ul{list{base}}
	case KindOl:
		return &Ol{list{base}}
	default:
		return base
	}
}
