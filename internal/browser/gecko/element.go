package gecko

import (
	"context"

	"github.com/tebeka/selenium"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// Element adapts a selenium.WebElement. WebDriver calls are not cancelable, so the
// context is only checked before each request.
type Element struct {
	d  *Driver
	we selenium.WebElement
}

var _ schemas.RemoteElement = (*Element)(nil)

func (e *Element) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	we, err := e.we.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, classify("findElement", selector, err)
	}
	return e.d.wrap(we), nil
}

func (e *Element) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	wes, err := e.we.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, classify("findElements", selector, err)
	}
	return e.d.wrapAll(wes), nil
}

func (e *Element) Parent(ctx context.Context) (schemas.RemoteElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	we, err := e.we.FindElement(selenium.ByXPATH, "..")
	if err != nil {
		return nil, classify("parent", "..", err)
	}
	return e.d.wrap(we), nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("click", "", e.we.Click())
}

// doubleClickScript replays the event sequence of a real double click at the
// centre of arguments[0]. geckodriver only offers pointer input through the
// actions API, which the client does not expose.
const doubleClickScript = `var el = arguments[0];
el.scrollIntoView({block: "center", inline: "center"});
var r = el.getBoundingClientRect();
var x = r.left + r.width / 2, y = r.top + r.height / 2;
var fire = function (type, detail) {
  el.dispatchEvent(new MouseEvent(type, {
    bubbles: true, cancelable: true, view: window,
    detail: detail, clientX: x, clientY: y, button: 0
  }));
};
for (var n = 1; n <= 2; n++) {
  fire("mousedown", n);
  fire("mouseup", n);
  fire("click", n);
}
fire("dblclick", 2);`

// DoubleClick dispatches a double click on the element from inside the page.
func (e *Element) DoubleClick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.d.wd.ExecuteScript(doubleClickScript, []interface{}{e.we})
	return classify("doubleClick", "", err)
}

func (e *Element) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("clear", "", e.we.Clear())
}

func (e *Element) SendKeys(ctx context.Context, keys string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return classify("sendKeys", "", e.we.SendKeys(keys))
}

func (e *Element) TagName(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tag, err := e.we.TagName()
	return tag, classify("tagName", "", err)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := e.we.Text()
	return text, classify("text", "", err)
}

// Attribute reports present=false when the remote end returns null.
func (e *Element) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, err := e.we.GetAttribute(name)
	if isNilReturn(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("attribute", "", err)
	}
	return v, true, nil
}

func (e *Element) CSSValue(ctx context.Context, property string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v, err := e.we.CSSProperty(property)
	return v, classify("cssValue", "", err)
}

func (e *Element) IsSelected(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := e.we.IsSelected()
	return ok, classify("isSelected", "", err)
}
