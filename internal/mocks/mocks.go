// File: internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/pagewrap/api/schemas"
)

// -- Remote Element Mock --

// MockRemoteElement mocks schemas.RemoteElement.
type MockRemoteElement struct {
	mock.Mock
}

var _ schemas.RemoteElement = (*MockRemoteElement)(nil)

// NewMockRemoteElement returns an element mock with its tag and attributes stubbed.
// Absent attributes report present=false. Further expectations can be added freely.
func NewMockRemoteElement(tag string, attrs map[string]string) *MockRemoteElement {
	m := new(MockRemoteElement)
	m.On("TagName", mock.Anything).Return(tag, nil).Maybe()
	m.On("Attribute", mock.Anything, mock.AnythingOfType("string")).Return(
		func(_ context.Context, name string) string { return attrs[name] },
		func(_ context.Context, name string) bool { _, ok := attrs[name]; return ok },
		func(context.Context, string) error { return nil },
	).Maybe()
	return m
}

func (m *MockRemoteElement) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schemas.RemoteElement), args.Error(1)
}

func (m *MockRemoteElement) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.RemoteElement), args.Error(1)
}

func (m *MockRemoteElement) Parent(ctx context.Context) (schemas.RemoteElement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schemas.RemoteElement), args.Error(1)
}

func (m *MockRemoteElement) Click(ctx context.Context) error       { return m.Called(ctx).Error(0) }
func (m *MockRemoteElement) DoubleClick(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *MockRemoteElement) Clear(ctx context.Context) error       { return m.Called(ctx).Error(0) }
func (m *MockRemoteElement) SendKeys(ctx context.Context, keys string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockRemoteElement) TagName(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteElement) Text(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Attribute supports both fixed returns and per-call functions for each result.
func (m *MockRemoteElement) Attribute(ctx context.Context, name string) (string, bool, error) {
	args := m.Called(ctx, name)

	var value string
	if fn, ok := args.Get(0).(func(context.Context, string) string); ok {
		value = fn(ctx, name)
	} else {
		value = args.String(0)
	}
	var present bool
	if fn, ok := args.Get(1).(func(context.Context, string) bool); ok {
		present = fn(ctx, name)
	} else {
		present = args.Bool(1)
	}
	var err error
	if fn, ok := args.Get(2).(func(context.Context, string) error); ok {
		err = fn(ctx, name)
	} else {
		err = args.Error(2)
	}
	return value, present, err
}

func (m *MockRemoteElement) CSSValue(ctx context.Context, property string) (string, error) {
	args := m.Called(ctx, property)
	return args.String(0), args.Error(1)
}

func (m *MockRemoteElement) IsSelected(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// -- Remote Driver Mock --

// MockRemoteDriver mocks schemas.RemoteDriver.
type MockRemoteDriver struct {
	mock.Mock
}

var _ schemas.RemoteDriver = (*MockRemoteDriver)(nil)

func (m *MockRemoteDriver) Navigate(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockRemoteDriver) FindElement(ctx context.Context, selector string) (schemas.RemoteElement, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(schemas.RemoteElement), args.Error(1)
}

func (m *MockRemoteDriver) FindElements(ctx context.Context, selector string) ([]schemas.RemoteElement, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.RemoteElement), args.Error(1)
}

func (m *MockRemoteDriver) ExecuteScript(ctx context.Context, script string, scriptArgs []interface{}) (interface{}, error) {
	args := m.Called(ctx, script, scriptArgs)
	return args.Get(0), args.Error(1)
}

func (m *MockRemoteDriver) AddCookie(ctx context.Context, cookie schemas.CookieRecord) error {
	return m.Called(ctx, cookie).Error(0)
}

func (m *MockRemoteDriver) DeleteCookie(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockRemoteDriver) DeleteAllCookies(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockRemoteDriver) Cookie(ctx context.Context, name string) (schemas.CookieRecord, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(schemas.CookieRecord), args.Bool(1), args.Error(2)
}

func (m *MockRemoteDriver) Cookies(ctx context.Context) ([]schemas.CookieRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.CookieRecord), args.Error(1)
}

func (m *MockRemoteDriver) Logs(ctx context.Context, logType string) ([]schemas.LogRecord, error) {
	args := m.Called(ctx, logType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.LogRecord), args.Error(1)
}

func (m *MockRemoteDriver) Quit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
