package context

import (
	"net/http"

	"github.com/aleshan/offline/configurationtypes"
)

type (
	ctxKey string

	ctx interface {
		SetupContext(c configurationtypes.AbstractConfigurationInterface)
		SetContext(req *http.Request) *http.Request
	}

	Context struct {
		Method ctx
		Key    ctx
		Now    ctx
	}
)

func GetContext() *Context {
	return &Context{
		Method: &methodContext{},
		Key:    &keyContext{},
		Now:    &nowContext{},
	}
}

func (c *Context) Init(co configurationtypes.AbstractConfigurationInterface) {
	c.Method.SetupContext(co)
	c.Key.SetupContext(co)
	c.Now.SetupContext(co)
}

func (c *Context) SetContext(req *http.Request) *http.Request {
	req = c.Method.SetContext(req)
	req = c.Key.SetContext(req)
	return c.Now.SetContext(req)
}
