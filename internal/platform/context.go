package platform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	ErrInit         = errors.New("platform: glfw init failed")
	ErrWindowCreate = errors.New("platform: window creation failed")
	ErrNoContext    = errors.New("platform: context not acquired")
)

// Context owns the GLFW library lifetime. GLFW is initialized by the first
// Acquire and terminated when the last holder releases it, so windows can
// come and go without tearing the library down underneath each other.
type Context struct {
	mu        sync.Mutex
	refs      int
	init      func() error
	terminate func()
}

func NewContext() *Context {
	return newContext(glfw.Init, glfw.Terminate)
}

func newContext(init func() error, terminate func()) *Context {
	return &Context{init: init, terminate: terminate}
}

// Acquire takes a reference, initializing GLFW on the first one.
func (c *Context) Acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refs == 0 {
		if err := c.init(); err != nil {
			return fmt.Errorf("%w: %v", ErrInit, err)
		}
	}
	c.refs++
	return nil
}

// Release drops a reference, terminating GLFW when none remain. Extra calls
// are ignored.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.refs == 0 {
		return
	}
	c.refs--
	if c.refs == 0 {
		c.terminate()
	}
}

// Refs reports the number of live references.
func (c *Context) Refs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}
