package hernia

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Module bundles related registrations so applications can install them as
// a unit.
//
// Example:
//
//	type StorageModule struct{ DSN string }
//
//	func (m *StorageModule) Register(c *hernia.Container) error {
//	    if err := c.Add(&DBConfig{DSN: m.DSN}); err != nil {
//	        return err
//	    }
//	    return c.AddFactory(OpenStore)
//	}
type Module interface {
	Register(c *Container) error
}

// BootableModule is a Module with a second phase that runs after every
// module has registered, when the full graph is available for resolution.
type BootableModule interface {
	Module
	Boot(c *Container) error
}

// ConditionalModule can exclude itself from an install, for module sets
// that depend on configuration.
type ConditionalModule interface {
	Module
	Enabled(c *Container) bool
}

type moduleEntry struct {
	module Module
	booted bool
}

// Install registers each module, in order. A module whose type is already
// installed on this container is skipped, so two modules may both install a
// shared dependency module. A ConditionalModule reporting Enabled false is
// skipped entirely.
func (c *Container) Install(modules ...Module) error {
	for _, m := range modules {
		if m == nil {
			return &InvalidRegistrationError{Reason: "cannot install a nil module"}
		}
		if cond, ok := m.(ConditionalModule); ok && !cond.Enabled(c) {
			c.log.Debug("module skipped", zap.String("module", moduleName(m)))
			continue
		}
		if c.installed(reflect.TypeOf(m)) {
			continue
		}
		if err := m.Register(c); err != nil {
			return fmt.Errorf("module %s: %w", moduleName(m), err)
		}
		c.modules = append(c.modules, &moduleEntry{module: m})
		c.log.Debug("module installed", zap.String("module", moduleName(m)))
	}
	return nil
}

// Boot runs the Boot phase of every installed BootableModule, in install
// order. A module is marked booted only once its Boot succeeds, so a failed
// Boot surfaces again on the next call. Calling Boot again otherwise only
// boots modules installed since the previous call.
func (c *Container) Boot() error {
	for _, e := range c.modules {
		if e.booted {
			continue
		}
		if b, ok := e.module.(BootableModule); ok {
			if err := b.Boot(c); err != nil {
				return fmt.Errorf("module %s boot: %w", moduleName(e.module), err)
			}
			c.log.Debug("module booted", zap.String("module", moduleName(e.module)))
		}
		e.booted = true
	}
	return nil
}

// Modules returns the installed modules in install order.
func (c *Container) Modules() []Module {
	modules := make([]Module, len(c.modules))
	for i, e := range c.modules {
		modules[i] = e.module
	}
	return modules
}

func (c *Container) installed(t reflect.Type) bool {
	for _, e := range c.modules {
		if reflect.TypeOf(e.module) == t {
			return true
		}
	}
	return false
}

func moduleName(m Module) string {
	return reflect.TypeOf(m).String()
}
