package hernia

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/combatopera/Hernia/registry"
)

// Child creates a container nested inside c. The child sees every provider
// its ancestors hold; ancestors and siblings never see the child's.
// Delegation follows total absence, not emptiness: the moment a container
// holds any provider for a type, its view of that type is authoritative and
// ancestors are not consulted, even for GetAll.
//
// Children share their ancestors' build state. A lazy provider owned by an
// ancestor builds at most once no matter which descendant forces it, its
// parameters always resolve against the view of the container it was
// registered on, and cycle detection spans the whole hierarchy.
//
// Example:
//
//	root := hernia.New()
//	root.Add(cfg)
//	request := root.Child()
//	request.Add(session)
func (c *Container) Child() *Container {
	c.children++
	child := &Container{
		reg:    registry.New(c.reg),
		busy:   c.busy,
		cat:    c.cat,
		parent: c,
		log:    c.log,
		name:   fmt.Sprintf("%s/%d", c.name, c.children),
	}
	c.log.Debug("child container created",
		zap.String("container", child.name))
	return child
}

// Parent returns the enclosing container, or nil for a root.
func (c *Container) Parent() *Container {
	return c.parent
}

// Name returns the container's name: the root's configured name plus a
// numeric path segment per nesting level.
func (c *Container) Name() string {
	return c.name
}
