package ports

import "github.com/wirekit/wire/pkg/domain"

// Component is anything the adapter can wrap: it turns props into a
// host-specific view output. The adapter never interprets the output.
type Component interface {
	Render(props domain.Props) any
}

// ComponentFunc adapts a plain function to a Component.
type ComponentFunc func(props domain.Props) any

func (f ComponentFunc) Render(props domain.Props) any { return f(props) }

// Unwrapper is the capability exposed by adapter components that wrap
// another component. Unwrap peels one layer; callers loop to reach the
// innermost component through stacked adapters.
type Unwrapper interface {
	Unwrap() Component
}

// Innermost unwraps through any number of stacked adapters and returns
// the first component that does not expose the Unwrapper capability.
func Innermost(c Component) Component {
	for {
		u, ok := c.(Unwrapper)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
