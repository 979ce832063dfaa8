package wire_test

import (
	"context"
	"fmt"
	"log"

	"github.com/wirekit/wire"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

// ExampleWire demonstrates the binding lifecycle with a model whose
// result is settled by hand, keeping the output deterministic.
func ExampleWire() {
	// 1. A model method returns an Awaitable for asynchronous results.
	username := domain.NewFuture()
	model := map[string]any{
		"getUsername": func() *domain.Future { return username },
	}

	// 2. One binder per binding configuration.
	binder := wire.Wire("api", domain.Static{"username": "getUsername"}, nil)

	// 3. The wrapped component receives merged props: values, plus the
	// reserved pending/rejected/refresh keys.
	view := ports.ComponentFunc(func(props domain.Props) any {
		if pending, ok := props[domain.PropPending].(map[string]bool); ok && pending["username"] {
			return "loading..."
		}
		return fmt.Sprintf("hello, %v", props["username"])
	})

	inst := binder.Bind(view).New(domain.Env{"api": model}, domain.Props{}, nil)
	defer inst.Close()

	if err := inst.Mount(context.Background()); err != nil {
		log.Fatal(err)
	}

	fmt.Println(inst.Render(nil))
	username.Resolve("alice")
	fmt.Println(inst.Render(nil))
	// Output:
	// loading...
	// hello, alice
}

// ExampleWire_arguments shows the property-name shorthand: a string
// argument naming a current prop stands for that prop's value, and the
// derived invocation key changes with it.
func ExampleWire_arguments() {
	lookups := domain.Static{
		"user": []any{"getUser", "id"},
	}

	user := domain.NewFuture()
	model := map[string]any{
		"getUser": func(id string) *domain.Future {
			fmt.Printf("getUser(%q)\n", id)
			return user
		},
	}

	binder := wire.Wire("api", lookups, nil)
	view := ports.ComponentFunc(func(props domain.Props) any { return props["user"] })

	inst := binder.Bind(view).New(domain.Env{"api": model}, domain.Props{"id": "7"}, nil)
	defer inst.Close()

	if err := inst.Mount(context.Background()); err != nil {
		log.Fatal(err)
	}

	user.Resolve("grace")
	fmt.Println(inst.Render(nil))
	// Output:
	// getUser("7")
	// grace
}
