package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/wirekit/wire"
	"github.com/wirekit/wire/internal/presentation/tui"
	"github.com/wirekit/wire/pkg/domain"
	"github.com/wirekit/wire/pkg/ports"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the binding lifecycle demo",
	Long: `Binds the sample model to a terminal view and walks through the
lifecycle: initial pending render, async settlement, a prop change that
re-derives the invocation keys, and a forced refresh. Each settlement
re-renders a frame.`,
	Run: func(cmd *cobra.Command, args []string) {
		binder, env, _, err := buildBinder(cmd)
		if err != nil {
			fmt.Printf("Error building binder: %v\n", err)
			os.Exit(1)
		}

		tui.PrintBanner()

		renderer := tui.NewRenderer()
		view := ports.ComponentFunc(func(props domain.Props) any {
			return renderer.Render(props)
		})

		var mu sync.Mutex
		var frame int
		var inst *wire.Instance

		host := ports.HostFunc(func() {
			mu.Lock()
			defer mu.Unlock()
			frame++
			fmt.Printf("frame %d:\n%s\n", frame, inst.Render(nil))
		})

		inst = binder.Bind(view).New(env, domain.Props{"id": "1"}, host)
		defer inst.Close()

		ctx := context.Background()
		if err := inst.Mount(ctx); err != nil {
			fmt.Printf("Error mounting: %v\n", err)
			os.Exit(1)
		}
		host.Invalidate()

		time.Sleep(600 * time.Millisecond)

		fmt.Println("-- changing id to 2 (user key changes, others stay cached) --")
		if err := inst.ReceiveProps(ctx, domain.Props{"id": "2"}); err != nil {
			fmt.Printf("Error updating props: %v\n", err)
			os.Exit(1)
		}
		host.Invalidate()
		time.Sleep(600 * time.Millisecond)

		fmt.Println("-- forced refresh (re-issues every invocation) --")
		if err := inst.Refresh(ctx); err != nil {
			fmt.Printf("Error refreshing: %v\n", err)
			os.Exit(1)
		}
		time.Sleep(600 * time.Millisecond)

		fmt.Println("done")
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
