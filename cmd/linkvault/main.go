// Command linkvault runs the LinkVault bookmark server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dalemusser/waffle/app"

	"github.com/linkvault/linkvault/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		fmt.Fprintln(os.Stderr, "linkvault:", err)
		os.Exit(1)
	}
}
