package main

import (
	"fmt"
	"os"

	"campus/cmd/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "campusd: %v\n", err)
		os.Exit(1)
	}
}
