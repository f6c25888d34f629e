// Command server runs the hotel search gateway.
package main

import (
	"log/slog"
	"os"

	"github.com/alex-user-go/hotelgateway/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
