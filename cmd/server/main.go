// cmd/server is the plain server binary for container deployments,
// where migrations run separately via the agrihaat CLI.
package main

import (
	"log"

	"github.com/binodghimire/agrihaat/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
