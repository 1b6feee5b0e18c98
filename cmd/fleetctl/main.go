// Command fleetctl runs the maintenance analyses offline against asset files.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Error("fleetctl failed")
		os.Exit(1)
	}
}
