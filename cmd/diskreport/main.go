package main

import (
	"fmt"
	"os"

	"github.com/hwameistor/diskreport/pkg/cmdparser"
	"github.com/hwameistor/diskreport/pkg/config"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := cmdparser.NewDiskreport(settings).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
