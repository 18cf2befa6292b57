// Package config provides diskreport settings from environment variables.
// Command line flags override them.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/hwameistor/diskreport/pkg/utils"
)

// EnvPrefix is prepended to every environment variable, e.g. DISKREPORT_DEBUG
const EnvPrefix = "DISKREPORT"

// DefaultSkipDrivers are drivers whose devices never carry ATA SMART data worth reporting
var DefaultSkipDrivers = []string{"loop", "zvol", "nvme", "blkext"}

// Settings holds all diskreport configuration.
type Settings struct {
	Debug bool `envconfig:"DEBUG" default:"false"`
	// Dump prints the collected device table as JSON before the summary
	Dump bool `envconfig:"DUMP" default:"false"`

	// Sudo wraps smartctl, empty runs it directly
	Sudo        string `envconfig:"SUDO" default:"sudo"`
	Lsblk       string `envconfig:"LSBLK" default:"lsblk"`
	Smartctl    string `envconfig:"SMARTCTL" default:"smartctl"`
	ProcDevices string `envconfig:"PROC_DEVICES" default:"/proc/devices"`

	SkipDrivers []string `envconfig:"SKIP_DRIVERS" default:"loop,zvol,nvme,blkext"`
	// Devices are glob patterns, a device path must match one of them when set
	Devices []string `envconfig:"DEVICES"`

	// Timeout for every external command, 0 waits forever
	Timeout time.Duration `envconfig:"TIMEOUT" default:"0s"`
}

// Load reads the settings from the environment
func Load() (*Settings, error) {
	s := &Settings{}
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	s.Normalize()
	return s, nil
}

// Normalize trims and de-duplicates list settings
func (s *Settings) Normalize() {
	s.SkipDrivers = uniqueItems(s.SkipDrivers)
	s.Devices = uniqueItems(s.Devices)
}

// uniqueItems flattens comma separated items, keeping the first occurrence of each
func uniqueItems(lists []string) []string {
	var result []string
	for _, list := range lists {
		for _, item := range utils.SplitList(list) {
			result = utils.AddUniqueStringItem(result, item)
		}
	}
	return result
}

// TimeoutSeconds converts Timeout for exechelper, rounding up partial seconds
func (s *Settings) TimeoutSeconds() int {
	if s.Timeout <= 0 {
		return 0
	}
	return int((s.Timeout + time.Second - 1) / time.Second)
}
