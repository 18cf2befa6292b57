package report

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hwameistor/diskreport/pkg/smart"
)

// ErrMissingField is returned when a disk lacks a field or SMART attribute the report needs
var ErrMissingField = errors.New("missing field")

// DeviceTable maps a disk identifier ("model:serial") to what was collected about it
type DeviceTable map[string]*smart.DiskInfo

// DeviceEnumerator lists the device paths to inspect
type DeviceEnumerator interface {
	ListDevicePaths() ([]string, error)
}

// DiskInspector collects identity and SMART attributes of one device
type DiskInspector interface {
	GetDiskInfo(devPath string) (*smart.DiskInfo, error)
}

// Collector builds a DeviceTable from every enumerated device
type Collector struct {
	enumerator DeviceEnumerator
	inspector  DiskInspector
}

// NewCollector creates a Collector
func NewCollector(enumerator DeviceEnumerator, inspector DiskInspector) *Collector {
	return &Collector{
		enumerator: enumerator,
		inspector:  inspector,
	}
}

// Collect inspects the devices one after another. The first failure aborts
// the whole collection and no partial table is returned.
func (c *Collector) Collect() (DeviceTable, error) {
	paths, err := c.enumerator.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := DeviceTable{}
	for _, path := range paths {
		disk, err := c.inspector.GetDiskInfo(path)
		if err != nil {
			return nil, err
		}

		id, err := Identifier(disk)
		if err != nil {
			return nil, fmt.Errorf("failed to identify %s: %w", path, err)
		}

		if old, exists := devices[id]; exists {
			log.WithFields(log.Fields{"id": id, "old": old.Path, "new": disk.Path}).Debug("Duplicated disk identifier, overwriting")
		}
		devices[id] = disk
	}

	log.WithField("count", len(devices)).Debug("Collected disks")
	return devices, nil
}

// Identifier returns "model:serial" for the disk. Repeated values are joined with commas.
func Identifier(disk *smart.DiskInfo) (string, error) {
	if !disk.Has(smart.FieldModel) {
		return "", fmt.Errorf("%s: %w %s", disk.Path, ErrMissingField, smart.FieldModel)
	}
	if !disk.Has(smart.FieldSerial) {
		return "", fmt.Errorf("%s: %w %s", disk.Path, ErrMissingField, smart.FieldSerial)
	}
	return strings.Join(disk.Model, ",") + ":" + strings.Join(disk.Serial, ","), nil
}
