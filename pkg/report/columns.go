package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hwameistor/diskreport/pkg/formatter"
	"github.com/hwameistor/diskreport/pkg/smart"
)

// Column is one column of the summary table
type Column struct {
	Header string
	Value  func(id string, disk *smart.DiskInfo) (string, error)
}

// SortColumn is the header of the column rows are ordered by
const SortColumn = "Serial"

// DefaultColumns are printed left to right
var DefaultColumns = []Column{
	{Header: "Path", Value: pathValue},
	{Header: "Model", Value: stringsValue(smart.FieldModel, func(d *smart.DiskInfo) []string { return d.Model })},
	{Header: "Serial", Value: stringsValue(smart.FieldSerial, func(d *smart.DiskInfo) []string { return d.Serial })},
	{Header: "Firmware", Value: stringsValue(smart.FieldFirmware, func(d *smart.DiskInfo) []string { return d.Firmware })},
	{Header: "Capacity", Value: capacityValue},
	{Header: "Flying (h)", Value: hoursValue(smart.AttrHeadFlyingHours)},
	{Header: "Powered (h)", Value: hoursValue(smart.AttrPowerOnHours)},
	{Header: "Power Cycles", Value: rawValue(smart.AttrPowerCycleCount)},
	{Header: "Reallocated", Value: reallocatedValue},
	{Header: "Temperature", Value: temperatureValue},
}

func pathValue(_ string, disk *smart.DiskInfo) (string, error) {
	return disk.Path, nil
}

func stringsValue(field smart.InfoField, get func(*smart.DiskInfo) []string) func(string, *smart.DiskInfo) (string, error) {
	return func(id string, disk *smart.DiskInfo) (string, error) {
		values := get(disk)
		if len(values) == 0 {
			return "", missing(id, string(field))
		}
		return strings.Join(values, ", "), nil
	}
}

func capacityValue(id string, disk *smart.DiskInfo) (string, error) {
	if len(disk.Capacity) == 0 {
		return "", missing(id, string(smart.FieldCapacity))
	}
	sizes := make([]string, 0, len(disk.Capacity))
	for _, c := range disk.Capacity {
		sizes = append(sizes, formatter.BytesToSI(c))
	}
	return strings.Join(sizes, ", "), nil
}

func attribute(id string, disk *smart.DiskInfo, attrID string) (smart.Attribute, error) {
	attr, ok := disk.SMARTAttributes[attrID]
	if !ok {
		return smart.Attribute{}, missing(id, "SMART attribute "+attrID)
	}
	return attr, nil
}

func hoursValue(attrID string) func(string, *smart.DiskInfo) (string, error) {
	return func(id string, disk *smart.DiskInfo) (string, error) {
		attr, err := attribute(id, disk, attrID)
		if err != nil {
			return "", err
		}
		if attr.Hours == nil {
			return "", fmt.Errorf("%s: %w hours in SMART attribute %s (raw value %q)", id, ErrMissingField, attrID, attr.RawValue)
		}
		return strconv.FormatInt(*attr.Hours, 10), nil
	}
}

func rawValue(attrID string) func(string, *smart.DiskInfo) (string, error) {
	return func(id string, disk *smart.DiskInfo) (string, error) {
		attr, err := attribute(id, disk, attrID)
		if err != nil {
			return "", err
		}
		return attr.RawValue, nil
	}
}

func reallocatedValue(id string, disk *smart.DiskInfo) (string, error) {
	raw, err := rawValue(smart.AttrReallocatedSectors)(id, disk)
	if err != nil {
		return "", err
	}
	if raw == "0" {
		return "-", nil
	}
	return raw, nil
}

func temperatureValue(id string, disk *smart.DiskInfo) (string, error) {
	attr, err := attribute(id, disk, smart.AttrAirflowTemperature)
	if err != nil {
		return "", err
	}
	if attr.Temperature == nil {
		return "", fmt.Errorf("%s: %w temperature in SMART attribute %s (raw value %q)", id, ErrMissingField, smart.AttrAirflowTemperature, attr.RawValue)
	}
	t := attr.Temperature
	return fmt.Sprintf("%d / %d / %d", t.Min, t.Current, t.Max), nil
}

func missing(id, what string) error {
	return fmt.Errorf("%s: %w %s", id, ErrMissingField, what)
}
