package smart

import (
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hwameistor/diskreport/pkg/utils"
)

// InfoSectionStart precedes the identity fields in "smartctl -i" output
const InfoSectionStart = "=== START OF INFORMATION SECTION ==="

// infoLabels maps the labels printed by smartctl to the field they fill.
// Lines with any other label are dropped.
var infoLabels = map[string]InfoField{
	"Device Model":     FieldModel,
	"Model Number":     FieldModel,
	"Serial Number":    FieldSerial,
	"Firmware Version": FieldFirmware,
	"User Capacity":    FieldCapacity,
	"Sector Sizes":     FieldSectors,
	"Sector Size":      FieldSectors,
	"Rotation Rate":    FieldSpindleSpeed,
	"Form Factor":      FieldFormFactor,
	"SATA Version is":  FieldSATAVersion,
	"SMART support is": FieldSMARTEnabled,
}

var (
	infoLine        = regexp.MustCompile(`^([^:]+): +(.*)$`)
	capacityValue   = regexp.MustCompile(`^([0-9,]+) bytes \[[0-9.,]+ [kMGTPE]B\]$`)
	sectorSizeValue = regexp.MustCompile(`([0-9]+) bytes (logical/physical|logical|physical)`)
	rotationValue   = regexp.MustCompile(`^([0-9]+) rpm$`)
	sataValue       = regexp.MustCompile(`^SATA [0-9.]+, ([0-9.]+ [GT]b/s) \(current: ([0-9.]+ [GT]b/s)\)$`)
)

// ParseDiskInfo parses the information section of "smartctl -i" output.
// Lines before the section marker, lines not shaped "label: value", unknown
// labels and values that don't parse are all silently dropped.
func ParseDiskInfo(devPath string, output string) *DiskInfo {
	info := &DiskInfo{Path: devPath}

	inSection := false
	for _, line := range utils.ConvertShellOutputs(output) {
		if !inSection {
			inSection = line == InfoSectionStart
			continue
		}

		m := infoLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label, value := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])

		field, ok := infoLabels[label]
		if !ok {
			continue
		}
		if !info.add(field, value) {
			log.WithFields(log.Fields{"device": devPath, "label": label, "value": value}).Debug("Value not recognized, skipped")
		}
	}

	return info
}

// add parses value for field and appends it, false when the value is absent
func (d *DiskInfo) add(field InfoField, value string) bool {
	switch field {
	case FieldModel:
		d.Model = append(d.Model, value)
	case FieldSerial:
		d.Serial = append(d.Serial, value)
	case FieldFirmware:
		d.Firmware = append(d.Firmware, value)
	case FieldFormFactor:
		d.FormFactor = append(d.FormFactor, value)
	case FieldCapacity:
		capacity, ok := ParseCapacity(value)
		if !ok {
			return false
		}
		d.Capacity = append(d.Capacity, capacity)
	case FieldSectors:
		sectors, ok := ParseSectorSizes(value)
		if !ok {
			return false
		}
		d.Sectors = append(d.Sectors, sectors)
	case FieldSpindleSpeed:
		rpm, ok := ParseRotationRate(value)
		if !ok {
			return false
		}
		d.SpindleSpeed = append(d.SpindleSpeed, rpm)
	case FieldSATAVersion:
		version, ok := ParseSATAVersion(value)
		if !ok {
			return false
		}
		d.SATAVersion = append(d.SATAVersion, version)
	case FieldSMARTEnabled:
		enabled, ok := ParseSMARTEnabled(value)
		if !ok {
			return false
		}
		d.SMARTEnabled = append(d.SMARTEnabled, enabled)
	default:
		return false
	}
	return true
}

// ParseCapacity "4,000,787,030,016 bytes [4.00 TB]" => 4000787030016
func ParseCapacity(value string) (int64, bool) {
	m := capacityValue.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	capacity, err := strconv.ParseInt(strings.ReplaceAll(m[1], ",", ""), 10, 64)
	if err != nil {
		return 0, false
	}
	return capacity, true
}

// ParseSectorSizes "512 bytes logical, 4096 bytes physical" => {512, 4096}.
// "512 bytes logical/physical" sets both sizes.
func ParseSectorSizes(value string) (SectorSizes, bool) {
	var sizes SectorSizes
	matches := sectorSizeValue.FindAllStringSubmatch(value, -1)
	for _, m := range matches {
		size, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return SectorSizes{}, false
		}
		switch m[2] {
		case "logical":
			sizes.Logical = size
		case "physical":
			sizes.Physical = size
		default:
			sizes.Logical, sizes.Physical = size, size
		}
	}
	return sizes, len(matches) > 0
}

// ParseRotationRate "7200 rpm" => 7200; "Solid State Device" has none
func ParseRotationRate(value string) (int64, bool) {
	m := rotationValue.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	rpm, err := strconv.ParseInt(m[1], 10, 64)
	return rpm, err == nil
}

// ParseSATAVersion "SATA 3.3, 6.0 Gb/s (current: 3.0 Gb/s)" => {6.0 Gb/s, 3.0 Gb/s}
func ParseSATAVersion(value string) (SATAVersion, bool) {
	m := sataValue.FindStringSubmatch(value)
	if m == nil {
		return SATAVersion{}, false
	}
	return SATAVersion{Rating: m[1], Current: m[2]}, true
}

// ParseSMARTEnabled accepts only "Enabled" and "Disabled"
func ParseSMARTEnabled(value string) (bool, bool) {
	switch value {
	case "Enabled":
		return true, true
	case "Disabled":
		return false, true
	}
	return false, false
}
