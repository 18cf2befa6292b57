package smart

import "encoding/json"

// InfoField is the canonical name of a field parsed from the information section
type InfoField string

const (
	FieldModel        InfoField = "model"
	FieldSerial       InfoField = "serial"
	FieldFirmware     InfoField = "firmware"
	FieldCapacity     InfoField = "capacity"
	FieldSectors      InfoField = "sectors"
	FieldSpindleSpeed InfoField = "spindle_speed"
	FieldFormFactor   InfoField = "form_factor"
	FieldSATAVersion  InfoField = "sata_version"
	FieldSMARTEnabled InfoField = "smart_enabled"
)

// ATA SMART attribute IDs as printed by "smartctl -f hex,id"
const (
	AttrReallocatedSectors = "0x05"
	AttrPowerOnHours       = "0x09"
	AttrPowerCycleCount    = "0x0c"
	AttrAirflowTemperature = "0xbe"
	AttrHeadFlyingHours    = "0xf0"
)

// AttributeType tells whether a failing attribute predicts imminent failure
type AttributeType string

const (
	AttributeTypePreFail AttributeType = "Pre-fail"
	AttributeTypeOldAge  AttributeType = "Old_age"
)

// SectorSizes in bytes, 0 when not reported
type SectorSizes struct {
	Logical  int64 `json:"logical,omitempty"`
	Physical int64 `json:"physical,omitempty"`
}

// SATAVersion holds the negotiated link speeds, e.g. "6.0 Gb/s"
type SATAVersion struct {
	Rating  string `json:"rating"`
	Current string `json:"current"`
}

// TemperatureRange in Celsius
type TemperatureRange struct {
	Min     int64 `json:"min"`
	Current int64 `json:"cur"`
	Max     int64 `json:"max"`
}

// Attribute is one row of the ATA SMART attributes table
type Attribute struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Flag       string        `json:"flag"`
	Value      int           `json:"value"`
	Worst      int           `json:"worst"`
	Threshold  int           `json:"threshold"`
	Type       AttributeType `json:"type"`
	Updated    string        `json:"updated"`
	WhenFailed string        `json:"when_failed"`
	RawValue   string        `json:"raw_value"`

	// decoded from RawValue for the attributes that have a decoder
	Hours       *int64            `json:"hours,omitempty"`
	Temperature *TemperatureRange `json:"temperature,omitempty"`
}

// AttributeTable is keyed by attribute ID, e.g. "0x09"
type AttributeTable map[string]Attribute

// DiskInfo is everything known about one disk. Every field keeps the values
// of all the lines it was parsed from, in output order: no value means the
// label never showed up, more than one means the label was repeated.
type DiskInfo struct {
	Path         string
	Model        []string
	Serial       []string
	Firmware     []string
	Capacity     []int64
	Sectors      []SectorSizes
	SpindleSpeed []int64
	FormFactor   []string
	SATAVersion  []SATAVersion
	SMARTEnabled []bool

	SMARTAttributes AttributeTable
}

// Has reports whether at least one value was parsed for the field
func (d *DiskInfo) Has(field InfoField) bool {
	return d.count(field) > 0
}

func (d *DiskInfo) count(field InfoField) int {
	switch field {
	case FieldModel:
		return len(d.Model)
	case FieldSerial:
		return len(d.Serial)
	case FieldFirmware:
		return len(d.Firmware)
	case FieldCapacity:
		return len(d.Capacity)
	case FieldSectors:
		return len(d.Sectors)
	case FieldSpindleSpeed:
		return len(d.SpindleSpeed)
	case FieldFormFactor:
		return len(d.FormFactor)
	case FieldSATAVersion:
		return len(d.SATAVersion)
	case FieldSMARTEnabled:
		return len(d.SMARTEnabled)
	}
	return 0
}

// MarshalJSON renders a field seen once as a scalar and a repeated field as a list
func (d DiskInfo) MarshalJSON() ([]byte, error) {
	fields := map[string]interface{}{
		"path":             d.Path,
		"smart_attributes": d.SMARTAttributes,
	}
	promote(fields, FieldModel, d.Model)
	promote(fields, FieldSerial, d.Serial)
	promote(fields, FieldFirmware, d.Firmware)
	promote(fields, FieldCapacity, d.Capacity)
	promote(fields, FieldSectors, d.Sectors)
	promote(fields, FieldSpindleSpeed, d.SpindleSpeed)
	promote(fields, FieldFormFactor, d.FormFactor)
	promote(fields, FieldSATAVersion, d.SATAVersion)
	promote(fields, FieldSMARTEnabled, d.SMARTEnabled)
	return json.Marshal(fields)
}

func promote[T any](fields map[string]interface{}, field InfoField, values []T) {
	switch len(values) {
	case 0:
	case 1:
		fields[string(field)] = values[0]
	default:
		fields[string(field)] = values
	}
}
