package smart

import (
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/hwameistor/diskreport/pkg/utils"
)

// AttributesSectionStart precedes the attributes table in "smartctl -A" output
const AttributesSectionStart = "=== START OF READ SMART DATA SECTION ==="

var attributeLine = regexp.MustCompile(`^ *` +
	`(0x[0-9a-f]{2}) +` + // id
	`([^ ]+) +` + // name
	`(0x[0-9a-f]{4}) +` + // flag
	`([0-9]{1,3}) +` + // value
	`([0-9]{1,3}) +` + // worst
	`([0-9]{1,3}) +` + // threshold
	`(Pre-fail|Old_age) +` + // type
	`(Always|Offline) +` + // updated
	`(-|FAILING_NOW|In_the_past) +` + // when failed
	`(.*)$`) // raw value

var (
	hoursRawValue       = regexp.MustCompile(`^([0-9]+)(?: \([0-9]+ [0-9]+ [0-9]+\)|h\+[0-9]+m\+[0-9.]+s)?$`)
	temperatureRawValue = regexp.MustCompile(`^([0-9]+) \(Min/Max ([0-9]+)/([0-9]+)\)$`)
)

// rawValueDecoder fills the decoded fields of attr from its raw value,
// false when the raw value has an unexpected shape
type rawValueDecoder func(attr *Attribute) bool

var rawValueDecoders = map[string]rawValueDecoder{
	AttrPowerOnHours:       decodeHours,
	AttrHeadFlyingHours:    decodeHours,
	AttrAirflowTemperature: decodeTemperature,
}

// ParseAttributes parses the attributes table of "smartctl -A -f hex,id"
// output. Lines that are not attribute rows are dropped, and a repeated
// attribute ID keeps the last row.
func ParseAttributes(output string) AttributeTable {
	table := AttributeTable{}

	inSection := false
	for _, line := range utils.ConvertShellOutputs(output) {
		if !inSection {
			inSection = line == AttributesSectionStart
			continue
		}

		attr, ok := ParseAttributeLine(line)
		if !ok {
			continue
		}
		table[attr.ID] = attr
	}

	return table
}

// ParseAttributeLine parses one attributes table row, e.g.
// "0x09 Power_On_Hours 0x0032 065 065 000 Old_age Always - 31093"
func ParseAttributeLine(line string) (Attribute, bool) {
	m := attributeLine.FindStringSubmatch(line)
	if m == nil {
		return Attribute{}, false
	}

	// at most three digits each, can't fail
	value, _ := strconv.Atoi(m[4])
	worst, _ := strconv.Atoi(m[5])
	threshold, _ := strconv.Atoi(m[6])

	attr := Attribute{
		ID:         m[1],
		Name:       m[2],
		Flag:       m[3],
		Value:      value,
		Worst:      worst,
		Threshold:  threshold,
		Type:       AttributeType(m[7]),
		Updated:    m[8],
		WhenFailed: m[9],
		RawValue:   m[10],
	}
	if decode, ok := rawValueDecoders[attr.ID]; ok && !decode(&attr) {
		log.WithFields(log.Fields{"id": attr.ID, "raw": attr.RawValue}).Debug("Raw value not recognized, left undecoded")
	}
	return attr, true
}

func decodeHours(attr *Attribute) bool {
	hours, ok := ParseHours(attr.RawValue)
	if ok {
		attr.Hours = &hours
	}
	return ok
}

func decodeTemperature(attr *Attribute) bool {
	temperature, ok := ParseTemperature(attr.RawValue)
	if ok {
		attr.Temperature = &temperature
	}
	return ok
}

// ParseHours "31093", "31093 (136 221 0)" or "31093h+05m+12.345s" => 31093
func ParseHours(raw string) (int64, bool) {
	m := hoursRawValue.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	hours, err := strconv.ParseInt(m[1], 10, 64)
	return hours, err == nil
}

// ParseTemperature "36 (Min/Max 21/44)" => {21, 36, 44}
func ParseTemperature(raw string) (TemperatureRange, bool) {
	m := temperatureRawValue.FindStringSubmatch(raw)
	if m == nil {
		return TemperatureRange{}, false
	}
	var values [3]int64
	for i := range values {
		v, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return TemperatureRange{}, false
		}
		values[i] = v
	}
	return TemperatureRange{Current: values[0], Min: values[1], Max: values[2]}, true
}
