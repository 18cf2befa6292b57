package sys

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/hwameistor/diskreport/pkg/utils"
)

// ProcDevicesPath is the kernel registry of character and block device drivers
const ProcDevicesPath = "/proc/devices"

// ErrMajorNotFound is returned when a driver has no major number in the registry
var ErrMajorNotFound = errors.New("major number not found")

// registryLine matches "<spaces><majno> <name>", e.g. "  7 loop"
var registryLine = regexp.MustCompile(`^ *([0-9]+) (.+)$`)

// MajorSet is a set of device major numbers
type MajorSet map[int]struct{}

// NewMajorSet builds a set from the given major numbers
func NewMajorSet(majors ...int) MajorSet {
	set := MajorSet{}
	for _, major := range majors {
		set[major] = struct{}{}
	}
	return set
}

// Has reports whether the major number is in the set
func (s MajorSet) Has(major int) bool {
	_, ok := s[major]
	return ok
}

// List returns the major numbers in ascending order
func (s MajorSet) List() []int {
	majors := make([]int, 0, len(s))
	for major := range s {
		majors = append(majors, major)
	}
	sort.Ints(majors)
	return majors
}

// ResolveMajor looks up the major number registered for the driver name.
// The first exact match wins, whichever section of the registry it is in.
func ResolveMajor(registryPath string, name string) (int, error) {
	content, err := ReadSysFSFileAsString(registryPath)
	if err != nil {
		return 0, err
	}

	for _, line := range utils.ConvertShellOutputs(content) {
		m := registryLine.FindStringSubmatch(line)
		if m == nil || m[2] != name {
			continue
		}
		return strconv.Atoi(m[1])
	}

	return 0, fmt.Errorf("cannot get major number for %s: %w", name, ErrMajorNotFound)
}

// ResolveSkipSet resolves the major number of every driver name, failing on
// the first name missing from the registry
func ResolveSkipSet(registryPath string, names []string) (MajorSet, error) {
	set := MajorSet{}
	for _, name := range names {
		major, err := ResolveMajor(registryPath, name)
		if err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{"driver": name, "major": major}).Debug("Resolved driver major number")
		set[major] = struct{}{}
	}
	return set, nil
}

// IsBlockDevice reports whether path, after following symlinks, is a block special file
func IsBlockDevice(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&os.ModeDevice != 0 && mode&os.ModeCharDevice == 0
}

// ReadSysFSFileAsString reads a file from the sysfs or procfs filesystem and returns its content as a string.
func ReadSysFSFileAsString(sysFilePath string) (string, error) {
	b, err := os.ReadFile(filepath.Clean(sysFilePath))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
