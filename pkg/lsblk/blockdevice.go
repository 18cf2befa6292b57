package lsblk

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/hwameistor/diskreport/pkg/exechelper"
	"github.com/hwameistor/diskreport/pkg/utils/sys"
)

const (
	_LSBlk = "lsblk"

	// json path in lsblk result
	_LSBlkDevices = "blockdevices"
	_LSBlkName    = "name"
	_LSBlkMajMin  = "maj:min"
)

// BlockDevice is one top-level entry of the lsblk output
type BlockDevice struct {
	Path  string
	Major int
	Minor int
}

// BlockDeviceChecker tells whether a path is a block special file
type BlockDeviceChecker func(path string) bool

// Enumerator lists the block devices worth querying for SMART data
type Enumerator struct {
	executor exechelper.Executor
	cmdName  string
	timeout  int
	skip     sys.MajorSet
	isBlock  BlockDeviceChecker
	patterns []glob.Glob
}

// Option customizes an Enumerator
type Option func(*Enumerator)

// WithCommand overrides the lsblk executable
func WithCommand(cmdName string) Option {
	return func(e *Enumerator) {
		if cmdName != "" {
			e.cmdName = cmdName
		}
	}
}

// WithTimeout bounds the lsblk run, in seconds
func WithTimeout(timeout int) Option {
	return func(e *Enumerator) { e.timeout = timeout }
}

// WithBlockDeviceChecker replaces the filesystem block special file check
func WithBlockDeviceChecker(checker BlockDeviceChecker) Option {
	return func(e *Enumerator) { e.isBlock = checker }
}

// NewEnumerator creates an Enumerator excluding devices whose major number is in skip.
// Device paths must match at least one of the glob patterns, if any are given.
func NewEnumerator(executor exechelper.Executor, skip sys.MajorSet, patterns []string, opts ...Option) (*Enumerator, error) {
	e := &Enumerator{
		executor: executor,
		cmdName:  _LSBlk,
		skip:     skip,
		isBlock:  sys.IsBlockDevice,
	}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid device pattern %q: %w", pattern, err)
		}
		e.patterns = append(e.patterns, g)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ListDevicePaths returns the kept device paths in lsblk order
func (e *Enumerator) ListDevicePaths() ([]string, error) {
	output, err := exechelper.Output(e.executor, exechelper.ExecParams{
		CmdName: e.cmdName,
		CmdArgs: []string{"-Jp"},
		Timeout: e.timeout,
	})
	if err != nil {
		return nil, err
	}

	devices, err := ParseBlockDevices(output)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, device := range FilterDevices(devices, e.skip, e.isBlock) {
		if !e.matchPatterns(device.Path) {
			log.WithField("device", device.Path).Debug("Device path doesn't match any pattern, skipped")
			continue
		}
		paths = append(paths, device.Path)
	}

	log.WithFields(log.Fields{"found": len(devices), "kept": len(paths)}).Debug("Enumerated block devices")
	return paths, nil
}

func (e *Enumerator) matchPatterns(path string) bool {
	if len(e.patterns) == 0 {
		return true
	}
	for _, g := range e.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// ParseBlockDevices converts "lsblk -Jp" output into block devices. Only
// top-level entries are returned, children (partitions, holders) are ignored.
func ParseBlockDevices(output string) ([]BlockDevice, error) {
	if !gjson.Valid(output) {
		return nil, fmt.Errorf("invalid lsblk json format")
	}

	var (
		devices  []BlockDevice
		parseErr error
	)
	gjson.Get(output, _LSBlkDevices).ForEach(func(_, entry gjson.Result) bool {
		fields := entry.Map()
		device := BlockDevice{Path: fields[_LSBlkName].String()}
		device.Major, device.Minor, parseErr = parseMajMin(fields[_LSBlkMajMin].String())
		if parseErr != nil {
			parseErr = fmt.Errorf("device %q: %w", device.Path, parseErr)
			return false
		}
		devices = append(devices, device)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return devices, nil
}

// FilterDevices keeps the devices which are block special files and whose
// major number is not in the skip set
func FilterDevices(devices []BlockDevice, skip sys.MajorSet, isBlock BlockDeviceChecker) []BlockDevice {
	var kept []BlockDevice
	for _, device := range devices {
		if !isBlock(device.Path) {
			log.WithField("device", device.Path).Debug("Not a block device, skipped")
			continue
		}
		if skip.Has(device.Major) {
			log.WithFields(log.Fields{"device": device.Path, "major": device.Major}).Debug("Major number in skip list, skipped")
			continue
		}
		kept = append(kept, device)
	}
	return kept
}

// parseMajMin 8:16 => 8, 16
func parseMajMin(majMin string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(majMin), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed maj:min %q", majMin)
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed maj:min %q: %w", majMin, err)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed maj:min %q: %w", majMin, err)
	}
	return major, minor, nil
}
