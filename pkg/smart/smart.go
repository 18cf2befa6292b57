package smart

import (
	"fmt"
	"path"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hwameistor/diskreport/pkg/exechelper"
)

const (
	_SMARTCtl = "smartctl"
	_Sudo     = "sudo"
)

// Controller queries disks with smartctl
type Controller struct {
	executor exechelper.Executor
	cmdName  string
	elevator string
	timeout  int
}

// Option customizes a Controller
type Option func(*Controller)

// WithCommand overrides the smartctl executable
func WithCommand(cmdName string) Option {
	return func(c *Controller) {
		if cmdName != "" {
			c.cmdName = cmdName
		}
	}
}

// WithElevator sets the privilege-elevation wrapper, empty runs smartctl directly
func WithElevator(elevator string) Option {
	return func(c *Controller) { c.elevator = elevator }
}

// WithTimeout bounds every smartctl run, in seconds
func WithTimeout(timeout int) Option {
	return func(c *Controller) { c.timeout = timeout }
}

// NewSMARTController used to get S.M.A.R.T info. smartctl runs through sudo unless told otherwise.
func NewSMARTController(executor exechelper.Executor, opts ...Option) *Controller {
	c := &Controller{
		executor: executor,
		cmdName:  _SMARTCtl,
		elevator: _Sudo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetDiskInfo returns the identity of the disk together with its SMART attributes
func (c *Controller) GetDiskInfo(devPath string) (*DiskInfo, error) {
	devPath = FormatDevPath(devPath)

	out, err := c.run("-i", devPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get info of %s: %w", devPath, err)
	}
	info := ParseDiskInfo(devPath, out)

	if info.SMARTAttributes, err = c.GetSMARTAttributes(devPath); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"device":     devPath,
		"model":      info.Model,
		"serial":     info.Serial,
		"attributes": len(info.SMARTAttributes),
	}).Debug("Succeed to get disk info")
	return info, nil
}

// GetSMARTAttributes returns the ATA SMART attributes of the disk keyed by hex ID
func (c *Controller) GetSMARTAttributes(devPath string) (AttributeTable, error) {
	devPath = FormatDevPath(devPath)

	out, err := c.run("-A", "-fhex,id", devPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get SMART attributes of %s: %w", devPath, err)
	}
	return ParseAttributes(out), nil
}

func (c *Controller) run(args ...string) (string, error) {
	return exechelper.Output(c.executor, exechelper.Elevate(c.elevator, exechelper.ExecParams{
		CmdName: c.cmdName,
		CmdArgs: args,
		Timeout: c.timeout,
	}))
}

// FormatDevPath sda => /dev/sda
func FormatDevPath(devPath string) string {
	if strings.HasPrefix(devPath, "/") {
		return devPath
	}
	return path.Join("/dev", devPath)
}
