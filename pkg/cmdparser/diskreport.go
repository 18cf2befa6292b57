package cmdparser

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hwameistor/diskreport/pkg/cmdparser/definitions"
	"github.com/hwameistor/diskreport/pkg/config"
	"github.com/hwameistor/diskreport/pkg/exechelper"
	"github.com/hwameistor/diskreport/pkg/exechelper/basicexecutor"
	"github.com/hwameistor/diskreport/pkg/lsblk"
	"github.com/hwameistor/diskreport/pkg/report"
	"github.com/hwameistor/diskreport/pkg/smart"
	"github.com/hwameistor/diskreport/pkg/utils"
	"github.com/hwameistor/diskreport/pkg/utils/sys"
)

// NewDiskreport creates the root command, flags default to the given settings
func NewDiskreport(settings *config.Settings) *cobra.Command {
	return newDiskreport(settings, basicexecutor.New(), sys.IsBlockDevice)
}

func newDiskreport(settings *config.Settings, executor exechelper.Executor, isBlock lsblk.BlockDeviceChecker) *cobra.Command {
	help := definitions.CmdHelpMessages["diskreport"]
	cmd := &cobra.Command{
		Use:           "diskreport",
		Args:          cobra.ExactArgs(0),
		Short:         help.Short,
		Long:          help.Long,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Normalize()
			setupLogging(settings.Debug)
			return run(cmd, settings, executor, isBlock)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(wordSepNormalizeFunc)
	flags.BoolVar(&settings.Debug, "debug", settings.Debug, definitions.DebugUsage)
	flags.BoolVar(&settings.Dump, "dump", settings.Dump, definitions.DumpUsage)
	flags.StringVar(&settings.Sudo, "sudo", settings.Sudo, definitions.SudoUsage)
	flags.StringVar(&settings.Lsblk, "lsblk", settings.Lsblk, definitions.LsblkUsage)
	flags.StringVar(&settings.Smartctl, "smartctl", settings.Smartctl, definitions.SmartctlUsage)
	flags.StringVar(&settings.ProcDevices, "proc-devices", settings.ProcDevices, definitions.ProcDevicesUsage)
	flags.StringSliceVar(&settings.SkipDrivers, "skip-driver", settings.SkipDrivers, definitions.SkipDriverUsage)
	flags.StringSliceVar(&settings.Devices, "device", settings.Devices, definitions.DeviceUsage)
	flags.DurationVar(&settings.Timeout, "timeout", settings.Timeout, definitions.TimeoutUsage)

	return cmd
}

// wordSepNormalizeFunc accepts "_" in flag names, e.g. --proc_devices
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if strings.Contains(name, "_") {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	}
	return pflag.NormalizedName(name)
}

func run(cmd *cobra.Command, settings *config.Settings, executor exechelper.Executor, isBlock lsblk.BlockDeviceChecker) error {
	skip, err := sys.ResolveSkipSet(settings.ProcDevices, settings.SkipDrivers)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"drivers": settings.SkipDrivers, "majors": skip.List()}).Debug("Resolved skipped majors")

	timeout := settings.TimeoutSeconds()
	enumerator, err := lsblk.NewEnumerator(executor, skip, settings.Devices,
		lsblk.WithCommand(settings.Lsblk),
		lsblk.WithTimeout(timeout),
		lsblk.WithBlockDeviceChecker(isBlock))
	if err != nil {
		return err
	}
	inspector := smart.NewSMARTController(executor,
		smart.WithCommand(settings.Smartctl),
		smart.WithElevator(settings.Sudo),
		smart.WithTimeout(timeout))

	devices, err := report.NewCollector(enumerator, inspector).Collect()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if settings.Dump {
		if err := utils.PrettyPrintJSON(out, devices); err != nil {
			return err
		}
	}
	return report.Render(out, devices)
}

func setupLogging(enableDebug bool) {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if enableDebug {
		log.SetLevel(log.DebugLevel)
	}

	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		// log with funcname, file fileds. eg: func=Collect file="collector.go:43"
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			s := strings.Split(f.Function, ".")
			funcname := s[len(s)-1]
			filename := path.Base(f.File)
			return funcname, fmt.Sprintf("%s:%d", filename, f.Line)
		},
	})
	log.SetReportCaller(enableDebug)
}
