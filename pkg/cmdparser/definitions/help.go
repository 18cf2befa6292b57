package definitions

type helpMessage struct {
	Short string
	Long  string
}

// CmdHelpMessages [CmdName]
var CmdHelpMessages = map[string]helpMessage{
	"diskreport": {
		Short: "Diskreport prints a health summary of the local disks.",
		Long: "Diskreport lists the block devices with lsblk, reads the identity and ATA SMART attributes\n" +
			"of every physical disk with smartctl and prints one line per disk, ordered by serial number.\n" +
			"smartctl is run through sudo unless --sudo is set to an empty string.",
	},
}

// Flag usages
const (
	DebugUsage       = "Enable debug logging"
	DumpUsage        = "Print the collected device table as JSON before the summary"
	SudoUsage        = "Privilege elevation wrapper for smartctl, empty to run it directly"
	LsblkUsage       = "Path of the lsblk executable"
	SmartctlUsage    = "Path of the smartctl executable"
	ProcDevicesUsage = "Registry of the device drivers' major numbers"
	SkipDriverUsage  = "Drivers whose devices are skipped"
	DeviceUsage      = "Only report devices whose path matches one of these glob patterns"
	TimeoutUsage     = "Timeout of every external command, 0 waits forever"
)
