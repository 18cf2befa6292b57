package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hwameistor/diskreport/pkg/exechelper"
	"github.com/hwameistor/diskreport/pkg/lsblk"
	"github.com/hwameistor/diskreport/pkg/smart"
	"github.com/hwameistor/diskreport/pkg/utils/sys"
)

const lsblkOutput = `{
   "blockdevices": [
      {"name":"/dev/loop0", "maj:min":"7:0", "rm":false, "size":"55.7M", "ro":true, "type":"loop", "mountpoints":["/snap/core18/2812"]},
      {"name":"/dev/sda", "maj:min":"8:0", "rm":false, "size":"3.6T", "ro":false, "type":"disk", "mountpoints":[null],
         "children": [
            {"name":"/dev/sda1", "maj:min":"8:1", "rm":false, "size":"3.6T", "ro":false, "type":"part", "mountpoints":["/srv"]}
         ]
      },
      {"name":"/dev/sdb", "maj:min":"8:16", "rm":false, "size":"465.8G", "ro":false, "type":"disk", "mountpoints":["/"]}
   ]
}`

func smartctlOutput(name string) exechelper.ExecResult {
	content, err := os.ReadFile(filepath.Join("..", "smart", "testdata", name))
	Expect(err).NotTo(HaveOccurred())
	return exechelper.ExecResult{OutBuf: bytes.NewBuffer(content), ErrBuf: &bytes.Buffer{}}
}

func smartctl(args ...string) exechelper.ExecParams {
	return exechelper.ExecParams{CmdName: "sudo", CmdArgs: append([]string{"smartctl"}, args...)}
}

var _ = Describe("Disk report", func() {
	var (
		ctrl     *gomock.Controller
		executor *exechelper.MockExecutor
		devices  DeviceTable
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		executor = exechelper.NewMockExecutor(ctrl)
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("with one rotational disk and one solid state disk", func() {
		BeforeEach(func() {
			executor.EXPECT().
				RunCommand(exechelper.ExecParams{CmdName: "lsblk", CmdArgs: []string{"-Jp"}}).
				Return(exechelper.ExecResult{OutBuf: bytes.NewBufferString(lsblkOutput), ErrBuf: &bytes.Buffer{}})
			executor.EXPECT().RunCommand(smartctl("-i", "/dev/sda")).Return(smartctlOutput("hdd_info.txt"))
			executor.EXPECT().RunCommand(smartctl("-A", "-fhex,id", "/dev/sda")).Return(smartctlOutput("hdd_attributes.txt"))
			executor.EXPECT().RunCommand(smartctl("-i", "/dev/sdb")).Return(smartctlOutput("ssd_info.txt"))
			executor.EXPECT().RunCommand(smartctl("-A", "-fhex,id", "/dev/sdb")).Return(smartctlOutput("ssd_attributes.txt"))

			enumerator, err := lsblk.NewEnumerator(executor, sys.NewMajorSet(7), nil,
				lsblk.WithBlockDeviceChecker(func(string) bool { return true }))
			Expect(err).NotTo(HaveOccurred())

			devices, err = NewCollector(enumerator, smart.NewSMARTController(executor)).Collect()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should collect both disks by model and serial", func() {
			Expect(devices).To(HaveLen(2))
			Expect(devices).To(HaveKey("ST4000VN008-2DR166:ZDH1ABCD"))
			Expect(devices).To(HaveKey("Samsung SSD 860 EVO 500GB:S3Z2NB0K123456A"))
			Expect(devices["Samsung SSD 860 EVO 500GB:S3Z2NB0K123456A"].SpindleSpeed).To(BeEmpty())
		})

		It("should render both disks sorted by serial", func() {
			buf := &bytes.Buffer{}
			Expect(Render(buf, devices)).To(Succeed())

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(HavePrefix("Path"))

			Expect(lines[2]).To(HavePrefix("/dev/sdb"))
			Expect(strings.Fields(lines[2])).To(ContainElements("S3Z2NB0K123456A", "RVT02B6Q", "11874", "12031", "301", "-"))
			Expect(lines[2]).To(ContainSubstring("500.1 GB"))
			Expect(lines[2]).To(HaveSuffix("18 / 31 / 62"))

			Expect(lines[3]).To(HavePrefix("/dev/sda"))
			Expect(strings.Fields(lines[3])).To(ContainElements("ZDH1ABCD", "SC60", "30871", "31093", "57", "8"))
			Expect(lines[3]).To(ContainSubstring("4.0 TB"))
			Expect(lines[3]).To(HaveSuffix("21 / 36 / 44"))
		})
	})

	Context("when smartctl fails", func() {
		It("should abort the collection", func() {
			executor.EXPECT().
				RunCommand(exechelper.ExecParams{CmdName: "lsblk", CmdArgs: []string{"-Jp"}}).
				Return(exechelper.ExecResult{OutBuf: bytes.NewBufferString(lsblkOutput), ErrBuf: &bytes.Buffer{}})
			executor.EXPECT().
				RunCommand(smartctl("-i", "/dev/sda")).
				Return(exechelper.ExecResult{OutBuf: &bytes.Buffer{}, ErrBuf: &bytes.Buffer{}, ExitCode: 2})

			enumerator, err := lsblk.NewEnumerator(executor, sys.NewMajorSet(7), nil,
				lsblk.WithBlockDeviceChecker(func(string) bool { return true }))
			Expect(err).NotTo(HaveOccurred())

			_, err = NewCollector(enumerator, smart.NewSMARTController(executor)).Collect()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("/dev/sda"))
		})
	})
})
