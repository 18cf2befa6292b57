package lsblk

import (
	"bytes"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwameistor/diskreport/pkg/exechelper"
	"github.com/hwameistor/diskreport/pkg/utils/sys"
)

const lsblkOutput = `{
   "blockdevices": [
      {"name":"/dev/loop0", "maj:min":"7:0", "rm":false, "size":"55.5M", "ro":true, "type":"loop", "mountpoints":["/snap/core18/2745"]},
      {"name":"/dev/sda", "maj:min":"8:0", "rm":false, "size":"3.6T", "ro":false, "type":"disk", "mountpoints":[null],
         "children": [
            {"name":"/dev/sda1", "maj:min":"8:1", "rm":false, "size":"3.6T", "ro":false, "type":"part", "mountpoints":["/data"]}
         ]
      },
      {"name":"/dev/sdb", "maj:min":"8:16", "rm":"0", "size":"465.8G", "ro":"0", "type":"disk", "mountpoint":null},
      {"name":"/dev/zd0", "maj:min":"230:0", "rm":false, "size":"10G", "ro":false, "type":"disk", "mountpoints":[null]},
      {"name":"/dev/nvme0n1", "maj:min":"259:0", "rm":false, "size":"931.5G", "ro":false, "type":"disk", "mountpoints":[null]},
      {"name":"/dev/sr0", "maj:min":"11:0", "rm":true, "size":"1024M", "ro":false, "type":"rom", "mountpoints":[null]}
   ]
}`

func allBlockDevices(string) bool { return true }

func TestParseBlockDevices(t *testing.T) {
	devices, err := ParseBlockDevices(lsblkOutput)
	require.NoError(t, err)

	assert.Equal(t, []BlockDevice{
		{Path: "/dev/loop0", Major: 7, Minor: 0},
		{Path: "/dev/sda", Major: 8, Minor: 0},
		{Path: "/dev/sdb", Major: 8, Minor: 16},
		{Path: "/dev/zd0", Major: 230, Minor: 0},
		{Path: "/dev/nvme0n1", Major: 259, Minor: 0},
		{Path: "/dev/sr0", Major: 11, Minor: 0},
	}, devices)
}

func TestParseBlockDevicesErrors(t *testing.T) {
	_, err := ParseBlockDevices("lsblk: unknown column")
	assert.Error(t, err)

	_, err = ParseBlockDevices(`{"blockdevices":[{"name":"/dev/sda","maj:min":"8"}]}`)
	assert.ErrorContains(t, err, "/dev/sda")

	_, err = ParseBlockDevices(`{"blockdevices":[{"name":"/dev/sda","maj:min":"x:0"}]}`)
	assert.Error(t, err)

	devices, err := ParseBlockDevices(`{"blockdevices":[]}`)
	assert.NoError(t, err)
	assert.Empty(t, devices)
}

func TestFilterDevicesBySkipSet(t *testing.T) {
	devices := []BlockDevice{
		{Path: "/dev/loop0", Major: 7, Minor: 0},
		{Path: "/dev/loop7", Major: 7, Minor: 7},
		{Path: "/dev/sda", Major: 8, Minor: 0},
		{Path: "/dev/nvme0n1", Major: 259, Minor: 0},
		{Path: "/dev/sdb", Major: 8, Minor: 16},
	}

	kept := FilterDevices(devices, sys.NewMajorSet(7, 259), allBlockDevices)

	assert.Equal(t, []BlockDevice{
		{Path: "/dev/sda", Major: 8, Minor: 0},
		{Path: "/dev/sdb", Major: 8, Minor: 16},
	}, kept)
}

func TestFilterDevicesByBlockCheck(t *testing.T) {
	devices := []BlockDevice{
		{Path: "/dev/sda", Major: 8, Minor: 0},
		{Path: "/dev/ghost", Major: 8, Minor: 32},
	}
	onlySda := func(path string) bool { return path == "/dev/sda" }

	kept := FilterDevices(devices, sys.NewMajorSet(), onlySda)

	assert.Equal(t, []BlockDevice{{Path: "/dev/sda", Major: 8, Minor: 0}}, kept)
}

func TestEnumeratorListDevicePaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := exechelper.NewMockExecutor(ctrl)
	executor.EXPECT().
		RunCommand(exechelper.ExecParams{CmdName: "lsblk", CmdArgs: []string{"-Jp"}}).
		Return(exechelper.ExecResult{OutBuf: bytes.NewBufferString(lsblkOutput)}).
		Times(1)

	notRom := func(path string) bool { return path != "/dev/sr0" }
	enumerator, err := NewEnumerator(executor, sys.NewMajorSet(7, 230, 259), nil, WithBlockDeviceChecker(notRom))
	require.NoError(t, err)

	paths, err := enumerator.ListDevicePaths()
	assert.NoError(t, err)
	assert.Equal(t, []string{"/dev/sda", "/dev/sdb"}, paths)
}

func TestEnumeratorPatterns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := exechelper.NewMockExecutor(ctrl)
	executor.EXPECT().
		RunCommand(exechelper.ExecParams{CmdName: "/usr/bin/lsblk", CmdArgs: []string{"-Jp"}, Timeout: 10}).
		Return(exechelper.ExecResult{OutBuf: bytes.NewBufferString(lsblkOutput)})

	enumerator, err := NewEnumerator(executor, sys.NewMajorSet(), []string{"/dev/sd[b-z]", "/dev/zd*"},
		WithBlockDeviceChecker(allBlockDevices), WithCommand("/usr/bin/lsblk"), WithTimeout(10))
	require.NoError(t, err)

	paths, err := enumerator.ListDevicePaths()
	assert.NoError(t, err)
	assert.Equal(t, []string{"/dev/sdb", "/dev/zd0"}, paths)
}

func TestEnumeratorCommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	executor := exechelper.NewMockExecutor(ctrl)
	executor.EXPECT().
		RunCommand(gomock.Any()).
		Return(exechelper.ExecResult{OutBuf: bytes.NewBufferString(""), ExitCode: 32})

	enumerator, err := NewEnumerator(executor, sys.NewMajorSet(), nil)
	require.NoError(t, err)

	_, err = enumerator.ListDevicePaths()
	var cmdErr *exechelper.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 32, cmdErr.ExitCode)
}
