package exechelper

import (
	"bytes"
	"fmt"
	"strings"
)

// Executor is the interface for executing commands.
type Executor interface {
	RunCommand(params ExecParams) ExecResult
}

// ExecParams parameters to execute a command
type ExecParams struct {
	CmdName string
	CmdArgs []string
	// Timeout in seconds, 0 waits for the command forever
	Timeout int
}

// ExecResult result of executing a command
type ExecResult struct {
	OutBuf   *bytes.Buffer
	ErrBuf   *bytes.Buffer
	ExitCode int
	Error    error
}

// String returns the command line as it would be typed in a shell
func (p ExecParams) String() string {
	return strings.TrimSpace(p.CmdName + " " + strings.Join(p.CmdArgs, " "))
}

// CommandError is returned when a command exits non-zero or can't be started
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	cmdline := ExecParams{CmdName: e.Command, CmdArgs: e.Args}.String()
	if e.Output == "" {
		return fmt.Sprintf("command %q returned %d: %v", cmdline, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("command %q returned %d: %v, output: %s", cmdline, e.ExitCode, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Elevate wraps params so that the command runs through a privilege-elevation
// wrapper such as sudo. An empty wrapper returns params untouched.
func Elevate(wrapper string, params ExecParams) ExecParams {
	if wrapper == "" {
		return params
	}
	return ExecParams{
		CmdName: wrapper,
		CmdArgs: append([]string{params.CmdName}, params.CmdArgs...),
		Timeout: params.Timeout,
	}
}

// Output runs the command and returns its standard output. Any non-zero exit
// is reported as a *CommandError carrying the exit code and captured output.
func Output(executor Executor, params ExecParams) (string, error) {
	result := executor.RunCommand(params)

	var out string
	if result.OutBuf != nil {
		out = result.OutBuf.String()
	}

	if result.ExitCode != 0 || result.Error != nil {
		err := result.Error
		if err == nil {
			err = fmt.Errorf("exit status %d", result.ExitCode)
		}
		return "", &CommandError{
			Command:  params.CmdName,
			Args:     params.CmdArgs,
			ExitCode: result.ExitCode,
			Output:   out,
			Err:      err,
		}
	}

	return out, nil
}
