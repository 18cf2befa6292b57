package basicexecutor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	utilexec "k8s.io/utils/exec"

	"github.com/hwameistor/diskreport/pkg/exechelper"
)

type basicExecutor struct {
	exec        utilexec.Interface
	formatRegex *regexp.Regexp
}

const (
	exitCodeTimeout    = 124
	exitCodeNotFound   = 127
	exitCodeErrDefault = 1
	exitCodeSuccess    = 0
)

// New creates a new basicExecutor instance, which implements
// exechelper.Executor interface
func New() exechelper.Executor {
	return NewWithInterface(utilexec.New())
}

// NewWithInterface creates a basicExecutor on top of the given exec implementation
func NewWithInterface(exec utilexec.Interface) exechelper.Executor {
	return &basicExecutor{exec: exec}
}

func (e *basicExecutor) squashString(str string) string {
	if e.formatRegex == nil {
		e.formatRegex = regexp.MustCompile("[\t\n\r]+")
	}
	return e.formatRegex.ReplaceAllString(str, " ")
}

// RunCommand run a command, and get result
func (e *basicExecutor) RunCommand(params exechelper.ExecParams) exechelper.ExecResult {
	log.WithFields(log.Fields{"params": params}).Debug("Running command")

	ctx := context.Background()
	var cmd utilexec.Cmd
	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*time.Duration(params.Timeout))
		defer cancel()
		cmd = e.exec.CommandContext(ctx, params.CmdName, params.CmdArgs...)
	} else {
		cmd = e.exec.Command(params.CmdName, params.CmdArgs...)
	}

	outbuf, errbuf := bytes.NewBufferString(""), bytes.NewBufferString("")
	cmd.SetStdout(outbuf)
	cmd.SetStderr(errbuf)
	err := cmd.Run()

	result := exechelper.ExecResult{
		OutBuf:   bytes.NewBufferString(strings.TrimSuffix(outbuf.String(), "\n")),
		ErrBuf:   bytes.NewBufferString(strings.TrimSuffix(errbuf.String(), "\n")),
		ExitCode: exitCodeSuccess,
		Error:    err,
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitCode = exitCodeTimeout
		result.Error = fmt.Errorf("command %s %s timed out after %d seconds", params.CmdName, params.CmdArgs, params.Timeout)
		err = result.Error
	}

	if err != nil && result.ExitCode == exitCodeSuccess {
		var exitError utilexec.ExitError
		switch {
		case errors.As(err, &exitError):
			result.ExitCode = exitError.ExitStatus()
		case errors.Is(err, utilexec.ErrExecutableNotFound):
			result.ExitCode = exitCodeNotFound
		default:
			// failed to get exit code, use default code
			result.ExitCode = exitCodeErrDefault
		}
		result.Error = errors.New(e.squashString(err.Error()))
	}

	log.WithFields(log.Fields{
		"command":  params.CmdName,
		"args":     params.CmdArgs,
		"timeout":  params.Timeout,
		"exitCode": result.ExitCode,
		"stderr":   result.ErrBuf.String(),
		"error":    result.Error,
	}).Debug("Finished running command")

	return result
}
