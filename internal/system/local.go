package system

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/snmp-tools/mibfs/internal/logger"
)

type LocalSystem struct {
	logger logger.Logger
}

func NewLocalSystem(log logger.Logger) *LocalSystem {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &LocalSystem{
		logger: log,
	}
}

func (l *LocalSystem) FS() Filesystem {
	return LocalFilesystem{}
}

func (l *LocalSystem) Run(cmd *Command) (int, error) {
	command := exec.Command(cmd.Name, cmd.Args...)

	command.Stdout = cmd.Stdout
	command.Stderr = cmd.Stderr
	command.Stdin = cmd.Stdin
	command.Env = os.Environ()

	for key, value := range cmd.Env {
		command.Env = append(command.Env, key+"="+value)
	}

	l.logger.CmdArray(cmd.Argv())

	if !cmd.ForwardSignals {
		return exitStatus(command.Run())
	}

	// Forward stop signals to the local process
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()

	go func() {
		for {
			select {
			case sig := <-sigCh:
				if command.Process != nil {
					err := command.Process.Signal(sig)
					if err != nil {
						l.logger.Warnf("failed to forward signal to process: %v", err)
					}
				}
			case <-done:
				return
			}
		}
	}()

	err := command.Run()
	close(done)

	return exitStatus(err)
}

func exitStatus(err error) (int, error) {
	if exitErr, ok := err.(*exec.ExitError); ok {
		if status, ok := exitErr.Sys().(interface{ ExitStatus() int }); ok {
			return status.ExitStatus(), err
		}
	}

	return 0, err
}

func (l *LocalSystem) Logger() logger.Logger {
	return l.logger
}

func (l *LocalSystem) HasCommand(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
