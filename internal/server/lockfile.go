package server

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/hogar/internal/constants"
)

var (
	ErrAlreadyRunning = errors.New("hogar server is already running")
	ErrMalformedLock  = errors.New("lockfile is malformed")

	findProcessFunc = ps.FindProcess
)

// Lock is the content of the server lockfile: "{pid}:{port}".
type Lock struct {
	Path string
	PID  int
	Port int
}

// LockPath returns the lockfile location inside dir.
func LockPath(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

func ReadLock(path string) (Lock, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Lock{}, err
	}

	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 2 {
		return Lock{}, ErrMalformedLock
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Lock{}, fmt.Errorf("%w: invalid process ID %q", ErrMalformedLock, parts[0])
	}
	port, err := strconv.Atoi(parts[1])
	if err != nil {
		return Lock{}, fmt.Errorf("%w: invalid port %q", ErrMalformedLock, parts[1])
	}
	if port < 1 || port > 65535 {
		return Lock{}, fmt.Errorf("%w: port number %d is outside valid range (1-65535)", ErrMalformedLock, port)
	}
	return Lock{Path: path, PID: pid, Port: port}, nil
}

// Running reports whether the lockfile names a live hogar process. A missing
// lockfile or a dead or foreign pid is not running.
func Running(path string) (Lock, bool, error) {
	lock, err := ReadLock(path)
	if os.IsNotExist(err) {
		return Lock{}, false, nil
	}
	if err != nil {
		return Lock{}, false, err
	}

	process, err := findProcessFunc(lock.PID)
	if err != nil || process == nil {
		return lock, false, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return lock, false, nil
	}
	return lock, true, nil
}

// WriteLock records the current process as the server bound to port.
func WriteLock(path string, port int) (Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return Lock{}, fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	lock := Lock{Path: path, PID: os.Getpid(), Port: port}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(fmt.Sprintf("%d:%d", lock.PID, lock.Port)), 0600); err != nil {
		return Lock{}, fmt.Errorf("failed to write lockfile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return Lock{}, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return lock, nil
}

// Release removes the lockfile if it still belongs to this lock.
func (l Lock) Release() error {
	current, err := ReadLock(l.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err == nil && current.PID != l.PID {
		return nil
	}
	if err := os.Remove(l.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
