package voice

import (
	"bufio"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ExecRecognizer shells out to a configured speech-to-text command and
// reads one transcript line from its stdout. Each Start runs a fresh
// process; Abort kills it.
type ExecRecognizer struct {
	args []string
}

// NewExecRecognizer feature-detects the command once: it must be
// non-empty and resolvable on PATH.
func NewExecRecognizer(command string) (*ExecRecognizer, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, errors.New("no recognizer command configured")
	}
	if _, err := exec.LookPath(args[0]); err != nil {
		return nil, fmt.Errorf("recognizer command unavailable: %w", err)
	}
	return &ExecRecognizer{args: args}, nil
}

func (r *ExecRecognizer) Start(cb Callbacks) (Session, error) {
	cmd := exec.Command(r.args[0], r.args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("recognizer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start recognizer: %w", err)
	}

	s := &execSession{cmd: cmd}
	go func() {
		scanner := bufio.NewScanner(stdout)
		var transcript string
		if scanner.Scan() {
			transcript = strings.TrimSpace(scanner.Text())
		}
		werr := cmd.Wait()

		s.mu.Lock()
		aborted := s.aborted
		s.mu.Unlock()
		if aborted {
			return
		}

		switch {
		case transcript != "":
			if cb.OnResult != nil {
				cb.OnResult(transcript)
			}
		case werr != nil:
			if cb.OnError != nil {
				cb.OnError(fmt.Errorf("recognizer: %w", werr))
			}
		default:
			if cb.OnError != nil {
				cb.OnError(errors.New("recognizer produced no transcript"))
			}
		}
		if cb.OnEnd != nil {
			cb.OnEnd()
		}
	}()
	return s, nil
}

type execSession struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	aborted bool
}

func (s *execSession) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.mu.Unlock()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
}
