package process

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Options describe the process a serialized argv is handed to.
type Options struct {
	Executable string
	Cwd        string
	Env        []string
	// User is "uid" or "uid:gid".
	User     string
	Terminal bool
}

// New builds an OCI process running opts.Executable with argv.
func New(opts Options, argv []string) (*specs.Process, error) {
	if strings.TrimSpace(opts.Executable) == "" {
		return nil, errors.New("process: empty executable")
	}
	cwd := opts.Cwd
	if cwd == "" {
		cwd = "/"
	}
	p := &specs.Process{
		Cwd:      cwd,
		Env:      opts.Env,
		Args:     append([]string{opts.Executable}, argv...),
		Terminal: opts.Terminal,
	}
	if opts.User != "" {
		uid, gid, err := parseUser(opts.User)
		if err != nil {
			return nil, err
		}
		p.User.UID = uid
		p.User.GID = gid
	}
	return p, nil
}

func parseUser(spec string) (uint32, uint32, error) {
	parts := strings.SplitN(spec, ":", 2)
	uid, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("process: invalid uid in %q: %w", spec, err)
	}
	var gid uint64
	if len(parts) > 1 {
		if gid, err = strconv.ParseUint(parts[1], 10, 32); err != nil {
			return 0, 0, fmt.Errorf("process: invalid gid in %q: %w", spec, err)
		}
	}
	return uint32(uid), uint32(gid), nil
}

// Write encodes p as indented JSON.
func Write(w io.Writer, p *specs.Process) error {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal process: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write process: %w", err)
	}
	return nil
}
