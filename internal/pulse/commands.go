package pulse

import (
	"errors"
	"fmt"
	"strconv"
)

// Commands holds the argv used for each sound server collaborator.
// Mutating commands get their numeric arguments appended at call time.
type Commands struct {
	Subscribe      []string `toml:"subscribe"`
	ListSinks      []string `toml:"list_sinks"`
	ListSinkStatus []string `toml:"list_sink_status"`
	ListStreams    []string `toml:"list_streams"`
	MoveStream     []string `toml:"move_stream"`
	SetDefaultSink []string `toml:"set_default_sink"`
}

// DefaultCommands returns the pactl/pacmd command lines.
func DefaultCommands() Commands {
	return Commands{
		Subscribe:      []string{"pactl", "subscribe"},
		ListSinks:      []string{"pacmd", "list-sinks"},
		ListSinkStatus: []string{"pactl", "list", "sinks"},
		ListStreams:    []string{"pacmd", "list-sink-inputs"},
		MoveStream:     []string{"pacmd", "move-sink-input"},
		SetDefaultSink: []string{"pacmd", "set-default-sink"},
	}
}

// Validate checks that every command has a program name.
func (c Commands) Validate() error {
	var errs []error
	for name, argv := range c.byName() {
		if len(argv) == 0 || argv[0] == "" {
			errs = append(errs, fmt.Errorf("command %s is empty", name))
		}
	}
	return errors.Join(errs...)
}

func (c Commands) byName() map[string][]string {
	return map[string][]string{
		"subscribe":        c.Subscribe,
		"list_sinks":       c.ListSinks,
		"list_sink_status": c.ListSinkStatus,
		"list_streams":     c.ListStreams,
		"move_stream":      c.MoveStream,
		"set_default_sink": c.SetDefaultSink,
	}
}

// withArgs returns a fresh argv made of base followed by the integer args.
func withArgs(base []string, args ...int) []string {
	argv := make([]string, 0, len(base)+len(args))
	argv = append(argv, base...)
	for _, a := range args {
		argv = append(argv, strconv.Itoa(a))
	}
	return argv
}
