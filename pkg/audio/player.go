package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoPlayer is returned when playback is requested but no player command
// is configured.
var ErrNoPlayer = errors.New("no audio player configured")

// Player shells out to an external command to play a recording. The command
// string may contain {file} and {volume} placeholders; when {file} is absent
// the path is appended as the final argument. Volume is in [0,1] and passed
// to {volume} as a 0-100 integer.
type Player struct {
	Command string
	Volume  float64
	Logger  *slog.Logger
}

// Play runs the configured command for the given file and waits for it.
func (p *Player) Play(ctx context.Context, path string) error {
	argv, err := p.argv(path)
	if err != nil {
		return err
	}
	if p.Logger != nil {
		p.Logger.Debug("playing audio", "file", path, "command", argv[0])
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "play %s", path)
	}
	return nil
}

func (p *Player) argv(path string) ([]string, error) {
	if strings.TrimSpace(p.Command) == "" {
		return nil, ErrNoPlayer
	}
	volume := fmt.Sprintf("%d", int(p.Volume*100+0.5))

	args := strings.Fields(p.Command)
	hasFile := false
	for i, a := range args {
		a = strings.ReplaceAll(a, "{volume}", volume)
		if strings.Contains(a, "{file}") {
			a = strings.ReplaceAll(a, "{file}", path)
			hasFile = true
		}
		args[i] = a
	}
	if !hasFile {
		args = append(args, path)
	}
	return args, nil
}
