// Package console provides the interactive text shell over the session engine.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19tube/internal/app/notification"
	"github.com/osa030/19tube/internal/app/playback"
	"github.com/osa030/19tube/internal/app/session"
)

const prompt = "YT> "

// Shell reads commands line by line and writes their outcome as text.
type Shell struct {
	engine *session.Engine
	in     *bufio.Scanner
	out    io.Writer

	commands       []command
	byName         map[string]command
	subscriptionID string
}

// NewShell creates a shell and subscribes it to the engine's playback events.
func NewShell(engine *session.Engine, in io.Reader, out io.Writer) *Shell {
	s := &Shell{
		engine:   engine,
		in:       bufio.NewScanner(in),
		out:      out,
		commands: commandTable(),
		byName:   make(map[string]command),
	}
	for _, c := range s.commands {
		s.byName[c.name] = c
	}
	s.subscriptionID = engine.Notifications().Subscribe(s)
	return s
}

// Ensure Shell implements notification.Sink.
var _ notification.Sink = (*Shell)(nil)

// Send prints a playback event.
func (s *Shell) Send(n notification.Notification) error {
	e := n.Event
	switch e.Type {
	case playback.EventVideoStarted:
		s.printf("Playing video: %s", e.Video.Title)
	case playback.EventVideoStopped:
		s.printf("Stopping video: %s", e.Video.Title)
	case playback.EventStateChanged:
		if e.State == playback.StatePaused {
			s.printf("Pausing video: %s", e.Video.Title)
		} else {
			s.printf("Continuing video: %s", e.Video.Title)
		}
	case playback.EventPlaylistStarted:
		s.printf("Start playing playlist: %s", e.Playlist)
	}
	return nil
}

// Run reads commands until EXIT, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("Hello and welcome to YouTube, what would you like to do?")
	s.printf("Enter HELP for list of available commands or EXIT to terminate.")

	for ctx.Err() == nil {
		fmt.Fprint(s.out, prompt)
		line, ok := s.readLine()
		if !ok {
			break
		}
		if !s.Execute(line) {
			return nil
		}
	}

	if err := s.in.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// Execute runs one command line. It returns false when the shell should exit.
func (s *Shell) Execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	name := strings.ToUpper(fields[0])
	args := fields[1:]

	c, ok := s.byName[name]
	if !ok {
		s.printf("Please enter a valid command, type HELP for a list of available commands.")
		return true
	}
	if len(args) < c.minArgs || (c.maxArgs >= 0 && len(args) > c.maxArgs) {
		s.printf("Usage: %s", c.usage)
		return true
	}

	zlog.Debug().Msgf("console: command: name=%s, args=%d", c.name, len(args))
	return c.run(s, args)
}

// Close unsubscribes the shell from playback events.
func (s *Shell) Close() {
	s.engine.Notifications().Unsubscribe(s.subscriptionID)
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}
