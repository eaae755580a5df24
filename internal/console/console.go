// Package console implements the operator command surface
// (status/kick/whitelist): a bufio.Scanner loop over an io.Reader (stdin
// in production, anything in tests) dispatching whitespace-split command
// lines.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Kicker disconnects a connected player by username or UUID string,
// reporting whether anyone matched.
type Kicker interface {
	Kick(usernameOrUUID, reason string) bool
}

// Logger is the minimal sink console output is written to — satisfied by
// *internal/logging.Logger or, in tests, a plain io.Writer wrapper.
type Logger interface {
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Console reads whitespace-split commands from reader and dispatches
// them. It blocks until ctx is cancelled or reader reaches EOF.
type Console struct {
	reader    io.Reader
	log       Logger
	kicker    Kicker
	whitelist *Whitelist
	status    func() Status
}

// New creates a Console. status is called fresh on every "status" command.
func New(reader io.Reader, log Logger, kicker Kicker, whitelist *Whitelist, status func() Status) *Console {
	return &Console{reader: reader, log: log, kicker: kicker, whitelist: whitelist, status: status}
}

// Run consumes commands until ctx is cancelled or the reader is exhausted.
func (c *Console) Run(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			c.execute(strings.TrimSpace(line))
		}
	}
}

func (c *Console) execute(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch strings.ToLower(cmd) {
	case "status":
		c.log.Info("%s", c.status())
	case "kick":
		c.cmdKick(args)
	case "whitelist":
		c.cmdWhitelist(args)
	case "help":
		c.log.Info("commands: status | kick <player> [reason...] | whitelist on|off|add <name>|remove <name>|list")
	default:
		c.log.Error("unknown command %q, try 'help'", cmd)
	}
}

func (c *Console) cmdKick(args []string) {
	if len(args) == 0 {
		c.log.Error("usage: kick <player> [reason...]")
		return
	}
	reason := "Kicked by operator"
	if len(args) > 1 {
		reason = strings.Join(args[1:], " ")
	}
	if c.kicker == nil {
		c.log.Error("kick unavailable: no active connections manager")
		return
	}
	if !c.kicker.Kick(args[0], reason) {
		c.log.Error("no connected player matching %q", args[0])
		return
	}
	c.log.Info("kicked %s: %s", args[0], reason)
}

func (c *Console) cmdWhitelist(args []string) {
	if c.whitelist == nil {
		c.log.Error("whitelist unavailable")
		return
	}
	if len(args) == 0 {
		c.log.Error("usage: whitelist on|off|add <name>|remove <name>|list")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		c.whitelist.SetEnabled(true)
		c.log.Info("whitelist enabled")
	case "off":
		c.whitelist.SetEnabled(false)
		c.log.Info("whitelist disabled")
	case "add":
		if len(args) < 2 {
			c.log.Error("usage: whitelist add <name>")
			return
		}
		c.whitelist.Add(args[1])
		c.log.Info("added %s to whitelist", args[1])
	case "remove":
		if len(args) < 2 {
			c.log.Error("usage: whitelist remove <name>")
			return
		}
		c.whitelist.Remove(args[1])
		c.log.Info("removed %s from whitelist", args[1])
	case "list":
		c.log.Info("whitelisted: %s", strings.Join(c.whitelist.List(), ", "))
	default:
		c.log.Error("unknown whitelist subcommand %q", args[0])
	}
}

var _ fmt.Stringer = Status{}
