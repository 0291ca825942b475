// Package debug provides an interactive operator console for a running proxy.
package debug

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Versifine/protolib/internal/protocol"
	"github.com/Versifine/protolib/internal/proxy"
)

const prompt = "protolib> "

type SessionManager interface {
	Sessions() []*proxy.Session
	PacketType(key protocol.Key) (reflect.Type, bool)
	CreatePacket(key protocol.Key) (*protocol.Packet, error)
}

type Settings interface {
	Debug() bool
	SetDebug(debug bool)
	ModCount() int
	AutoDelay() time.Duration
	AutoLastTime() int64
	Reload() error
	SaveAll() error
}

type Console struct {
	sessions SessionManager
	settings Settings
}

func NewConsole(sessions SessionManager, settings Settings) *Console {
	return &Console{sessions: sessions, settings: settings}
}

// Start puts stdin into raw mode and runs the console on it.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Print("\r\n")
	}()

	return c.Run(ctx, struct {
		io.Reader
		io.Writer
	}{os.Stdin, os.Stdout})
}

// Run reads commands from rw until EOF, quit or ctx is done.
func (c *Console) Run(ctx context.Context, rw io.ReadWriter) error {
	t := term.NewTerminal(rw, prompt)
	fmt.Fprintln(t, "[debug] console started (type help for commands)")
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := t.ReadLine()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if !c.executeCommand(t, strings.TrimSpace(line)) {
			return nil
		}
	}
}

// executeCommand returns false when the console should stop.
func (c *Console) executeCommand(w io.Writer, cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "help":
		c.printHelp(w)
	case "quit", "exit":
		return false
	case "sessions":
		sessions := c.sessions.Sessions()
		if len(sessions) == 0 {
			fmt.Fprintln(w, "[debug] no sessions")
		}
		for _, s := range sessions {
			fmt.Fprintf(w, "[debug] %s remote=%s state=%s\n", s.ID(), s.RemoteAddr(), s.State())
		}
	case "kick":
		if len(parts) != 2 {
			fmt.Fprintln(w, "[debug] usage: kick <session id prefix>")
			return true
		}
		s := c.findSession(parts[1])
		if s == nil {
			fmt.Fprintf(w, "[debug] session %s not found\n", parts[1])
			return true
		}
		s.Close()
		fmt.Fprintf(w, "[debug] closed %s\n", s.ID())
	case "packet":
		c.handlePacketCommand(w, parts)
	case "debug":
		c.handleDebugCommand(w, parts)
	case "status":
		c.printStatus(w)
	case "save":
		if err := c.settings.SaveAll(); err != nil {
			fmt.Fprintf(w, "[debug] save failed: %v\n", err)
			return true
		}
		fmt.Fprintln(w, "[debug] configuration saved")
	case "reload":
		if err := c.settings.Reload(); err != nil {
			fmt.Fprintf(w, "[debug] reload failed: %v\n", err)
			return true
		}
		fmt.Fprintf(w, "[debug] configuration reloaded (mod=%d)\n", c.settings.ModCount())
	default:
		fmt.Fprintf(w, "[debug] unknown command: %s\n", parts[0])
	}
	return true
}

func (c *Console) handlePacketCommand(w io.Writer, parts []string) {
	if len(parts) != 4 {
		fmt.Fprintln(w, "[debug] usage: packet <state> <c2s|s2c> <id>")
		return
	}
	state, ok := parseState(parts[1])
	if !ok {
		fmt.Fprintf(w, "[debug] invalid state: %s\n", parts[1])
		return
	}
	dir, ok := parseDirection(parts[2])
	if !ok {
		fmt.Fprintf(w, "[debug] invalid direction: %s\n", parts[2])
		return
	}
	id, err := strconv.ParseInt(parts[3], 0, 32)
	if err != nil {
		fmt.Fprintf(w, "[debug] invalid packet id: %s\n", parts[3])
		return
	}
	key := protocol.Key{State: state, Direction: dir, ID: int32(id)}
	typ, ok := c.sessions.PacketType(key)
	if !ok {
		fmt.Fprintf(w, "[debug] no packet type for %s %s 0x%02x\n", state, dir, id)
		return
	}
	p, err := c.sessions.CreatePacket(key)
	if err != nil {
		fmt.Fprintf(w, "[debug] cannot create packet: %v\n", err)
		return
	}
	fmt.Fprintf(w, "[debug] packet 0x%02x type=%s payload=%s\n", p.ID, typ, hex.EncodeToString(p.Payload))
}

func (c *Console) handleDebugCommand(w io.Writer, parts []string) {
	if len(parts) == 2 {
		switch parts[1] {
		case "on":
			c.settings.SetDebug(true)
		case "off":
			c.settings.SetDebug(false)
		default:
			fmt.Fprintln(w, "[debug] usage: debug [on|off]")
			return
		}
	}
	fmt.Fprintf(w, "[debug] debug=%s\n", boolLabel(c.settings.Debug()))
}

func (c *Console) printStatus(w io.Writer) {
	last := "never"
	if ts := c.settings.AutoLastTime(); ts > 0 {
		last = time.Unix(ts, 0).Format(time.DateTime)
	}
	fmt.Fprintf(w, "[debug] sessions=%d debug=%s mod=%d update_delay=%s last_update=%s\n",
		len(c.sessions.Sessions()), boolLabel(c.settings.Debug()), c.settings.ModCount(),
		c.settings.AutoDelay(), last)
}

func (c *Console) findSession(prefix string) *proxy.Session {
	var found *proxy.Session
	for _, s := range c.sessions.Sessions() {
		if strings.HasPrefix(s.ID().String(), prefix) {
			if found != nil {
				return nil
			}
			found = s
		}
	}
	return found
}

func (c *Console) printHelp(w io.Writer) {
	fmt.Fprintln(w, "[debug] commands:")
	fmt.Fprintln(w, "  status                            show sessions, settings and update timer")
	fmt.Fprintln(w, "  sessions                          list open sessions")
	fmt.Fprintln(w, "  kick <id prefix>                  close a session")
	fmt.Fprintln(w, "  packet <state> <c2s|s2c> <id>     build a blank packet")
	fmt.Fprintln(w, "  debug [on|off]                    show or change debug mode")
	fmt.Fprintln(w, "  save | reload                     write or re-read the configuration")
	fmt.Fprintln(w, "  quit")
}

func parseState(s string) (protocol.State, bool) {
	for _, state := range []protocol.State{
		protocol.Handshaking, protocol.Status, protocol.Login, protocol.Configuration, protocol.Play,
	} {
		if strings.EqualFold(s, state.String()) {
			return state, true
		}
	}
	return 0, false
}

func parseDirection(s string) (protocol.Direction, bool) {
	switch strings.ToLower(s) {
	case "c2s", "serverbound":
		return protocol.Serverbound, true
	case "s2c", "clientbound":
		return protocol.Clientbound, true
	}
	return 0, false
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
