package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/abrezinsky/padelpools/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var levelCycle = map[string]string{
	"DEBUG": "info",
	"INFO":  "warn",
	"WARN":  "error",
	"ERROR": "debug",
}

// console handles single-key operator shortcuts. The terminal is in raw
// mode while it runs, so output lines end in \r\n.
type console struct {
	log  *logger.SlogLogger
	out  io.Writer
	quit context.CancelFunc
}

// handleKey performs the action bound to b. Returns false once quit was requested.
func (c *console) handleKey(b byte) bool {
	switch b {
	case 'h', 'H':
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging disabled%s\r\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			fmt.Fprintf(c.out, "%sHTTP logging enabled%s\r\n", green, reset)
		}
	case 'l', 'L':
		next, ok := levelCycle[c.log.GetLevel().String()]
		if !ok {
			next = "info"
		}
		c.log.SetLevel(logger.ParseLevel(next))
		fmt.Fprintf(c.out, "%sLog level: %s%s%s\r\n", green, yellow, next, reset)
	case '?':
		c.printHelp()
	case 'q', 'Q', 0x03: // 0x03 is Ctrl+C, which raw mode does not turn into SIGINT
		fmt.Fprintf(c.out, "%sShutting down server...%s\r\n", yellow, reset)
		c.quit()
		return false
	}
	return true
}

func (c *console) printHelp() {
	fmt.Fprintf(c.out, "\r\n%s%s  Keyboard shortcuts:%s\r\n", bold, green, reset)
	fmt.Fprintf(c.out, "    %sh%s      - Toggle HTTP request logging\r\n", cyan, reset)
	fmt.Fprintf(c.out, "    %sl%s      - Cycle log level (debug, info, warn, error)\r\n", cyan, reset)
	fmt.Fprintf(c.out, "    %sq%s      - Quit server\r\n", cyan, reset)
	fmt.Fprintf(c.out, "    %s?%s      - Show this help\r\n\r\n", cyan, reset)
}

// run reads keys from in until quit or EOF
func (c *console) run(in io.Reader) {
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if !c.handleKey(buf[0]) {
			return
		}
	}
}

// startConsole puts stdin in raw mode and listens for shortcuts. It does
// nothing when stdin is not a terminal. The returned func restores the terminal.
func startConsole(log *logger.SlogLogger, quit context.CancelFunc) func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		log.Warn("Keyboard shortcuts unavailable", "error", err)
		return func() {}
	}

	c := &console{log: log, out: os.Stdout, quit: quit}
	c.printHelp()
	go c.run(os.Stdin)

	var once sync.Once
	return func() {
		once.Do(func() { _ = term.Restore(fd, state) })
	}
}
