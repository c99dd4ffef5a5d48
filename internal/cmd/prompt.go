package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirmer drives the per-file confirmation protocol: an empty line
// accepts one move, the literal token ALWAYS accepts every remaining move,
// and anything else skips the file at hand.
type confirmer struct {
	in     *bufio.Reader
	out    io.Writer
	always bool
}

func newConfirmer(in io.Reader, out io.Writer, assumeYes bool) *confirmer {
	return &confirmer{in: bufio.NewReader(in), out: out, always: assumeYes}
}

// Confirm asks whether src should be moved to dest.
func (c *confirmer) Confirm(src, dest string) bool {
	if c.always {
		return true
	}
	fmt.Fprintf(c.out, "Move '%s' to '%s'?\n", src, dest)
	fmt.Fprint(c.out, "(Press Enter to confirm, type 'ALWAYS' to confirm all, or any other input to skip): ")

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		// Closed stdin means nobody can answer; skip rather than guess.
		return false
	}
	answer := strings.TrimSpace(line)
	if strings.EqualFold(answer, "ALWAYS") {
		c.always = true
		return true
	}
	return answer == ""
}

// ConfirmYesNo asks a y/N question, used for validation warnings.
func (c *confirmer) ConfirmYesNo(question string) bool {
	if c.always {
		return true
	}
	fmt.Fprintf(c.out, "%s (y/N): ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
