package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// In and Out are the prompt streams. Tests replace them.
var (
	In  io.Reader = os.Stdin
	Out io.Writer = os.Stdout
)

var reader *bufio.Reader

func input() *bufio.Reader {
	if reader == nil {
		reader = bufio.NewReader(In)
	}
	return reader
}

// Reset drops buffered input, for use after In is replaced.
func Reset() {
	reader = nil
}

func readLine() (string, error) {
	line, err := input().ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(Out, label)
	line, err := readLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword prompts user for a password (hidden input). Input that is
// not a terminal is read as a plain line.
func PromptPassword(label string) (string, error) {
	fmt.Fprint(Out, label)

	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(Out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return readLine()
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(Out, label+" (y/n) ")
	line, err := readLine()
	if err != nil {
		return false, err
	}
	response := strings.TrimSpace(strings.ToLower(line))
	return response == "y" || response == "yes", nil
}

// PromptMultilineString reads lines until an empty line or maxLines.
func PromptMultilineString(label string, maxLines int) (string, error) {
	fmt.Fprintf(Out, "%s (empty line to finish):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
