// Package prompt reads operator input for the admin commands.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Line prints prompt to w and reads one trimmed line from reader.
// A final line without a newline is accepted.
func Line(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Password reads a password from the terminal without echo.
func Password(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// NewPassword asks for a password twice and returns it if both match.
func NewPassword(w io.Writer) (string, error) {
	first, err := Password("Password", w)
	if err != nil {
		return "", err
	}
	defer wipe(first)

	second, err := Password("Repeat password", w)
	if err != nil {
		return "", err
	}
	defer wipe(second)

	if string(first) != string(second) {
		return "", ErrPasswordMismatch
	}
	return string(first), nil
}

// wipe zeroes b so the password does not linger in memory.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
