package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/goinglive/internal/shared"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints prompt and reads one trimmed line. A final line
// without a newline is accepted.
func GetSimpleText(r *bufio.Reader, prompt string, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s: ", prompt)
	s, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// GetPassword reads a password from the terminal without echo.
func GetPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	defer shared.WipeByteArray(b)
	return string(b), nil
}

// GetMultiline reads lines until one holding a single "." or EOF.
func GetMultiline(r *bufio.Reader, prompt string, out io.Writer) (string, error) {
	fmt.Fprintf(out, "%s (finish with a single '.' line):\n", prompt)

	var lines []string
	for {
		line, err := r.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		if err == nil || trimmed != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}
