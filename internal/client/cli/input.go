package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/healthsync/internal/shared"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errEmptyConnectionString = errors.New("connection string is required")

// PromptConnectionString asks for the connection string on the terminal
// without echoing it. The bytes read are wiped before returning.
func PromptConnectionString(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Connection string: "); err != nil {
		return "", err
	}
	b, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read connection string: %w", err)
	}
	s := shared.SecretFromBytes(b)
	if s == "" {
		return "", errEmptyConnectionString
	}
	return s, nil
}
