package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// SessionNavigator stands in for page navigation in a terminal. Sending the
// user to the login route prints a notice once per process.
type SessionNavigator struct {
	writer io.Writer
	once   sync.Once
	paths  []string
	mu     sync.Mutex
}

func NewSessionNavigator(w io.Writer) *SessionNavigator {
	if w == nil {
		w = os.Stderr
	}
	return &SessionNavigator{writer: w}
}

func (n *SessionNavigator) Navigate(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()

	n.once.Do(func() {
		yellow := color.New(color.FgYellow).SprintFunc()
		fmt.Fprintf(n.writer, "%s session expired or not signed in, run `studyhub login` (%s)\n", yellow("!"), path)
	})
}

// Visited returns every path navigated to, in order
func (n *SessionNavigator) Visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
