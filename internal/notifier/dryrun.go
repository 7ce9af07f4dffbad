package notifier

import (
	"fmt"
	"io"
	"os"

	"github.com/jmteo/gls-tracker/internal/site"
)

// DryRunNotifier prints what would be posted without actually posting.
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to stdout.
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{out: os.Stdout}
}

// NewDryRunNotifierTo creates a dry-run notifier writing to w.
func NewDryRunNotifierTo(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: w}
}

// Notify prints the posts that would be published.
func (n *DryRunNotifier) Notify(awards []site.Awarded) error {
	for i, a := range awards {
		post := formatPost(&a)
		fmt.Fprintf(n.out, "--- Post %d/%d ---\n", i+1, len(awards))
		fmt.Fprintln(n.out, post)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len(post))
	}
	return nil
}
