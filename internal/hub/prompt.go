package hub

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm asks on w whether the archive should be pushed to repo and reads
// the answer from r. Only an explicit "y"/"yes" proceeds.
func Confirm(r io.Reader, w io.Writer, archivePath, repo string) bool {
	fmt.Fprintf(w, "Push %s to dataset %s? [y/N]: ", archivePath, repo)

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
