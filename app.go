package main

import (
	"strings"

	"github.com/masmgr/bugspots-go/cmd"
)

func main() {
	cmd.Run()
}

// convertToRegex converts a comma-separated bugfix word list into the
// alternation regex the legacy CLI flags historically accepted.
func convertToRegex(words string) string {
	return strings.Join(strings.Split(words, ","), "|")
}
