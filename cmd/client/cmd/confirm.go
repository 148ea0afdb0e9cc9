package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"grapetracker/internal/app/client/varieties"
)

// newConfirmer спрашивает y/N в терминале; assumeYes отключает вопрос
func newConfirmer(in io.Reader, out io.Writer, assumeYes bool) varieties.Confirmer {
	reader := bufio.NewReader(in)
	return varieties.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "д", "да":
			return true
		}
		return false
	})
}
