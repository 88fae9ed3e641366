package harness

import (
	"os"

	"github.com/roach88/blkbuster/internal/theme"
)

func fileTheme(name, read, write, discard, background string) theme.FileTheme {
	return theme.FileTheme{
		Name:       name,
		Read:       read,
		Write:      write,
		Discard:    discard,
		Background: background,
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
