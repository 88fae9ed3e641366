package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/theme"
)

// ThemesOptions holds flags for the themes command.
type ThemesOptions struct {
	*RootOptions
	ThemesFile string
}

// ThemeInfo describes one theme's colors.
type ThemeInfo struct {
	Name       string `json:"name"`
	Read       string `json:"read"`
	Write      string `json:"write"`
	Discard    string `json:"discard"`
	Background string `json:"background"`
}

// ThemeList is the themes command's result.
type ThemeList struct {
	Themes []ThemeInfo `json:"themes"`
}

func (l ThemeList) String() string {
	var b strings.Builder
	for i, t := range l.Themes {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-10s read=%s write=%s discard=%s background=%s",
			t.Name, t.Read, t.Write, t.Discard, t.Background)
	}
	return b.String()
}

// NewThemesCommand creates the themes command.
func NewThemesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ThemesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List color themes",
		Long: `List the built-in color themes and any defined in --themes-file.

A themes file is YAML:

  themes:
    - name: neon
      read: "#39ff14"
      write: "#00ffff"
      discard: "#ff00ff"
      background: "#000000"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemes(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ThemesFile, "themes-file", "", "YAML file with extra themes")

	return cmd
}

func runThemes(opts *ThemesOptions, cmd *cobra.Command) error {
	flags := ConfigFlags{ThemesFile: opts.ThemesFile}
	reg, err := flags.themes()
	if err != nil {
		return err
	}

	list := ThemeList{Themes: []ThemeInfo{}}
	for _, name := range reg.Names() {
		th, err := reg.Lookup(name)
		if err != nil {
			return WrapExitError(ExitFailure, "theme registry inconsistent", err)
		}
		list.Themes = append(list.Themes, themeInfo(th))
	}
	return newFormatter(opts.RootOptions, cmd).Success(list)
}

func themeInfo(th theme.Theme) ThemeInfo {
	return ThemeInfo{
		Name:       th.Name,
		Read:       th.Read.Hex(),
		Write:      th.Write.Hex(),
		Discard:    th.Discard.Hex(),
		Background: th.Background.Hex(),
	}
}
