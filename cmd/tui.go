package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rbf-calc/repository"
	"rbf-calc/service"
	"rbf-calc/tui"
)

var tuiFromURL string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive calculator",
	Long: `Starts the terminal calculator. The status bar shows the share link,
updated as you type.

Navigation:
  Tab / ↑ ↓      - move between inputs
  Ctrl+N / Ctrl+P - change the solved variable
  Esc / Ctrl+C    - quit and print the share link`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiFromURL, "from-url", "", "start from the state in a share link")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Logging to the terminal would corrupt the screen.
	cfg, err := loadConfig(io.Discard)
	if err != nil {
		return err
	}

	loc := service.Location{Origin: cfg.Share.Origin, Path: cfg.Share.Path}
	rawQuery := ""
	if tuiFromURL != "" {
		if loc, rawQuery, err = service.ParseLocation(tuiFromURL); err != nil {
			return err
		}
	}

	address := repository.NewAddressBar("")
	model := tui.NewModel(address, loc, rawQuery, service.SystemClock)

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.SetNotifier(p.Send)

	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(tui.Model); ok {
		fmt.Fprintln(cmd.OutOrStdout(), service.EncodeState(loc, m.Values(), m.SolveFor()))
	}
	return nil
}
