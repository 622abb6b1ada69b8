// =============================================================================
// Addenda Generator - Theme Command
// =============================================================================
//
// COMMAND USAGE:
//   addenda theme            Print the stored preference
//   addenda theme claro      Store the light theme
//   addenda theme oscuro     Store the dark theme
//   addenda theme toggle     Switch between them
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soriana-addenda/addenda-generator/internal/prefs"
)

var themeCmd = &cobra.Command{
	Use:       "theme [claro|oscuro|toggle]",
	Short:     "Show or change the presentation preference",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(prefs.Light), string(prefs.Dark), "toggle"},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := prefs.NewStore(appConfig.PreferencesFile)

		var (
			theme prefs.Theme
			err   error
		)
		switch {
		case len(args) == 0:
			var p prefs.Preferences
			p, err = store.Load()
			theme = p.Theme
		case args[0] == "toggle":
			theme, err = store.ToggleTheme()
		default:
			theme, err = prefs.ParseTheme(args[0])
			if err == nil {
				theme, err = store.SetTheme(theme)
			}
		}
		if err != nil {
			return err
		}

		logger.Debug("theme preference", "path", store.Path(), "theme", theme)
		fmt.Fprintln(cmd.OutOrStdout(), theme)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
