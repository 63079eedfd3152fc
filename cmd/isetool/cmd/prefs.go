package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/navigator"
)

var showProject bool

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Project Navigator preference operations",
	Long: `Commands for reading and writing the Project Navigator preference file.

Paths are relative to the current ISE version section, e.g.
"Project Navigator/Recent Project List1".`,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print a preference value or group",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a preference value and save the file",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

var prefsVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ISE version the preferences belong to",
	Args:  cobra.NoArgs,
	RunE:  runPrefsVersion,
}

var prefsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Print the most recently opened project",
	Args:  cobra.NoArgs,
	RunE:  runPrefsRecent,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd, prefsVersionCmd, prefsRecentCmd)

	prefsRecentCmd.Flags().BoolVarP(&showProject, "project", "p", false,
		"also show details of the project")
}

func newNavigator() *navigator.Navigator {
	return navigator.New(preferenceFile(), navigator.WithLogger(logger))
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	v, err := newNavigator().Preference(args[0])
	if err != nil {
		return err
	}
	printTree(cmd, v, "")
	return nil
}

func printTree(cmd *cobra.Command, v any, indent string) {
	out := cmd.OutOrStdout()
	group, ok := v.(map[string]any)
	if !ok {
		fmt.Fprintf(out, "%s%v\n", indent, v)
		return
	}

	keys := make([]string, 0, len(group))
	for k := range group {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sub, ok := group[k].(map[string]any); ok {
			fmt.Fprintf(out, "%s%s/\n", indent, k)
			printTree(cmd, sub, indent+"  ")
			continue
		}
		fmt.Fprintf(out, "%s%s = %v\n", indent, k, group[k])
	}
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	return newNavigator().SetPreference(args[0], args[1])
}

func runPrefsVersion(cmd *cobra.Command, args []string) error {
	v, err := newNavigator().Version()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func runPrefsRecent(cmd *cobra.Command, args []string) error {
	nav := newNavigator()
	if !showProject {
		path, err := nav.MostRecentProjectPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	proj, err := nav.MostRecentProject()
	if err != nil {
		return err
	}
	printProject(cmd, proj)
	return nil
}
