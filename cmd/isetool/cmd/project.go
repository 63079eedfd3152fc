package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/project"
)

var keepDefault bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "ISE project file operations",
	Long:  `Commands for working with ISE project files (.xise)`,
}

var projectInfoCmd = &cobra.Command{
	Use:   "info <project_file>",
	Short: "Show top-level file, working directory and bit file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectInfo,
}

var projectPropCmd = &cobra.Command{
	Use:   "prop <project_file> <property> [value]",
	Short: "Get or set a project property",
	Long: `Get or set a project property.

Setting a property marks it non-default unless --default is given.

Examples:
  isetool project prop top.xise "Last Applied Goal"
  isetool project prop top.xise "Last Applied Goal" "Timing Performance"`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runProjectProp,
}

var projectMinimizeCmd = &cobra.Command{
	Use:   "minimize <project_file>",
	Short: "Build in a temporary directory with the minimum-runtime goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectMinimize,
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectInfoCmd, projectPropCmd, projectMinimizeCmd)

	projectPropCmd.Flags().BoolVar(&keepDefault, "default", false,
		"leave the property's valueState unchanged")
}

func runProjectInfo(cmd *cobra.Command, args []string) error {
	proj, err := project.LoadFile(args[0])
	if err != nil {
		return err
	}
	printProject(cmd, proj)
	return nil
}

func printProject(cmd *cobra.Command, proj *project.Project) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", proj.Filename())
	if name, err := proj.Property(project.ShortNameProperty); err == nil {
		fmt.Fprintf(out, "Design: %s\n", name)
	}
	if top, err := proj.TopLevelFile(true); err == nil {
		fmt.Fprintf(out, "Top-level file: %s\n", top)
	}
	if wd, err := proj.WorkingDirectory(); err == nil {
		fmt.Fprintf(out, "Working directory: %s\n", wd)
	}
	if bit, ok, err := proj.BitFile(); err == nil {
		if ok {
			fmt.Fprintf(out, "Bit file: %s\n", bit)
		} else {
			fmt.Fprintf(out, "Bit file: (not built)\n")
		}
	}
}

func runProjectProp(cmd *cobra.Command, args []string) error {
	proj, err := project.LoadFile(args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		v, err := proj.Property(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}

	if err := proj.SetProperty(args[1], args[2], !keepDefault); err != nil {
		return err
	}
	logger.Info("property updated", "project", proj.Filename(), "property", args[1], "value", args[2])
	return proj.Save("")
}

func runProjectMinimize(cmd *cobra.Command, args []string) error {
	proj, err := project.LoadFile(args[0])
	if err != nil {
		return err
	}
	dir, err := proj.MinimizeRuntime()
	if err != nil {
		return err
	}
	if err := proj.Save(""); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Working directory: %s\n", dir)
	return nil
}
