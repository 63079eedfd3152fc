package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/library"
	"github.com/OpenTraceLab/OpenTraceISE/pkg/ise/symbol"
)

var (
	symOutput   string
	libBusWidth int
)

var symCmd = &cobra.Command{
	Use:   "sym",
	Short: "ISE schematic symbol operations",
	Long: `Commands for working with ISE schematic symbol files (.sym).

Commands that change the symbol write it back in place unless --output is given.`,
}

var symInfoCmd = &cobra.Command{
	Use:   "info <symbol_file>",
	Short: "Show symbol name, attributes and pins",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymInfo,
}

var symAttrCmd = &cobra.Command{
	Use:   "attr <symbol_file> <name> [value]",
	Short: "Get or set a symbol attribute",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runSymAttr,
}

var symRenameCmd = &cobra.Command{
	Use:   "rename <symbol_file> <pin> <new_name>",
	Short: "Rename a pin and its labels",
	Args:  cobra.ExactArgs(3),
	RunE:  runSymRename,
}

var symBoundsCmd = &cobra.Command{
	Use:   "bounds <symbol_file> <pin> <left> <right>",
	Short: "Set the bus bounds of a pin",
	Long: `Set the bus bounds of a pin, keeping its base name.

Example:
  isetool sym bounds BusMux16.sym 'i0(7:0)' 14 3   # i0(7:0) -> i0(14:3)`,
	Args: cobra.ExactArgs(4),
	RunE: runSymBounds,
}

var symWidthCmd = &cobra.Command{
	Use:   "width <symbol_file> <pin> <width>",
	Short: "Resize a bus pin",
	Long: `Resize a pin to the given number of bits.

An ascending bus (0:7) keeps its left bound; any other bus keeps its right
bound. A single-bit pin becomes a bus bounded at zero.

Examples:
  isetool sym width BusMux16.sym 'i0(7:0)' 4   # -> i0(3:0)
  isetool sym width BusMux16.sym 'i0(0:7)' 4   # -> i0(0:3)
  isetool sym width BusMux16.sym i 10          # -> i(9:0)`,
	Args: cobra.ExactArgs(3),
	RunE: runSymWidth,
}

var symLibCmd = &cobra.Command{
	Use:   "lib <directory>",
	Short: "List or resize the symbols of a symbol library",
	Long: `List every .sym file below a directory by symbol name.

With --bus-width, every symbol with a BusWidth attribute is rebuilt for the
new width: the attribute changes and so do the bus pins that matched the old
width. The files are rewritten in place.

Example:
  isetool sym lib ISESymbolLibrary/MSI_Components --bus-width 16`,
	Args: cobra.ExactArgs(1),
	RunE: runSymLib,
}

func init() {
	rootCmd.AddCommand(symCmd)
	symCmd.AddCommand(symInfoCmd, symAttrCmd, symRenameCmd, symBoundsCmd, symWidthCmd, symLibCmd)

	symLibCmd.Flags().IntVar(&libBusWidth, "bus-width", 0, "set the bus width of every parameterized symbol")

	for _, c := range []*cobra.Command{symAttrCmd, symRenameCmd, symBoundsCmd, symWidthCmd} {
		c.Flags().StringVarP(&symOutput, "output", "o", "", "write the result to this file instead")
	}
}

func runSymInfo(cmd *cobra.Command, args []string) error {
	sym, err := symbol.LoadFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Symbol: %s\n", sym.Name())
	fmt.Fprintln(out)

	if attrs := sym.Attributes(); len(attrs) > 0 {
		fmt.Fprintln(out, "Attributes:")
		for _, a := range attrs {
			fmt.Fprintf(out, "  %s: %s\n", a.Name, a.Value)
		}
		fmt.Fprintln(out)
	}

	pins := sym.Pins()
	fmt.Fprintf(out, "Pins (%d):\n", len(pins))
	for _, p := range pins {
		width := "?"
		if name, err := sym.PinBounds(p); err == nil {
			width = strconv.Itoa(name.Width())
		}
		fmt.Fprintf(out, "  %-16s %-8s width %s, %d label(s)\n",
			p.Name(), p.Attr("polarity"), width, len(sym.Labels(p)))
	}
	return nil
}

func runSymLib(cmd *cobra.Command, args []string) error {
	lib := library.New()
	if err := lib.LoadDir(args[0]); err != nil {
		return err
	}

	if libBusWidth != 0 {
		if err := lib.SetBusWidth(libBusWidth); err != nil {
			return err
		}
		if err := lib.Save(); err != nil {
			return err
		}
		logger.Info("library resized", "dir", args[0], "width", libBusWidth)
	}

	out := cmd.OutOrStdout()
	for _, name := range lib.Names() {
		sym, err := lib.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %3d pins  %s\n", name, len(sym.Pins()), sym.Filename())
	}
	return nil
}

func runSymAttr(cmd *cobra.Command, args []string) error {
	sym, err := symbol.LoadFile(args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		v, err := sym.Attribute(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}

	if err := sym.SetAttribute(args[1], args[2]); err != nil {
		return err
	}
	return saveSymbol(sym)
}

func runSymRename(cmd *cobra.Command, args []string) error {
	return editPin(cmd, args[0], args[1], func(sym *symbol.Symbol, pin *symbol.Pin) error {
		return sym.RenamePin(pin, args[2])
	})
}

func runSymBounds(cmd *cobra.Command, args []string) error {
	left, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid left bound: %w", err)
	}
	right, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("invalid right bound: %w", err)
	}
	return editPin(cmd, args[0], args[1], func(sym *symbol.Symbol, pin *symbol.Pin) error {
		return sym.SetPinBounds(pin, left, right)
	})
}

func runSymWidth(cmd *cobra.Command, args []string) error {
	width, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid width: %w", err)
	}
	return editPin(cmd, args[0], args[1], func(sym *symbol.Symbol, pin *symbol.Pin) error {
		return sym.SetPinWidth(pin, width)
	})
}

// editPin loads a symbol, applies edit to the named pin, reports the rename
// and saves the result.
func editPin(cmd *cobra.Command, file, pinName string, edit func(*symbol.Symbol, *symbol.Pin) error) error {
	sym, err := symbol.LoadFile(file)
	if err != nil {
		return err
	}
	pin, err := sym.Pin(pinName)
	if err != nil {
		return err
	}
	if err := edit(sym, pin); err != nil {
		return err
	}

	logger.Info("pin updated", "symbol", sym.Name(), "from", pinName, "to", pin.Name())
	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", pinName, pin.Name())
	return saveSymbol(sym)
}

func saveSymbol(sym *symbol.Symbol) error {
	if err := sym.Save(symOutput); err != nil {
		return err
	}
	logger.Debug("symbol saved", "file", targetName(symOutput, sym.Filename()))
	return nil
}

func targetName(output, original string) string {
	if output != "" {
		return output
	}
	return original
}
