package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"strata/internal/snapshot"
	"strata/internal/storage"
	"strata/internal/value"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file" + snapshot.Ext + ">",
	Short: "Print an array snapshot or a site profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		doc, err := snapshot.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		return renderDocument(cmd.OutOrStdout(), doc, limit)
	},
}

func init() {
	inspectCmd.Flags().Int("limit", 32, "max elements to print (0 = all)")
}

var repColors = map[storage.Representation]*color.Color{
	storage.Unknown:   color.New(color.FgHiBlack),
	storage.NarrowInt: color.New(color.FgGreen, color.Bold),
	storage.WideInt:   color.New(color.FgCyan, color.Bold),
	storage.Float:     color.New(color.FgYellow, color.Bold),
	storage.Generic:   color.New(color.FgMagenta, color.Bold),
}

func colorRep(rep storage.Representation) string {
	if c, ok := repColors[rep]; ok {
		return c.Sprint(rep.String())
	}
	return rep.String()
}

func renderDocument(out io.Writer, doc *snapshot.Document, limit int) error {
	switch doc.Kind {
	case snapshot.KindProfile:
		fmt.Fprintf(out, "profile: %d sites\n", len(doc.Profiles))
		for _, p := range doc.Profiles {
			fmt.Fprintf(out, "  %-32s %s\n", p.Name, colorRep(p.Rep))
		}
		return nil
	case snapshot.KindArray:
		arr, err := doc.Array.Array()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "array %q: %s, length %d\n", doc.Array.Name, colorRep(arr.Representation()), arr.Len())
		vs := arr.Values()
		if limit > 0 && len(vs) > limit {
			fmt.Fprintf(out, "  %s ... (%d more)\n", value.Inspect(vs[:limit]), len(vs)-limit)
			return nil
		}
		fmt.Fprintf(out, "  %s\n", arr)
		return nil
	default:
		return fmt.Errorf("unknown snapshot kind %q", doc.Kind)
	}
}
