package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/loom/document"
	"github.com/syssam/loom/document/paste"
)

func newPasteCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "paste [file]",
		Short: "Convert HTML into document nodes",
		Long: `Read HTML from file, or standard input when omitted, and print the document
nodes as JSON, or as msgpack with --format msgpack.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			nodes, err := paste.Deserialize(r)
			if err != nil {
				return fmt.Errorf("read html: %w", err)
			}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(nodes)
			case "msgpack":
				data, err := document.MarshalBinary(nodes)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or msgpack")
	return cmd
}
