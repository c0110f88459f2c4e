package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dukex/operion-integrations/pkg/web"
	"github.com/olekukonko/tablewriter"
	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingNodeType   = errors.New("node type argument is required")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

func NewNodesCommand() *cli.Command {
	return &cli.Command{
		Name:  "nodes",
		Usage: "Inspect the available integration nodes",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the registered node types",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output format (table, json, yaml)",
						Value:   "table",
					},
				},
				Action: func(_ context.Context, command *cli.Command) error {
					nodeTypes := make([]web.NodeTypeResponse, 0)
					for _, factory := range catalog().GetAvailableNodes() {
						nodeTypes = append(nodeTypes, web.NodeTypeResponse{
							Type:        factory.ID(),
							Name:        factory.Name(),
							Description: factory.Description(),
						})
					}

					return writeNodeTypes(command.Root().Writer, command.String("output"), nodeTypes)
				},
			},
			{
				Name:      "schema",
				Usage:     "Print the configuration schema of a node type",
				ArgsUsage: "<type>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output format (json, yaml)",
						Value:   "json",
					},
				},
				Action: func(_ context.Context, command *cli.Command) error {
					nodeType := command.Args().First()
					if nodeType == "" {
						return ErrMissingNodeType
					}

					factory, err := catalog().GetNodeFactory(nodeType)
					if err != nil {
						return err
					}

					return encode(command.Root().Writer, command.String("output"), factory.Schema())
				},
			},
		},
	}
}

func writeNodeTypes(w io.Writer, format string, nodeTypes []web.NodeTypeResponse) error {
	if format != "table" {
		return encode(w, format, nodeTypes)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Type", "Name", "Description")

	for _, nodeType := range nodeTypes {
		_ = table.Append([]string{nodeType.Type, nodeType.Name, nodeType.Description})
	}

	return table.Render()
}

func encode(w io.Writer, format string, value any) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(value); err != nil {
			return err
		}

		return encoder.Close()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, format)
	}
}
