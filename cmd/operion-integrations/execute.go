package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dukex/operion-integrations/pkg/models"
	"github.com/dukex/operion-integrations/pkg/nodes/integration"
	"github.com/dukex/operion-integrations/pkg/web"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

var (
	ErrNodeFailed        = errors.New("node finished on its error port")
	ErrInvalidVariable   = errors.New("variables must be given as key=value")
	ErrConfigNotAnObject = errors.New("node configuration must be an object")
)

func NewExecuteCommand() *cli.Command {
	return &cli.Command{
		Name:    "execute",
		Aliases: []string{"exec"},
		Usage:   "Execute a single integration node and print its port results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "node",
				Aliases:  []string{"n"},
				Usage:    "Node type to execute (deepl, lemlist, googleanalytics)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to a JSON or YAML node configuration, - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "Node ID (auto-generated if not provided)",
			},
			&cli.StringSliceFlag{
				Name:  "var",
				Usage: "Template variable as key=value, may be repeated",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate the rendered configuration without calling the API",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			config, err := readNodeConfig(command.String("config"), command.Root().Reader)
			if err != nil {
				return err
			}

			variables, err := parseVariables(command.StringSlice("var"))
			if err != nil {
				return err
			}

			rt, err := openRuntime(ctx, command, "execute")
			if err != nil {
				return err
			}
			defer rt.Close(context.WithoutCancel(ctx))

			nodeType := command.String("node")

			execCtx := models.NewExecutionContext(uuid.NewString(), variables)

			if command.Bool("dry-run") {
				err = rt.registry.ValidateNode(ctx, nodeType, config, execCtx)
				if err != nil {
					return err
				}

				return encode(command.Root().Writer, "json", web.ValidateNodeResponse{Valid: true})
			}

			nodeID := command.String("id")
			if nodeID == "" {
				nodeID = nodeType + "-" + uuid.NewString()[:8]
			}

			node, err := rt.registry.CreateNode(ctx, nodeType, nodeID, config)
			if err != nil {
				return err
			}

			rt.logger.InfoContext(ctx, "Executing node",
				"node_type", nodeType,
				"node_id", nodeID,
				"execution_id", execCtx.ID,
			)

			results, err := node.Execute(ctx, execCtx, map[string]models.NodeResult{})
			if err != nil {
				return fmt.Errorf("failed to execute node %s: %w", nodeID, err)
			}

			err = encode(command.Root().Writer, "json", web.ExecuteNodeResponse{
				ExecutionID: execCtx.ID,
				NodeID:      nodeID,
				NodeType:    nodeType,
				Results:     results,
			})
			if err != nil {
				return err
			}

			if _, failed := results[integration.OutputPortError]; failed {
				return ErrNodeFailed
			}

			return nil
		},
	}
}

// readNodeConfig decodes a node configuration. YAML is a superset of JSON so
// both formats are accepted.
func readNodeConfig(path string, stdin io.Reader) (map[string]any, error) {
	var (
		raw []byte
		err error
	)

	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read node configuration: %w", err)
	}

	var decoded any

	err = yaml.Unmarshal(raw, &decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to parse node configuration: %w", err)
	}

	if decoded == nil {
		return map[string]any{}, nil
	}

	config, ok := decoded.(map[string]any)
	if !ok {
		return nil, ErrConfigNotAnObject
	}

	return config, nil
}

func parseVariables(pairs []string) (map[string]any, error) {
	variables := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVariable, pair)
		}

		variables[key] = value
	}

	return variables, nil
}
