package main

import (
	"fmt"
	"strings"

	"github.com/imprakashraghu/way-engine/domain/core/graph"
	"github.com/imprakashraghu/way-engine/infrastructure/persistence"
	pkgerrors "github.com/imprakashraghu/way-engine/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	inspectNode string

	validateCmd = &cobra.Command{
		Use:   "validate [graph file]",
		Short: "Check a graph file against every graph invariant",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [graph file]",
		Short: "Print a summary of a graph, or the neighbourhood of one node",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
)

func init() {
	inspectCmd.Flags().StringVar(&inspectNode, "node", "", "show ports, edges and neighbours of this node")
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, violations := persistence.SafeReadFile(args[0])
	out := cmd.OutOrStdout()
	if len(violations) == 0 {
		fmt.Fprintf(out, "%s: ok\n", args[0])
		return nil
	}

	for _, v := range violations {
		fmt.Fprintf(out, "  - %s\n", v)
	}
	return pkgerrors.NewValidationError(fmt.Sprintf("%s: %d violation(s)", args[0], len(violations)))
}

func runInspect(cmd *cobra.Command, args []string) error {
	g, err := persistence.ReadFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if inspectNode == "" {
		fmt.Fprintf(out, "version: %s\n", g.Version())
		fmt.Fprintf(out, "nodes: %d\nports: %d\nedges: %d\n", g.NodeCount(), g.PortCount(), g.EdgeCount())
		for _, id := range g.NodeIDs() {
			node, _ := g.Node(id)
			fmt.Fprintf(out, "  %s (%s) at %g,%g\n", id, node.Type, node.Position.X, node.Position.Y)
		}
		return nil
	}

	return describeNode(cmd, g, inspectNode)
}

func describeNode(cmd *cobra.Command, g *graph.Store, id string) error {
	node, ok := g.Node(id)
	if !ok {
		return pkgerrors.NewNotFoundError("node", id)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "node %s (%s) at %g,%g\n", node.ID, node.Type, node.Position.X, node.Position.Y)
	fmt.Fprintln(out, "ports:")
	for _, p := range g.PortsOfNode(id) {
		fmt.Fprintf(out, "  %s [%s]\n", p.ID, p.Kind)
	}
	fmt.Fprintln(out, "edges:")
	for _, e := range g.EdgesOfNode(id) {
		fmt.Fprintf(out, "  %s: %s -> %s\n", e.ID, e.SourcePortID, e.TargetPortID)
	}

	neighbours := make([]string, 0)
	for _, n := range g.ConnectedNodes(id) {
		neighbours = append(neighbours, n.ID)
	}
	fmt.Fprintf(out, "connected: %s\n", strings.Join(neighbours, ", "))
	return nil
}
