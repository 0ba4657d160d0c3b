package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/urfave/cli/v2"

	"github.com/tildaslashalef/sonarshift/internal/codetree"
	"github.com/tildaslashalef/sonarshift/internal/utils"
)

// TreeCommand returns the CLI command that prints a directory tree
func TreeCommand() *cli.Command {
	return &cli.Command{
		Name:      "tree",
		Usage:     "Print the directory containing a report (or any directory) as a tree",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json or list",
				Value:   "json",
			},
		},
		Action: treeAction,
	}
}

func treeAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = "."
	}

	root, err := codetree.Generate(codetree.RootFor(path))
	if err != nil {
		utils.PrintError(fmt.Sprintf("Failed to read directory: %s", err))
		return err
	}

	switch c.String("format") {
	case "json":
		data, err := root.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "list":
		fmt.Println(treeList(root))
	default:
		return fmt.Errorf("unknown format %q (want json or list)", c.String("format"))
	}

	return nil
}

// treeList renders the tree with directories marked by a trailing slash
func treeList(root *codetree.Node) string {
	l := utils.CreateList()
	appendNode(l, root)
	return l.Render()
}

func appendNode(l list.Writer, n *codetree.Node) {
	if !n.IsDir() {
		l.AppendItem(n.Name)
		return
	}

	l.AppendItem(n.Name + "/")
	if len(n.Children) == 0 {
		return
	}

	l.Indent()
	for _, child := range n.Children {
		appendNode(l, child)
	}
	l.UnIndent()
}
