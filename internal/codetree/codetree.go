// Package codetree renders a directory as a JSON tree
package codetree

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tildaslashalef/sonarshift/internal/loggy"
)

// Node types
const (
	TypeDirectory = "directory"
	TypeFile      = "file"
)

// Node is a file or directory. Directories always carry a (possibly empty)
// children list; files never do.
type Node struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory
func (n *Node) IsDir() bool {
	return n.Type == TypeDirectory
}

// MarshalJSON keeps "children": [] on empty directories
func (n *Node) MarshalJSON() ([]byte, error) {
	if !n.IsDir() {
		return json.Marshal(struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}{n.Name, n.Type})
	}

	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	return json.Marshal(struct {
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Children []*Node `json:"children"`
	}{n.Name, n.Type, children})
}

// Generate walks root and returns its tree with entries sorted by name.
// Unreadable directories are logged and reported with no children.
func Generate(root string) (*Node, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "generate", Path: absRoot, Err: errors.New("not a directory")}
	}

	return walk(absRoot, filepath.Base(absRoot))
}

func walk(dir, name string) (*Node, error) {
	node := &Node{Name: name, Type: TypeDirectory, Children: []*Node{}}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrPermission) {
		loggy.Warn("Permission denied", "path", dir)
		return node, nil
	}
	if err != nil {
		return nil, err
	}

	// os.ReadDir already sorts by file name
	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())

		// Follow symlinks the way a stat would
		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			if info, err := os.Stat(childPath); err == nil {
				isDir = info.IsDir()
			}
		}

		if !isDir {
			node.Children = append(node.Children, &Node{Name: entry.Name(), Type: TypeFile})
			continue
		}

		child, err := walk(childPath, entry.Name())
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	return node, nil
}

// RootFor returns path itself when it is a directory, otherwise its parent directory.
// Passing the CSV report therefore prints the folder the report sits in.
func RootFor(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

// JSON renders the tree indented by two spaces
func (n *Node) JSON() ([]byte, error) {
	return json.MarshalIndent(n, "", "  ")
}
