package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tristendillon/httpskin/core/logger"
)

type EndpointNode struct {
	Segment   string
	Children  map[string]*EndpointNode
	Parent    *EndpointNode
	FullPath  string
	Depth     int
	Endpoints []EndpointDeclaration
}

// EndpointTree groups declarations by the segments of their URL path so a
// whole API surface can be printed at a glance.
type EndpointTree struct {
	Root  *EndpointNode
	Count int
}

func NewEndpointTree() *EndpointTree {
	return &EndpointTree{Root: newEndpointNode("", nil, "", 0)}
}

func newEndpointNode(segment string, parent *EndpointNode, fullPath string, depth int) *EndpointNode {
	return &EndpointNode{
		Segment:  segment,
		Children: make(map[string]*EndpointNode),
		Parent:   parent,
		FullPath: fullPath,
		Depth:    depth,
	}
}

func (et *EndpointTree) Reset() {
	et.Root = newEndpointNode("", nil, "", 0)
	et.Count = 0
}

// PathSegments splits the static part of a URL template into its non-empty
// segments.
func PathSegments(rawURL string) []string {
	path := rawURL
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	var parts []string
	for _, part := range strings.Split(path, "/") {
		if part != "" && part != "." {
			parts = append(parts, part)
		}
	}
	return parts
}

func (et *EndpointTree) Add(decl EndpointDeclaration) {
	current := et.Root
	for i, part := range PathSegments(decl.RawURL) {
		child, exists := current.Children[part]
		if !exists {
			fullPath := part
			if current.FullPath != "" {
				fullPath = current.FullPath + "/" + part
			}
			child = newEndpointNode(part, current, fullPath, i+1)
			current.Children[part] = child
		}
		current = child
	}
	current.Endpoints = append(current.Endpoints, decl)
	et.Count++
}

func (et *EndpointTree) AddInterfaces(ifaces []ApiInterface) {
	for _, iface := range ifaces {
		for _, decl := range iface.Endpoints {
			et.Add(decl)
		}
	}
}

func (et *EndpointTree) PrintTree(level logger.LogLevel) {
	et.printNode(et.Root, "", level)
}

func (et *EndpointTree) printNode(node *EndpointNode, prefix string, level logger.LogLevel) {
	log := logger.GetLogFromLevel(level)
	name := node.Segment
	if node == et.Root {
		name = "/"
	}
	log("%s%s", prefix, name)

	for _, decl := range node.Endpoints {
		info := fmt.Sprintf("%s %s(%s)", decl.Verb(), decl.MethodName, strings.Join(paramNames(decl.DeclaredParams), ", "))
		if i := strings.Index(decl.RawURL, "?"); i >= 0 {
			info += " defaults: " + decl.RawURL[i+1:]
		}
		log("%s  - %s", prefix, info)
	}

	keys := make([]string, 0, len(node.Children))
	for k := range node.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		et.printNode(node.Children[key], prefix+"  ", level)
	}
}

func paramNames(params []Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}
