package hierarchy

// Node kinds. Sites are router roots and their per-access children, plan
// nodes are auto-created per PPP profile, static nodes back the manually
// declared parents of static devices.
const (
	KindSite   = "site"
	KindPlan   = "plan"
	KindStatic = "static"
)

// Node is one aggregation point in the bandwidth hierarchy. Each node
// exclusively owns its children subtree.
type Node struct {
	// DownloadBandwidthMbps caps the combined download of all descendants.
	DownloadBandwidthMbps float64 `json:"downloadBandwidthMbps"`
	// UploadBandwidthMbps caps the combined upload of all descendants.
	UploadBandwidthMbps float64 `json:"uploadBandwidthMbps"`
	// Kind is the node type (site, plan, static).
	Kind string `json:"type"`
	// Children holds owned child nodes keyed by name.
	Children map[string]*Node `json:"children"`
}

// Tree is the hierarchy document: root nodes keyed by name.
type Tree map[string]*Node

// NewNode creates a node of the given kind with symmetric bandwidth caps.
func NewNode(kind string, mbps float64) *Node {
	return &Node{
		DownloadBandwidthMbps: mbps,
		UploadBandwidthMbps:   mbps,
		Kind:                  kind,
		Children:              make(map[string]*Node),
	}
}

// Find returns the node with the given name anywhere in the tree, or nil.
func (t Tree) Find(name string) *Node {
	if n, ok := t[name]; ok {
		return n
	}
	for _, root := range t {
		if n := findIn(root, name); n != nil {
			return n
		}
	}
	return nil
}

func findIn(n *Node, name string) *Node {
	if c, ok := n.Children[name]; ok {
		return c
	}
	for _, c := range n.Children {
		if found := findIn(c, name); found != nil {
			return found
		}
	}
	return nil
}
