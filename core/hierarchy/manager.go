package hierarchy

import (
	"fmt"

	"go.uber.org/zap"
)

// Manager owns the hierarchy tree for the duration of a reconciliation
// cycle. Nodes are created lazily with the default bandwidth cap the first
// time a circuit references them; the caps of existing nodes are operator
// tunables and are never overwritten here.
type Manager struct {
	tree        Tree
	defaultMbps float64
	dirty       bool
	log         *zap.Logger
}

// ParentRequest describes one circuit's parent assignment. The three
// policies are mutually exclusive and evaluated in order: manual pool,
// per-plan node, default per-access node.
type ParentRequest struct {
	// Router is the router name the circuit was observed on.
	Router string
	// KindPrefix is the access-kind node prefix (PPP, HS, DHCP).
	KindPrefix string
	// Plan is the subscriber plan (PPP profile); used only when PerPlan is set.
	Plan string
	// PerPlan enables the per-plan auto node policy for this router.
	PerPlan bool
	// ManualEnabled indicates the manual pool policy is configured on.
	ManualEnabled bool
	// Pool is the ordered list of pre-declared parent names.
	Pool []string
	// Rotation is the cycle-scoped round-robin counter, shared across all
	// circuits processed in the cycle.
	Rotation *int
}

// NewManager wraps a loaded tree. A nil tree starts empty.
func NewManager(tree Tree, defaultMbps float64, log *zap.Logger) *Manager {
	if tree == nil {
		tree = make(Tree)
	}
	return &Manager{tree: tree, defaultMbps: defaultMbps, log: log}
}

// Tree returns the underlying hierarchy document.
func (m *Manager) Tree() Tree { return m.tree }

// Dirty reports whether any node was created since the tree was loaded.
func (m *Manager) Dirty() bool { return m.dirty }

// EnsureRouterNode idempotently creates the router's root node plus one
// child per enabled access-kind prefix. Existing nodes are left untouched.
func (m *Manager) EnsureRouterNode(router string, kindPrefixes []string) {
	root, ok := m.tree[router]
	if !ok {
		root = NewNode(KindSite, m.defaultMbps)
		m.tree[router] = root
		m.dirty = true
		m.log.Info("Added router to hierarchy", zap.String("router", router))
	}
	if root.Children == nil {
		root.Children = make(map[string]*Node)
	}
	for _, prefix := range kindPrefixes {
		name := fmt.Sprintf("%s-%s", prefix, router)
		if _, ok := root.Children[name]; !ok {
			root.Children[name] = NewNode(KindSite, m.defaultMbps)
			m.dirty = true
		}
	}
}

// EnsureStaticParent creates a root-level node of kind static if the name
// does not resolve anywhere in the tree yet.
func (m *Manager) EnsureStaticParent(name string) {
	if m.tree.Find(name) != nil {
		return
	}
	m.tree[name] = NewNode(KindStatic, m.defaultMbps)
	m.dirty = true
	m.log.Info("Added static parent node to hierarchy", zap.String("node", name))
}

// ResolveParent picks the parent node for one dynamic circuit and makes sure
// that node exists. An enabled manual pool that turns out to be empty falls
// back to the default policy; the engine reports the misconfiguration once
// per cycle.
func (m *Manager) ResolveParent(req ParentRequest) string {
	if req.ManualEnabled && len(req.Pool) > 0 {
		name := req.Pool[*req.Rotation%len(req.Pool)]
		*req.Rotation++
		if m.tree.Find(name) == nil {
			m.tree[name] = NewNode(KindSite, m.defaultMbps)
			m.dirty = true
			m.log.Info("Added manual pool parent to hierarchy", zap.String("node", name))
		}
		return name
	}

	if req.PerPlan && req.Plan != "" {
		name := fmt.Sprintf("PLAN-%s-%s", req.Plan, req.Router)
		if m.tree.Find(name) == nil {
			root, ok := m.tree[req.Router]
			if !ok {
				root = NewNode(KindSite, m.defaultMbps)
				m.tree[req.Router] = root
			}
			if root.Children == nil {
				root.Children = make(map[string]*Node)
			}
			root.Children[name] = NewNode(KindPlan, m.defaultMbps)
			m.dirty = true
			m.log.Info("Added plan node to hierarchy",
				zap.String("node", name),
				zap.String("router", req.Router),
			)
		}
		return name
	}

	name := fmt.Sprintf("%s-%s", req.KindPrefix, req.Router)
	if m.tree.Find(name) == nil {
		m.EnsureRouterNode(req.Router, []string{req.KindPrefix})
	}
	return name
}
