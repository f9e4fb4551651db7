package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureRouterNode_Idempotent(t *testing.T) {
	m := NewManager(nil, 2000, zap.NewNop())

	m.EnsureRouterNode("edge1", []string{"PPP", "HS"})
	require.True(t, m.Dirty())

	root := m.Tree()["edge1"]
	require.NotNil(t, root)
	assert.Equal(t, KindSite, root.Kind)
	assert.Contains(t, root.Children, "PPP-edge1")
	assert.Contains(t, root.Children, "HS-edge1")

	// Operator tunes a cap; a second ensure must not reset it.
	root.Children["PPP-edge1"].DownloadBandwidthMbps = 500
	m.EnsureRouterNode("edge1", []string{"PPP", "HS"})
	assert.Equal(t, float64(500), root.Children["PPP-edge1"].DownloadBandwidthMbps)
}

func TestResolveParent_DefaultPolicy(t *testing.T) {
	m := NewManager(nil, 2000, zap.NewNop())
	rot := 0

	name := m.ResolveParent(ParentRequest{
		Router:     "edge1",
		KindPrefix: "DHCP",
		Rotation:   &rot,
	})

	assert.Equal(t, "DHCP-edge1", name)
	assert.NotNil(t, m.Tree().Find("DHCP-edge1"))
	assert.Equal(t, 0, rot, "default policy must not advance the rotation counter")
}

func TestResolveParent_PerPlanNode(t *testing.T) {
	m := NewManager(nil, 2000, zap.NewNop())
	m.EnsureRouterNode("edge1", []string{"PPP"})
	rot := 0

	name := m.ResolveParent(ParentRequest{
		Router:     "edge1",
		KindPrefix: "PPP",
		Plan:       "gold",
		PerPlan:    true,
		Rotation:   &rot,
	})

	assert.Equal(t, "PLAN-gold-edge1", name)
	node := m.Tree().Find("PLAN-gold-edge1")
	require.NotNil(t, node)
	assert.Equal(t, KindPlan, node.Kind)
	// Plan nodes hang under the router root.
	assert.Contains(t, m.Tree()["edge1"].Children, "PLAN-gold-edge1")
}

func TestResolveParent_ManualPoolRoundRobin(t *testing.T) {
	m := NewManager(nil, 2000, zap.NewNop())
	rot := 0
	pool := []string{"PPPOE-A", "PPPOE-B"}

	var got []string
	for i := 0; i < 3; i++ {
		got = append(got, m.ResolveParent(ParentRequest{
			Router:        "edge1",
			KindPrefix:    "PPP",
			ManualEnabled: true,
			Pool:          pool,
			Rotation:      &rot,
		}))
	}

	assert.Equal(t, []string{"PPPOE-A", "PPPOE-B", "PPPOE-A"}, got)
	assert.NotNil(t, m.Tree().Find("PPPOE-A"))
	assert.NotNil(t, m.Tree().Find("PPPOE-B"))
}

func TestResolveParent_EmptyPoolFallsBack(t *testing.T) {
	m := NewManager(nil, 2000, zap.NewNop())
	rot := 0

	name := m.ResolveParent(ParentRequest{
		Router:        "edge1",
		KindPrefix:    "PPP",
		ManualEnabled: true,
		Rotation:      &rot,
	})

	assert.Equal(t, "PPP-edge1", name)
}

func TestEnsureStaticParent(t *testing.T) {
	m := NewManager(Tree{"Static": NewNode(KindStatic, 2000)}, 2000, zap.NewNop())
	m.EnsureStaticParent("Static")
	assert.False(t, m.Dirty(), "existing node must not mark the tree dirty")

	m.EnsureStaticParent("Backhaul-West")
	assert.True(t, m.Dirty())
	node := m.Tree().Find("Backhaul-West")
	require.NotNil(t, node)
	assert.Equal(t, KindStatic, node.Kind)
}

func TestTreeFind_Nested(t *testing.T) {
	tree := Tree{
		"edge1": {
			Kind: KindSite,
			Children: map[string]*Node{
				"PPP-edge1": {
					Kind: KindSite,
					Children: map[string]*Node{
						"PLAN-gold-edge1": {Kind: KindPlan},
					},
				},
			},
		},
	}

	assert.NotNil(t, tree.Find("PLAN-gold-edge1"))
	assert.Nil(t, tree.Find("PLAN-silver-edge1"))
}
