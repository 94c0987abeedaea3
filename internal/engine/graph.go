package engine

import (
	"fmt"
	"sort"
	"strings"
)

// DependencyGraph 工资项依赖图，边 from -> to 表示 from 的公式引用了 to
type DependencyGraph struct {
	nodes []string
	edges map[string][]string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{edges: make(map[string][]string)}
}

func (g *DependencyGraph) AddNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.nodes = append(g.nodes, name)
	g.edges[name] = nil
}

func (g *DependencyGraph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

// TopologicalOrder 返回被依赖项在前的顺序（Kahn 算法）
// 存在环时返回 ErrCyclicReference，并列出环上的工资项
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	pending := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, n := range g.nodes {
		pending[n] += 0
		for _, dep := range g.edges[n] {
			pending[n]++
			dependents[dep] = append(dependents[dep], n)
		}
	}

	var queue, order []string
	for _, n := range g.nodes {
		if pending[n] == 0 {
			queue = append(queue, n)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, m := range dependents[n] {
			pending[m]--
			if pending[m] == 0 {
				queue = append(queue, m)
			}
		}
	}

	if len(order) < len(g.nodes) {
		var stuck []string
		for _, n := range g.nodes {
			if pending[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: %s", ErrCyclicReference, strings.Join(stuck, ", "))
	}
	return order, nil
}
