// Package quiz implements the personality classification engine: a validated
// branching question graph, sessions that walk it one answer at a time, and the
// normalization and classification that turn accumulated trait scores into a
// profile.
package quiz

import (
	"math"
	"slices"
	"sort"
)

// TerminalResult is the identity declared on a terminal option.
type TerminalResult struct {
	PersonalityName string   `json:"personality_name"`
	TraitTags       []string `json:"trait_tags"`
}

func (t *TerminalResult) clone() *TerminalResult {
	if t == nil {
		return nil
	}
	return &TerminalResult{PersonalityName: t.PersonalityName, TraitTags: slices.Clone(t.TraitTags)}
}

// Option is one answer of a node. Exactly one of Next and Result is set.
type Option struct {
	AnswerText string
	Weights    Weights
	Next       string
	Result     *TerminalResult
}

func (o Option) IsTerminal() bool { return o.Result != nil }

type Node struct {
	ID       string
	Question string
	Options  []Option
}

// NodeView is the caller-facing rendering of a node: the question and its
// answer texts in option index order.
type NodeView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Graph is a validated, acyclic question graph. It is immutable after
// LoadGraph and safe to share between sessions and goroutines.
type Graph struct {
	rootID     string
	title      string
	nodes      map[string]*Node
	traitOrder []string
}

func (g *Graph) RootID() string { return g.rootID }

func (g *Graph) Title() string { return g.title }

// Node returns a copy of the node with the given id. The options slice is
// shared with the graph and must not be modified.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// NodeIDs returns all node ids in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TraitOrder returns trait names in first-appearance order of the graph's
// weight declarations.
func (g *Graph) TraitOrder() []string { return slices.Clone(g.traitOrder) }

func (g *Graph) view(id string) *NodeView {
	n := g.nodes[id]
	answers := make([]string, len(n.Options))
	for i, o := range n.Options {
		answers[i] = o.AnswerText
	}
	return &NodeView{ID: n.ID, Question: n.Question, Options: answers}
}

// LongestPath is the maximum number of answers any walk from the root can take
// before reaching a terminal option.
func (g *Graph) LongestPath() int {
	memo := make(map[string]int, len(g.nodes))
	var longest func(id string) int
	longest = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		best := 0
		for _, o := range g.nodes[id].Options {
			steps := 1
			if !o.IsTerminal() {
				steps += longest(o.Next)
			}
			best = max(best, steps)
		}
		memo[id] = best
		return best
	}
	return longest(g.rootID)
}

// LoadGraph validates a source and builds an immutable Graph. Every failure is
// a *GraphValidationError.
func LoadGraph(src *Source) (*Graph, error) {
	if src == nil || src.Root == "" {
		return nil, validationErr(ReasonMissingRoot, "", -1)
	}
	if _, ok := src.Nodes[src.Root]; !ok {
		return nil, validationErr(ReasonMissingRoot, src.Root, -1)
	}

	g := &Graph{
		rootID: src.Root,
		title:  src.Title,
		nodes:  make(map[string]*Node, len(src.Nodes)),
	}

	ids := make([]string, 0, len(src.Nodes))
	for id := range src.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		sn := src.Nodes[id]
		if len(sn.Options) == 0 {
			return nil, validationErr(ReasonEmptyOptions, id, -1)
		}
		node := &Node{ID: id, Question: sn.Question, Options: make([]Option, len(sn.Options))}
		for i, so := range sn.Options {
			hasNext, hasResult := so.Next != "", so.Result != nil
			if hasNext == hasResult {
				return nil, validationErr(ReasonAmbiguousOutcome, id, i)
			}
			if hasNext {
				if _, ok := src.Nodes[so.Next]; !ok {
					err := validationErr(ReasonDanglingReference, id, i)
					err.Ref = so.Next
					return nil, err
				}
			}

			var weights Weights
			for _, w := range so.Weights {
				if math.IsNaN(w.Value) || math.IsInf(w.Value, 0) {
					err := validationErr(ReasonInvalidWeight, id, i)
					err.Ref = w.Trait
					return nil, err
				}
				weights = weights.set(w.Trait, w.Value)
			}

			opt := Option{AnswerText: so.AnswerText, Weights: weights, Next: so.Next}
			if hasResult {
				opt.Result = &TerminalResult{
					PersonalityName: so.Result.PersonalityName,
					TraitTags:       slices.Clone(so.Result.TraitTags),
				}
			}
			node.Options[i] = opt
		}
		g.nodes[id] = node
	}

	if err := g.checkAcyclic(ids); err != nil {
		return nil, err
	}
	g.traitOrder = g.collectTraitOrder(ids)
	return g, nil
}

const (
	unvisited = iota
	onStack
	done
)

// checkAcyclic runs a depth-first search from the root and then from every
// remaining node in id order. Revisiting a node on the current stack is a
// cycle.
func (g *Graph) checkAcyclic(ids []string) error {
	state := make(map[string]int, len(g.nodes))
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		state[id] = onStack
		stack = append(stack, id)
		for i, o := range g.nodes[id].Options {
			if o.IsTerminal() {
				continue
			}
			switch state[o.Next] {
			case onStack:
				start := slices.Index(stack, o.Next)
				cycle := append(slices.Clone(stack[start:]), o.Next)
				err := validationErr(ReasonCycle, id, i)
				err.Ref = o.Next
				err.Cycle = cycle
				return err
			case unvisited:
				if err := visit(o.Next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	if err := visit(g.rootID); err != nil {
		return err
	}
	for _, id := range ids {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// collectTraitOrder walks the graph in pre-order from the root: at each node
// the weights of all its options are recorded before descending into children
// in option order. Unreachable nodes follow in id order.
func (g *Graph) collectTraitOrder(ids []string) []string {
	seenTrait := make(map[string]bool)
	seenNode := make(map[string]bool, len(g.nodes))
	var order []string

	var walk func(id string)
	walk = func(id string) {
		seenNode[id] = true
		node := g.nodes[id]
		for _, o := range node.Options {
			for _, w := range o.Weights {
				if !seenTrait[w.Trait] {
					seenTrait[w.Trait] = true
					order = append(order, w.Trait)
				}
			}
		}
		for _, o := range node.Options {
			if !o.IsTerminal() && !seenNode[o.Next] {
				walk(o.Next)
			}
		}
	}

	walk(g.rootID)
	for _, id := range ids {
		if !seenNode[id] {
			walk(id)
		}
	}
	return order
}
