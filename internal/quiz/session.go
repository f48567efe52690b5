package quiz

import (
	"slices"

	"github.com/google/uuid"
)

// Terminal is what CurrentNodeID reports once a session is finished. The
// finished state is tracked apart from node ids, so a node may use this id.
const Terminal = "__TERMINAL__"

// Step records one answered question.
type Step struct {
	NodeID      string `json:"node_id"`
	OptionIndex int    `json:"option_index"`
	Question    string `json:"question"`
	AnswerText  string `json:"answer_text"`
}

// Session is one walk through a graph. It is mutated only by Submit and is not
// safe for concurrent use; hosts serialize access per session.
type Session struct {
	id      string
	graph   *Graph
	current string
	done    bool
	path    []Step
	raw     Scores
	profile *Profile
}

func NewSession(g *Graph) *Session {
	return NewSessionWithID(g, uuid.NewString())
}

func NewSessionWithID(g *Graph, id string) *Session {
	return &Session{
		id:      id,
		graph:   g,
		current: g.rootID,
		raw:     Scores{},
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Graph() *Graph { return s.graph }

// CurrentNodeID is the node awaiting an answer, or Terminal.
func (s *Session) CurrentNodeID() string {
	if s.done {
		return Terminal
	}
	return s.current
}

func (s *Session) Done() bool { return s.done }

func (s *Session) Path() []Step { return slices.Clone(s.path) }

func (s *Session) RawScores() Scores { return s.raw.clone() }

// CurrentNode returns the question awaiting an answer; false once terminal.
func (s *Session) CurrentNode() (*NodeView, bool) {
	if s.Done() {
		return nil, false
	}
	return s.graph.view(s.current), true
}

// Profile returns the profile produced at the terminal transition, or nil
// while the quiz is still in progress.
func (s *Session) Profile() *Profile {
	return s.profile.Clone()
}

// TransitionKind distinguishes a continuing walk from a completed one.
type TransitionKind string

const (
	KindContinue TransitionKind = "continue"
	KindDone     TransitionKind = "done"
)

// Transition is the outcome of a successful Submit.
type Transition struct {
	Kind     TransitionKind
	Node     *NodeView
	Terminal *TerminalResult
	Profile  *Profile
}

// Submit answers the current question with the option at optionIndex. Failed
// calls leave the session untouched.
func (s *Session) Submit(optionIndex int) (*Transition, error) {
	if s.Done() {
		return nil, ErrSessionAlreadyTerminal
	}
	node := s.graph.nodes[s.current]
	if optionIndex < 0 || optionIndex >= len(node.Options) {
		return nil, &InvalidOptionIndexError{NodeID: node.ID, Index: optionIndex, Count: len(node.Options)}
	}

	opt := node.Options[optionIndex]
	s.path = append(s.path, Step{
		NodeID:      node.ID,
		OptionIndex: optionIndex,
		Question:    node.Question,
		AnswerText:  opt.AnswerText,
	})
	Merge(s.raw, opt.Weights)

	if !opt.IsTerminal() {
		s.current = opt.Next
		return &Transition{Kind: KindContinue, Node: s.graph.view(opt.Next)}, nil
	}

	s.done = true
	terminal := opt.Result.clone()
	normalized := Normalize(s.raw)
	s.profile = Resolve(s, terminal, normalized, Classify(normalized))
	return &Transition{Kind: KindDone, Terminal: terminal, Profile: s.profile.Clone()}, nil
}
