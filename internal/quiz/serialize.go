package quiz

import (
	"encoding/json"
	"fmt"
	"maps"
)

const stateVersion = 2

// Version 1 blobs marked completion by storing Terminal as the current node.
const legacyStateVersion = 1

// sessionState is the persisted form of a Session. The profile is not stored:
// it is derived again when the path is replayed.
type sessionState struct {
	Version       int    `json:"version"`
	SessionID     string `json:"session_id"`
	RootID        string `json:"root_id"`
	CurrentNodeID string `json:"current_node_id"`
	Done          bool   `json:"done"`
	Path          []Step `json:"path"`
	RawScores     Scores `json:"raw_scores"`
}

// Serialize encodes a session so it can be resumed later with Deserialize.
func Serialize(s *Session) ([]byte, error) {
	path := s.path
	if path == nil {
		path = []Step{}
	}
	return json.Marshal(sessionState{
		Version:       stateVersion,
		SessionID:     s.id,
		RootID:        s.graph.rootID,
		CurrentNodeID: s.current,
		Done:          s.done,
		Path:          path,
		RawScores:     s.raw,
	})
}

// MarshalJSON encodes the session the same way Serialize does.
func (s *Session) MarshalJSON() ([]byte, error) {
	return Serialize(s)
}

// Deserialize rebuilds a session against g by replaying its recorded answers.
// Replaying rather than trusting stored scores means a resumed session is
// indistinguishable from one that was never interrupted. A blob recorded
// against a different graph fails with ErrSessionStateMismatch.
func Deserialize(blob []byte, g *Graph) (*Session, error) {
	var st sessionState
	if err := json.Unmarshal(blob, &st); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	if st.Version == legacyStateVersion {
		st.Done = st.CurrentNodeID == Terminal
		if st.Done && len(st.Path) > 0 {
			st.CurrentNodeID = st.Path[len(st.Path)-1].NodeID
		}
	} else if st.Version != stateVersion {
		return nil, fmt.Errorf("%w: unsupported state version %d", ErrSessionStateMismatch, st.Version)
	}
	if st.SessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", ErrSessionStateMismatch)
	}
	if st.RootID != g.rootID {
		return nil, fmt.Errorf("%w: root %q, graph root %q", ErrSessionStateMismatch, st.RootID, g.rootID)
	}

	s := NewSessionWithID(g, st.SessionID)
	for i, step := range st.Path {
		if s.done || step.NodeID != s.current {
			return nil, fmt.Errorf("%w: step %d at node %q, expected %q", ErrSessionStateMismatch, i, step.NodeID, s.current)
		}
		node := g.nodes[s.current]
		if step.OptionIndex < 0 || step.OptionIndex >= len(node.Options) ||
			node.Options[step.OptionIndex].AnswerText != step.AnswerText {
			return nil, fmt.Errorf("%w: step %d answer %d no longer matches node %q", ErrSessionStateMismatch, i, step.OptionIndex, node.ID)
		}
		if _, err := s.Submit(step.OptionIndex); err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrSessionStateMismatch, i, err)
		}
	}

	if s.current != st.CurrentNodeID || s.done != st.Done {
		return nil, fmt.Errorf("%w: replay ended at %q (done %t), stored %q (done %t)",
			ErrSessionStateMismatch, s.current, s.done, st.CurrentNodeID, st.Done)
	}
	if !maps.Equal(s.raw, st.RawScores) && !(len(s.raw) == 0 && len(st.RawScores) == 0) {
		return nil, fmt.Errorf("%w: replayed scores differ from stored scores", ErrSessionStateMismatch)
	}
	return s, nil
}
