package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a graph source document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from a file name, defaulting to JSON.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat parses a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported source format: %s (use json or yaml)", s)
	}
}

// Source is the authoring format of a quiz graph.
type Source struct {
	Root  string                `json:"root" yaml:"root"`
	Title string                `json:"title,omitempty" yaml:"title,omitempty"`
	Nodes map[string]SourceNode `json:"nodes" yaml:"nodes" validate:"dive"`
}

type SourceNode struct {
	Question string         `json:"question" yaml:"question"`
	Options  []SourceOption `json:"options" yaml:"options" validate:"dive"`
}

// SourceOption is one answer of a node. The short key "answer" is accepted
// as an alias of "answerText".
type SourceOption struct {
	AnswerText string        `json:"answerText" yaml:"answerText"`
	Weights    Weights       `json:"weights,omitempty" yaml:"weights,omitempty"`
	Next       string        `json:"next,omitempty" yaml:"next,omitempty"`
	Result     *SourceResult `json:"result,omitempty" yaml:"result,omitempty"`
}

// SourceResult is the identity attached to a terminal option. It decodes from
// {personalityName, traitTags}, the short {personality, traits}, or the legacy
// "Name (Trait, Trait)" string.
type SourceResult struct {
	PersonalityName string   `json:"personalityName" yaml:"personalityName" validate:"required"`
	TraitTags       []string `json:"traitTags,omitempty" yaml:"traitTags,omitempty"`
}

var sourceValidate = validator.New()

// ParseSource decodes and shape-checks a graph source. Structural checks
// (references, cycles) happen in LoadGraph.
func ParseSource(data []byte, format Format) (*Source, error) {
	var src Source
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &src); err != nil {
			return nil, &GraphValidationError{Reason: ReasonInvalidSource, OptionIndex: -1, Err: err}
		}
	case FormatJSON, "":
		if err := decodeStrict(data, &src); err != nil {
			return nil, &GraphValidationError{Reason: ReasonInvalidSource, OptionIndex: -1, Err: err}
		}
	default:
		return nil, fmt.Errorf("unsupported source format: %s", format)
	}

	if err := sourceValidate.Struct(&src); err != nil {
		return nil, &GraphValidationError{Reason: ReasonInvalidSource, OptionIndex: -1, Err: err}
	}
	return &src, nil
}

var legacyResultPattern = regexp.MustCompile(`^\s*([^()]*?)\s*(?:\(([^()]*)\))?\s*$`)

// parseLegacyResult splits "Voyager (Bold, Adventurous)" into a name and tags.
func parseLegacyResult(s string) SourceResult {
	m := legacyResultPattern.FindStringSubmatch(s)
	if m == nil {
		return SourceResult{PersonalityName: strings.TrimSpace(s)}
	}
	res := SourceResult{PersonalityName: m[1]}
	for _, tag := range strings.Split(m[2], ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			res.TraitTags = append(res.TraitTags, tag)
		}
	}
	return res
}

// decodeStrict decodes one JSON value and rejects keys the target does not declare.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

type sourceOptionFields struct {
	AnswerText string        `json:"answerText" yaml:"answerText"`
	Answer     string        `json:"answer" yaml:"answer"`
	Weights    Weights       `json:"weights" yaml:"weights"`
	Next       string        `json:"next" yaml:"next"`
	Result     *SourceResult `json:"result" yaml:"result"`
}

func (f sourceOptionFields) option() SourceOption {
	text := f.AnswerText
	if text == "" {
		text = f.Answer
	}
	return SourceOption{AnswerText: text, Weights: f.Weights, Next: f.Next, Result: f.Result}
}

func (o *SourceOption) UnmarshalJSON(data []byte) error {
	var f sourceOptionFields
	if err := decodeStrict(data, &f); err != nil {
		return err
	}
	*o = f.option()
	return nil
}

func (o *SourceOption) UnmarshalYAML(value *yaml.Node) error {
	var f sourceOptionFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	*o = f.option()
	return nil
}

type sourceResultFields struct {
	PersonalityName string   `json:"personalityName" yaml:"personalityName"`
	Personality     string   `json:"personality" yaml:"personality"`
	TraitTags       []string `json:"traitTags" yaml:"traitTags"`
	Traits          []string `json:"traits" yaml:"traits"`
}

func (f sourceResultFields) result() SourceResult {
	res := SourceResult{PersonalityName: f.PersonalityName, TraitTags: f.TraitTags}
	if res.PersonalityName == "" {
		res.PersonalityName = f.Personality
	}
	if res.TraitTags == nil {
		res.TraitTags = f.Traits
	}
	return res
}

func (r *SourceResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*r = parseLegacyResult(s)
		return nil
	}
	var f sourceResultFields
	if err := decodeStrict(trimmed, &f); err != nil {
		return err
	}
	*r = f.result()
	return nil
}

func (r *SourceResult) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = parseLegacyResult(value.Value)
		return nil
	}
	var f sourceResultFields
	if err := value.Decode(&f); err != nil {
		return err
	}
	*r = f.result()
	return nil
}

// Weight is a single trait contribution of an answer.
type Weight struct {
	Trait string
	Value float64
}

// Weights keeps trait contributions in declaration order, which drives the
// dominant trait tie-break.
type Weights []Weight

// set overwrites an existing trait in place or appends a new one.
func (w Weights) set(trait string, value float64) Weights {
	for i := range w {
		if w[i].Trait == trait {
			w[i].Value = value
			return w
		}
	}
	return append(w, Weight{Trait: trait, Value: value})
}

func (w *Weights) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*w = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("weights: expected object, got %v", tok)
	}

	var out Weights
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("weights: expected trait name, got %v", keyTok)
		}
		var v float64
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("weights: trait %q: %w", key, err)
		}
		out = out.set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*w = out
	return nil
}

func (w Weights) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wt := range w {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wt.Trait)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(wt.Value, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (w *Weights) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("weights: expected mapping at line %d", value.Line)
	}
	var out Weights
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var v float64
		if err := value.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("weights: trait %q: %w", key, err)
		}
		out = out.set(key, v)
	}
	*w = out
	return nil
}

func (w Weights) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, wt := range w {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: wt.Trait},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(wt.Value, 'g', -1, 64)},
		)
	}
	return node, nil
}
