package actions

import (
	"fmt"
	"time"

	"github.com/trebuchet-org/govctl/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultVotingPeriod is used when a proposal file sets no duration.
const DefaultVotingPeriod = 7 * 24 * time.Hour

// ProposalFile is a proposal as written by hand in YAML (or JSON).
type ProposalFile struct {
	Metadata domain.ProposalMetadata
	Duration time.Duration
	Actions  []domain.Action
}

type rawProposalFile struct {
	domain.ProposalMetadata `yaml:",inline"`
	Duration                string      `yaml:"duration"`
	Actions                 []yaml.Node `yaml:"actions"`
}

// ParseProposalFile decodes a proposal file. Each action is a mapping with a
// "name" key selecting the kind; the remaining keys fill that kind's form.
func ParseProposalFile(data []byte, registry *Registry) (*ProposalFile, error) {
	var raw rawProposalFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, domain.ValidationError("parse proposal file", err)
	}
	if raw.Title == "" {
		return nil, domain.ValidationError("parse proposal file", fmt.Errorf("title is required"))
	}

	pf := &ProposalFile{Metadata: raw.ProposalMetadata, Duration: DefaultVotingPeriod}
	if raw.Duration != "" {
		d, err := time.ParseDuration(raw.Duration)
		if err != nil || d <= 0 {
			return nil, domain.ValidationError("parse proposal file", fmt.Errorf("invalid duration %q", raw.Duration))
		}
		pf.Duration = d
	}

	for i := range raw.Actions {
		action, err := decodeAction(&raw.Actions[i], registry)
		if err != nil {
			return nil, domain.ValidationError("parse proposal file", fmt.Errorf("action %d: %w", i, err))
		}
		pf.Actions = append(pf.Actions, action)
	}
	return pf, nil
}

// ParseActionList decodes {"actions": [...]} in the same per-action format
// as a proposal file. JSON input is accepted since it is valid YAML.
func ParseActionList(data []byte, registry *Registry) ([]domain.Action, error) {
	var raw struct {
		Actions []yaml.Node `yaml:"actions"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, domain.ValidationError("parse actions", err)
	}
	list := make([]domain.Action, 0, len(raw.Actions))
	for i := range raw.Actions {
		action, err := decodeAction(&raw.Actions[i], registry)
		if err != nil {
			return nil, domain.ValidationError("parse actions", fmt.Errorf("action %d: %w", i, err))
		}
		list = append(list, action)
	}
	return list, nil
}

func decodeAction(node *yaml.Node, registry *Registry) (domain.Action, error) {
	var head struct {
		Name domain.ActionName `yaml:"name"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	if head.Name == "" {
		return nil, fmt.Errorf("missing action name")
	}
	action, err := registry.Empty(head.Name)
	if err != nil {
		return nil, err
	}
	if err := node.Decode(action); err != nil {
		return nil, fmt.Errorf("invalid %s form: %w", head.Name, err)
	}
	return action, nil
}

// Template renders the empty form of name as a YAML action entry.
func Template(registry *Registry, name domain.ActionName) (string, error) {
	action, err := registry.Empty(name)
	if err != nil {
		return "", err
	}
	var node yaml.Node
	if err := node.Encode(action); err != nil {
		return "", err
	}
	node.Content = append([]*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "name"},
		{Kind: yaml.ScalarNode, Value: string(name)},
	}, node.Content...)

	out, err := yaml.Marshal([]*yaml.Node{&node})
	if err != nil {
		return "", err
	}
	return string(out), nil
}
