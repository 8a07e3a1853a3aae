package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Script describes how the simulated scanner behaves.
type Script struct {
	// Commands are answer rules, matched against the command text.
	// The longest matching prefix wins; unmatched commands are ACKed.
	Commands []Rule `yaml:"commands"`

	// Scans are sent in order once a host is connected.
	Scans []ScanStep `yaml:"scans"`

	// Repeat restarts the scan list after the last step.
	Repeat bool `yaml:"repeat"`
}

// Rule is the scanner's answer to commands starting with Match.
type Rule struct {
	Match string `yaml:"match"`

	// Reply is sent as a data frame before the ACK.
	Reply string `yaml:"reply"`

	// Nak rejects the command.
	Nak bool `yaml:"nak"`

	// Silent leaves the command unanswered.
	Silent bool `yaml:"silent"`

	// Delay postpones the answer.
	Delay time.Duration `yaml:"delay"`
}

// ScanStep is one scan sent to the host.
type ScanStep struct {
	Data   string `yaml:"data"`
	CodeID uint8  `yaml:"code_id"`

	// Quantity defaults to 1; -1 removes a previously scanned item.
	Quantity int16 `yaml:"quantity"`

	// After is the pause before the scan is sent.
	After time.Duration `yaml:"after"`

	// Timestamp sends the scan time in the frame header.
	Timestamp bool `yaml:"timestamp"`
}

// ParseScript parses a scan script from YAML bytes.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script: %w", err)
	}
	for i, r := range s.Commands {
		if r.Match == "" {
			return nil, fmt.Errorf("command rule %d: match is required", i)
		}
		if r.Nak && r.Silent {
			return nil, fmt.Errorf("command rule %q: nak and silent are exclusive", r.Match)
		}
	}
	for i, step := range s.Scans {
		if step.Data == "" {
			return nil, fmt.Errorf("scan %d: data is required", i)
		}
	}
	return &s, nil
}

// LoadScript loads and parses a scan script from a file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseScript(data)
}

// Rule returns the rule for a command, or the default ACK rule.
func (s *Script) Rule(text string) Rule {
	best := Rule{}
	for _, r := range s.Commands {
		if strings.HasPrefix(text, r.Match) && len(r.Match) > len(best.Match) {
			best = r
		}
	}
	return best
}
