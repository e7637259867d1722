package distortion

import (
	"strings"

	"github.com/rcliao/anger-log/internal/model"
)

// Classifier evaluates a catalog against journal text. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	catalog *Catalog
}

// NewClassifier returns a classifier over c. A nil catalog means the default.
func NewClassifier(c *Catalog) *Classifier {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Classifier{catalog: c}
}

// Catalog returns the catalog the classifier evaluates.
func (c *Classifier) Catalog() *Catalog {
	return c.catalog
}

// Classify returns one finding per matching category, in catalog order.
// The result is never nil.
func (c *Classifier) Classify(thoughts, situation, evidence string) []model.Finding {
	text := strings.ToLower(thoughts + " " + situation + " " + evidence)

	findings := []model.Finding{}
	for _, e := range c.catalog.entries {
		if matchAny(e.Rules, text) {
			findings = append(findings, e.Finding())
		}
	}
	return findings
}

func matchAny(rules []Rule, text string) bool {
	for _, r := range rules {
		if r.Match(text) {
			return true
		}
	}
	return false
}

var defaultClassifier = NewClassifier(nil)

// Classify runs the default classifier.
func Classify(thoughts, situation, evidence string) []model.Finding {
	return defaultClassifier.Classify(thoughts, situation, evidence)
}
