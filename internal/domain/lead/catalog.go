package lead

import (
	"fmt"

	"imobcrm/internal/config"
)

// Option is an enum token with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Catalog holds the closed enum sets with the labels loaded at start.
// It is built once and never mutated.
type Catalog struct {
	Statuses      []Option `json:"statuses"`
	Sources       []Option `json:"sources"`
	InterestTypes []Option `json:"interestTypes"`

	statusLabels map[Status]string
}

// NewCatalog labels the declared enums from p. Tokens in p that are not
// declared are rejected; declared tokens without a label use the token.
func NewCatalog(p *config.Pipeline) (*Catalog, error) {
	if p == nil {
		var err error
		if p, err = config.DefaultPipeline(); err != nil {
			return nil, err
		}
	}

	for k := range p.Statuses {
		if !Status(k).Valid() {
			return nil, fmt.Errorf("catalog: unknown status %q", k)
		}
	}
	for k := range p.Sources {
		if !Source(k).Valid() {
			return nil, fmt.Errorf("catalog: unknown source %q", k)
		}
	}
	for k := range p.InterestTypes {
		if !InterestType(k).Valid() {
			return nil, fmt.Errorf("catalog: unknown interest type %q", k)
		}
	}

	c := &Catalog{statusLabels: make(map[Status]string, len(Statuses))}
	for _, s := range Statuses {
		opt := option(string(s), p.Statuses)
		c.Statuses = append(c.Statuses, opt)
		c.statusLabels[s] = opt.Label
	}
	for _, s := range Sources {
		c.Sources = append(c.Sources, option(string(s), p.Sources))
	}
	for _, t := range InterestTypes {
		c.InterestTypes = append(c.InterestTypes, option(string(t), p.InterestTypes))
	}
	return c, nil
}

// StatusLabel returns the display label of s.
func (c *Catalog) StatusLabel(s Status) string {
	if l, ok := c.statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func option(token string, labels map[string]string) Option {
	label := labels[token]
	if label == "" {
		label = token
	}
	return Option{Value: token, Label: label}
}
