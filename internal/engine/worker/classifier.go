package worker

import (
	"net/url"
	"strings"

	"go.trai.ch/lantern/internal/core/domain"
)

// Classifier maps request URLs to cache tiers.
type Classifier struct {
	ContentPrefix    string
	ModelPrefix      string
	PassthroughHosts []string
}

// NewClassifier creates a Classifier from cfg.
func NewClassifier(cfg *domain.Config) Classifier {
	return Classifier{
		ContentPrefix:    cfg.Content.Prefix,
		ModelPrefix:      cfg.Model.Prefix,
		PassthroughHosts: cfg.PassthroughHosts,
	}
}

// Classify returns the tier for target. Rules are evaluated in order and the first match wins.
func (c Classifier) Classify(target, origin *url.URL) domain.Tier {
	if !sameOrigin(target, origin) {
		return domain.TierPassthrough
	}

	raw := target.String()
	for _, host := range c.PassthroughHosts {
		if host != "" && strings.Contains(raw, host) {
			return domain.TierPassthrough
		}
	}

	switch {
	case c.ContentPrefix != "" && strings.Contains(target.Path, c.ContentPrefix):
		return domain.TierContent
	case c.ModelPrefix != "" && strings.Contains(target.Path, c.ModelPrefix):
		return domain.TierModel
	default:
		return domain.TierShell
	}
}

func sameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
