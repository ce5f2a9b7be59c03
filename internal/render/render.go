// Package render turns advisory decisions into localized text. Spanish is the
// default language; English is also supported.
package render

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/i474232898/harvest-advisor/internal/advisory"
	"github.com/i474232898/harvest-advisor/internal/cannabis"
)

var supported = []language.Tag{language.Spanish, language.English}

// Renderer formats triggers, adjustments and guidance in a negotiated language.
type Renderer struct {
	catalog  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
}

// New builds a Renderer whose default language is defaultLang ("es" or "en").
func New(defaultLang string) (*Renderer, error) {
	fallback := language.Spanish
	if defaultLang != "" {
		tag, err := language.Parse(defaultLang)
		if err != nil {
			return nil, fmt.Errorf("render: default language: %w", err)
		}
		base, _ := tag.Base()
		switch base.String() {
		case "es":
		case "en":
			fallback = language.English
		default:
			return nil, fmt.Errorf("render: unsupported language %q", defaultLang)
		}
	}

	b := catalog.NewBuilder(catalog.Fallback(fallback))
	set := func(key string, t text) error {
		if err := b.SetString(language.Spanish, key, t.es); err != nil {
			return fmt.Errorf("render: %s (es): %w", key, err)
		}
		if err := b.SetString(language.English, key, t.en); err != nil {
			return fmt.Errorf("render: %s (en): %w", key, err)
		}
		return nil
	}
	for key, m := range triggerMessages {
		if err := set(key, m.text); err != nil {
			return nil, err
		}
	}
	for key, t := range plainMessages {
		if err := set(key, t); err != nil {
			return nil, err
		}
	}

	return &Renderer{
		catalog:  b,
		matcher:  language.NewMatcher(supported),
		fallback: fallback,
	}, nil
}

// Default returns the language used when negotiation finds no match.
func (r *Renderer) Default() language.Tag { return r.fallback }

// Match picks the first supported language from the given preferences, each an
// Accept-Language header or a bare tag. Empty or unmatched input gives Default.
func (r *Renderer) Match(prefs ...string) language.Tag {
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil || len(tags) == 0 {
			continue
		}
		if _, idx, conf := r.matcher.Match(tags...); conf != language.No {
			return supported[idx]
		}
	}
	return r.fallback
}

func (r *Renderer) printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(r.catalog))
}

// Triggers renders each trigger as one sentence, preserving order.
func (r *Renderer) Triggers(tag language.Tag, triggers []advisory.Trigger) []string {
	p := r.printer(tag)
	plant := p.Sprintf(keyYourPlant)

	out := make([]string, 0, len(triggers))
	for _, t := range triggers {
		key := triggerKey(t)
		m, ok := triggerMessages[key]
		if !ok {
			out = append(out, string(t.Kind))
			continue
		}
		name := t.Variety
		if name == "" {
			name = plant
		}
		var args []any
		if m.args != nil {
			args = m.args(t, name)
		}
		out = append(out, p.Sprintf(key, args...))
	}
	return out
}

func triggerKey(t advisory.Trigger) string {
	key := string(t.Kind)
	if t.Kind == advisory.TriggerLateTrichomes && t.Favorable {
		key += ".favorable"
	}
	if t.Stage == cannabis.Late {
		if _, ok := triggerMessages[key+lateSuffix]; ok {
			return key + lateSuffix
		}
	}
	return key
}

// Adjustment renders a harvest adjustment.
func (r *Renderer) Adjustment(tag language.Tag, a advisory.Adjustment) string {
	p := r.printer(tag)
	days, ok := a.Days()
	switch {
	case !ok:
		return p.Sprintf(keyHarvestNow)
	case days < 0:
		return p.Sprintf(keyAdvance, -days)
	case days > 0:
		return p.Sprintf(keyDelay, days)
	default:
		return p.Sprintf(keyNoChange)
	}
}

// Impact renders an impact level name.
func (r *Renderer) Impact(tag language.Tag, l advisory.ImpactLevel) string {
	return r.printer(tag).Sprintf(keyImpactLevel + l.String())
}

// Preference renders trichome guidance for a harvest preference.
func (r *Renderer) Preference(tag language.Tag, pref cannabis.HarvestPreference) string {
	if pref == "" {
		pref = cannabis.Balanced
	}
	return r.printer(tag).Sprintf(keyPreference + string(pref))
}
