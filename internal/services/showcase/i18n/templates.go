package i18n

import (
	"github.com/ctavolazzi/AI-DnD-sub002/internal/platform/i18n/catalog"
	"github.com/ctavolazzi/AI-DnD-sub002/internal/services/showcase/domain"
	"golang.org/x/text/language"
)

// Pack returns the narration template pack for a locale tag. Lookups fall
// back to the base locale entry by entry, so a partially translated
// catalog still yields a complete pack.
func Pack(tag language.Tag) domain.Templates {
	return PackForLocale(Locale(tag))
}

// PackForLocale is Pack keyed by a catalog locale identifier.
func PackForLocale(locale string) domain.Templates {
	bundle := catalog.Default()
	msg := func(key string) string {
		value, _ := bundle.Message(locale, key)
		return value
	}
	list := func(key string) []string {
		values, _ := bundle.List(locale, key)
		return values
	}

	return domain.Templates{
		Scenes:      list("narrative.scenes"),
		Locations:   list("narrative.locations"),
		Quests:      list("narrative.quests"),
		Intros:      list("narrative.intros"),
		Encounters:  list("narrative.encounters"),
		Combat:      list("narrative.combat"),
		Dialogue:    list("narrative.dialogue"),
		Actions:     list("narrative.actions"),
		Contexts:    list("narrative.contexts"),
		Conclusions: list("narrative.conclusions"),

		ActionHit:    msg("narrative.action_hit"),
		ActionCrit:   msg("narrative.action_crit"),
		ActionGraze:  msg("narrative.action_graze"),
		Fall:         msg("narrative.fall"),
		VictoryLine:  msg("narrative.victory"),
		DefeatLine:   msg("narrative.defeat"),
		StandoffLine: msg("narrative.standoff"),
	}
}
