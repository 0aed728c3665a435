package anilist

import "strings"

// Placeholder labels for adult entries the caller may not see. Masked
// entries keep their position and number so list indices stay stable.
const (
	AdultPlaceholderTitle = "Hidden entry"
	AdultPlaceholderDesc  = "Adult content. Connect an AniList account with adult content enabled and use an age-restricted channel to view it."
)

// DisplayTitle returns the media title in the viewer's preferred language,
// falling back english, romaji, native in that order.
func DisplayTitle(t MediaTitle, viewer *Viewer) string {
	if viewer != nil {
		switch strings.TrimSuffix(viewer.Options.TitleLanguage, "_STYLISED") {
		case "ENGLISH":
			if t.English != "" {
				return t.English
			}
		case "ROMAJI":
			if t.Romaji != "" {
				return t.Romaji
			}
		case "NATIVE":
			if t.Native != "" {
				return t.Native
			}
		}
	}
	switch {
	case t.English != "":
		return t.English
	case t.Romaji != "":
		return t.Romaji
	default:
		return t.Native
	}
}

// VisibleTo reports whether an entry may be rendered unmasked. Adult
// entries require a linked viewer who opted into adult content, in a
// channel marked for it; an unlinked caller never sees them.
func VisibleTo(isAdult bool, viewer *Viewer, nsfwChannel bool) bool {
	if !isAdult {
		return true
	}
	return viewer != nil && viewer.Options.DisplayAdultContent && nsfwChannel
}

var descReplacer = strings.NewReplacer(
	"<br>", "\n",
	"<br/>", "\n",
	"<br />", "\n",
	"<i>", "*",
	"</i>", "*",
	"<b>", "**",
	"</b>", "**",
)

// CleanDescription strips the HTML subset AniList embeds in media
// descriptions and collapses runs of blank lines.
func CleanDescription(s string) string {
	s = descReplacer.Replace(s)
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
