package anilist

// MediaType selects between the two halves of the catalog.
type MediaType string

const (
	MediaTypeAnime MediaType = "ANIME"
	MediaTypeManga MediaType = "MANGA"
)

// MediaListStatus is a section of a user's media list.
type MediaListStatus string

const (
	StatusCurrent   MediaListStatus = "CURRENT"
	StatusPlanning  MediaListStatus = "PLANNING"
	StatusCompleted MediaListStatus = "COMPLETED"
	StatusDropped   MediaListStatus = "DROPPED"
	StatusPaused    MediaListStatus = "PAUSED"
	StatusRepeating MediaListStatus = "REPEATING"
)

// MediaListFilter narrows a media list query to one type and status.
type MediaListFilter struct {
	Type   MediaType
	Status MediaListStatus
}

// PageInfo is the paging metadata AniList returns with every page. Pages
// are 1-based on the API side; navigation clamps to [0, LastPage].
type PageInfo struct {
	Total       int  `json:"total"`
	PerPage     int  `json:"perPage"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// Page is one page of results plus its paging metadata.
type Page[T any] struct {
	Items []T
	Info  PageInfo
}

// MediaTitle carries the three title renditions AniList tracks.
type MediaTitle struct {
	English string `json:"english"`
	Romaji  string `json:"romaji"`
	Native  string `json:"native"`
}

// Media is an anime or manga entry.
type Media struct {
	ID           int        `json:"id"`
	Title        MediaTitle `json:"title"`
	Format       string     `json:"format"`
	Description  string     `json:"description"`
	Episodes     int        `json:"episodes"`
	Chapters     int        `json:"chapters"`
	AverageScore int        `json:"averageScore"`
	Genres       []string   `json:"genres"`
	SiteURL      string     `json:"siteUrl"`
	CoverImage   struct {
		Medium string `json:"medium"`
	} `json:"coverImage"`
	IsAdult bool `json:"isAdult"`
}

// MediaListEntry is one row of a user's media list.
type MediaListEntry struct {
	Media    Media `json:"media"`
	Progress int   `json:"progress"`
}

// User is a public AniList profile.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Options struct {
		ProfileColor string `json:"profileColor"`
	} `json:"options"`
	Avatar struct {
		Medium string `json:"medium"`
	} `json:"avatar"`
}

// Viewer is the calling user's own linked profile, fetched with their
// token. A nil *Viewer means the caller has not connected an account.
type Viewer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Options struct {
		TitleLanguage       string `json:"titleLanguage"`
		DisplayAdultContent bool   `json:"displayAdultContent"`
		ProfileColor        string `json:"profileColor"`
	} `json:"options"`
}

// AiringNotification reports a new episode of a followed anime.
type AiringNotification struct {
	Episode   int   `json:"episode"`
	CreatedAt int64 `json:"createdAt"`
	Media     Media `json:"media"`
}

// FormatLabels maps API media formats to display labels.
var FormatLabels = map[string]string{
	"TV":       "TV",
	"TV_SHORT": "TV short",
	"MOVIE":    "Movie",
	"SPECIAL":  "Special",
	"OVA":      "OVA",
	"ONA":      "ONA",
	"MUSIC":    "Music",
	"MANGA":    "Manga",
	"NOVEL":    "Novel",
	"ONE_SHOT": "One-shot",
}
