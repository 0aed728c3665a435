package anilist

import "context"

const (
	mediaListPerPage     = 6
	searchPerPage        = 10
	notificationsPerPage = 10
)

const userQuery = `query ($username: String) {
	User(name: $username) {
		id
		name
		options {
			profileColor
		}
		avatar {
			medium
		}
	}
}`

const viewerQuery = `query {
	Viewer {
		id
		name
		options {
			titleLanguage
			displayAdultContent
			profileColor
		}
	}
}`

const mediaListQuery = `query (
	$userId: Int,
	$type: MediaType,
	$status: MediaListStatus,
	$page: Int,
	$perPage: Int
) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			perPage
			currentPage
			lastPage
			hasNextPage
		}
		mediaList(
			userId: $userId,
			type: $type,
			status: $status,
			sort: [UPDATED_TIME_DESC]
		) {
			media {
				id
				title {
					english
					romaji
					native
				}
				episodes
				chapters
				isAdult
			}
			progress
		}
	}
}`

const mediaSearchQuery = `query (
	$search: String,
	$type: MediaType,
	$page: Int,
	$perPage: Int
) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			perPage
			currentPage
			lastPage
			hasNextPage
		}
		media(search: $search, type: $type) {
			id
			title {
				english
				romaji
				native
			}
			format
			description
			episodes
			chapters
			averageScore
			genres
			siteUrl
			coverImage {
				medium
			}
			isAdult
		}
	}
}`

const notificationsQuery = `query ($page: Int, $perPage: Int) {
	Page(page: $page, perPage: $perPage) {
		pageInfo {
			total
			perPage
			currentPage
			lastPage
			hasNextPage
		}
		notifications(type: AIRING) {
			... on AiringNotification {
				episode
				createdAt
				media {
					id
					title {
						english
						romaji
						native
					}
					isAdult
				}
			}
		}
	}
}`

// SearchUser finds a public profile by username. Returns ErrNotFound when
// no such profile exists.
func (c *Client) SearchUser(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrNotFound
	}
	var out struct {
		User *User `json:"User"`
	}
	err := c.query(ctx, userQuery, map[string]any{"username": username}, "", &out)
	if err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, ErrNotFound
	}
	return out.User, nil
}

// ViewerFromToken fetches the profile the token belongs to.
func (c *Client) ViewerFromToken(ctx context.Context, token string) (*Viewer, error) {
	var out struct {
		Viewer *Viewer `json:"Viewer"`
	}
	err := c.query(ctx, viewerQuery, nil, token, &out)
	if err != nil {
		return nil, err
	}
	if out.Viewer == nil {
		return nil, ErrNotFound
	}
	return out.Viewer, nil
}

// MediaList fetches one page of a user's anime or manga list, most recently
// updated entries first.
func (c *Client) MediaList(ctx context.Context, userID int, filter MediaListFilter, page int) (*Page[MediaListEntry], error) {
	var out struct {
		Page struct {
			PageInfo  PageInfo         `json:"pageInfo"`
			MediaList []MediaListEntry `json:"mediaList"`
		} `json:"Page"`
	}
	err := c.query(ctx, mediaListQuery, map[string]any{
		"userId":  userID,
		"type":    filter.Type,
		"status":  filter.Status,
		"page":    page,
		"perPage": mediaListPerPage,
	}, "", &out)
	if err != nil {
		return nil, err
	}
	return &Page[MediaListEntry]{Items: out.Page.MediaList, Info: out.Page.PageInfo}, nil
}

// SearchMedia fetches one page of catalog search results. An empty
// mediaType searches anime and manga alike.
func (c *Client) SearchMedia(ctx context.Context, search string, mediaType MediaType, page int) (*Page[Media], error) {
	variables := map[string]any{
		"search":  search,
		"page":    page,
		"perPage": searchPerPage,
	}
	if mediaType != "" {
		variables["type"] = mediaType
	}
	var out struct {
		Page struct {
			PageInfo PageInfo `json:"pageInfo"`
			Media    []Media  `json:"media"`
		} `json:"Page"`
	}
	if err := c.query(ctx, mediaSearchQuery, variables, "", &out); err != nil {
		return nil, err
	}
	return &Page[Media]{Items: out.Page.Media, Info: out.Page.PageInfo}, nil
}

// Notifications fetches one page of airing notifications for the viewer the
// token belongs to.
func (c *Client) Notifications(ctx context.Context, token string, page int) (*Page[AiringNotification], error) {
	var out struct {
		Page struct {
			PageInfo      PageInfo             `json:"pageInfo"`
			Notifications []AiringNotification `json:"notifications"`
		} `json:"Page"`
	}
	err := c.query(ctx, notificationsQuery, map[string]any{
		"page":    page,
		"perPage": notificationsPerPage,
	}, token, &out)
	if err != nil {
		return nil, err
	}
	return &Page[AiringNotification]{Items: out.Page.Notifications, Info: out.Page.PageInfo}, nil
}
