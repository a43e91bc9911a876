package engine

// API types mirror the GQL field names the portal already consumes, so
// every struct serializes with Twitch's camelCase.

type VodGame struct {
	Name string `json:"name"`
}

type VodOwner struct {
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageURL"`
}

type Vod struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	LengthSeconds       int64     `json:"lengthSeconds"`
	PreviewThumbnailURL string    `json:"previewThumbnailURL"`
	CreatedAt           string    `json:"createdAt"`
	ViewCount           int64     `json:"viewCount"`
	Language            string    `json:"language,omitempty"`
	Game                *VodGame  `json:"game"`
	Owner               *VodOwner `json:"owner,omitempty"`
}

type LiveGame struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	BoxArtURL string `json:"boxArtURL,omitempty"`
}

type LiveBroadcaster struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageURL"`
}

type LiveStream struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	PreviewImageURL string          `json:"previewImageURL"`
	ViewerCount     int64           `json:"viewerCount"`
	Language        string          `json:"language,omitempty"`
	StartedAt       string          `json:"startedAt"`
	Broadcaster     LiveBroadcaster `json:"broadcaster"`
	Game            *LiveGame       `json:"game"`
}

type LiveStreamsPage struct {
	Items      []LiveStream `json:"items"`
	NextCursor string       `json:"nextCursor,omitempty"`
	HasMore    bool         `json:"hasMore"`
}

type LiveCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BoxArtURL string `json:"boxArtURL"`
}

type UserInfo struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageURL"`
}

// ── persisted state ──

type HistoryEntry struct {
	VodID     string  `json:"vodId"`
	Timecode  float64 `json:"timecode"`
	Duration  float64 `json:"duration"`
	UpdatedAt int64   `json:"updatedAt"`
}

type HistoryVodEntry struct {
	HistoryEntry
	Vod *Vod `json:"vod"`
}

type WatchlistEntry struct {
	VodID               string `json:"vodId"`
	Title               string `json:"title"`
	PreviewThumbnailURL string `json:"previewThumbnailURL"`
	LengthSeconds       int64  `json:"lengthSeconds"`
	AddedAt             int64  `json:"addedAt"`
}

type SubEntry struct {
	Login           string `json:"login"`
	DisplayName     string `json:"displayName"`
	ProfileImageURL string `json:"profileImageURL"`
}

type ExperienceSettings struct {
	OneSync bool `json:"oneSync"`
}

type PersistedData struct {
	History   map[string]HistoryEntry `json:"history"`
	Watchlist []WatchlistEntry        `json:"watchlist"`
	Subs      []SubEntry              `json:"subs"`
	Settings  ExperienceSettings      `json:"settings"`
}
