package history

import (
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	engine "vodhub.fr/portal/engine/app"
)

func GetAllEndpoint(ctx *gin.Context, app *engine.App) {
	ctx.JSON(200, app.Store.History())
}

func GetOneEndpoint(ctx *gin.Context, app *engine.App) {
	entry, ok := app.Store.HistoryFor(ctx.Param("vod_id"))
	if !ok {
		ctx.JSON(200, nil)
		return
	}
	ctx.JSON(200, entry)
}

type upsertBody struct {
	VodID    *string  `json:"vodId"`
	Timecode *float64 `json:"timecode"`
	Duration float64  `json:"duration"`
}

// UpsertEndpoint records playback progress.
func UpsertEndpoint(ctx *gin.Context, app *engine.App) {
	var body upsertBody
	if err := ctx.ShouldBindJSON(&body); err != nil || body.VodID == nil || body.Timecode == nil {
		ctx.JSON(400, gin.H{"error": "invalid parameters"})
		return
	}
	ctx.JSON(200, app.Store.UpsertHistory(*body.VodID, *body.Timecode, body.Duration))
}

// ListEndpoint returns the history newest first, each entry enriched
// with the VOD's current metadata when Twitch still has it.
func ListEndpoint(ctx *gin.Context, app *engine.App) {
	entries := make([]engine.HistoryEntry, 0)
	for _, entry := range app.Store.History() {
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].UpdatedAt > entries[j].UpdatedAt })

	if raw := ctx.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			if limit < 1 {
				limit = 1
			}
			if limit > 100 {
				limit = 100
			}
			if len(entries) > limit {
				entries = entries[:limit]
			}
		}
	}

	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.VodID
	}
	byId := make(map[string]engine.Vod)
	for _, vod := range app.Twitch.FetchVodsByIds(ctx.Request.Context(), ids) {
		byId[vod.ID] = vod
	}

	enriched := make([]engine.HistoryVodEntry, len(entries))
	for i, entry := range entries {
		enriched[i] = engine.HistoryVodEntry{HistoryEntry: entry}
		if vod, ok := byId[entry.VodID]; ok {
			enriched[i].Vod = &vod
		}
	}
	ctx.JSON(200, enriched)
}
