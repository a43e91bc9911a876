package engine

import (
	"github.com/rs/zerolog"
)

// App bundles the portal's long-lived services. One instance is built
// at startup and handed to every route.
type App struct {
	Log    zerolog.Logger
	Twitch *TwitchClient
	Store  *Store
}

func Init(log zerolog.Logger) *App {
	app := &App{
		Log:    log,
		Twitch: NewTwitchClient(log),
		Store:  NewStore(HistoryFilePath(), log),
	}
	log.Info().
		Str("gql", Config.Twitch.GqlUrl).
		Str("state", HistoryFilePath()).
		Msg("engine initialized")
	return app
}
