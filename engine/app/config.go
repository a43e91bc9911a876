package engine

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const TwitchGqlUrl = "https://gql.twitch.tv/gql"
const TwitchUsherUrl = "https://usher.ttvnw.net"
const TwitchClientId = "kimne78kx3ncx6brgo4mv6wki5h1ko"

var Config = AppConfig{}

type AppConfig struct {
	Web struct {
		PublicPort  string `json:"public_port"`
		PublicUrl   string `json:"public_url"`
		CrossOrigin string `json:"cross_origin"`
		PortalPath  string `json:"portal_path"`
	} `json:"web"`
	Twitch struct {
		ClientId string `json:"client_id"`
		GqlUrl   string `json:"gql_url"`
		UsherUrl string `json:"usher_url"`
	} `json:"twitch"`
	Stream struct {
		// per-tier probe budget, seconds
		ProbeTimeout        uint `json:"probe_timeout"`
		RewriteLiveManifest bool `json:"rewrite_live_manifest"`
	} `json:"stream"`
	DataPath string `json:"data_path"`
}

func LoadConfig() {
	godotenv.Load()
	Config.Web.PublicPort = "4976"
	Config.Web.CrossOrigin = "*"
	Config.Web.PortalPath = "./build/"
	Config.Twitch.ClientId = TwitchClientId
	Config.Twitch.GqlUrl = TwitchGqlUrl
	Config.Twitch.UsherUrl = TwitchUsherUrl
	Config.Stream.ProbeTimeout = 5
	Config.Stream.RewriteLiveManifest = true
	Config.DataPath = "./data"

	f, err := os.Open("config.json")
	if err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&Config); err != nil {
			panic(err)
		}
	} else if !os.IsNotExist(err) {
		panic(err)
	}

	if port := os.Getenv("PORTAL_PORT"); port != "" {
		Config.Web.PublicPort = port
	}
	if dir := os.Getenv("PORTAL_DATA"); dir != "" {
		Config.DataPath = dir
	}
	if id := os.Getenv("TWITCH_CLIENT_ID"); id != "" {
		Config.Twitch.ClientId = id
	}
	if Config.Stream.ProbeTimeout == 0 {
		Config.Stream.ProbeTimeout = 5
	}
	PanicOnError(os.MkdirAll(Config.DataPath, os.ModePerm))
}

func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

func HistoryFilePath() string {
	abs, err := filepath.Abs(Config.DataPath)
	if err != nil {
		panic(err)
	}
	return filepath.Join(abs, "history.json")
}
