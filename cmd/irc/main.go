package main

import (
	"fmt"
	"strings"

	"github.com/whyrusleeping/hellabot"

	"kgeyst.com/captioner/pkg/captioner/api"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/web"
	"kgeyst.com/captioner/pkg/common"
)

// The IRC frontend watches the channel for image links and replies with a caption.
// Only URLs which look like direct image links are reacted to, so that the bot doesn't
// try to caption every article link people paste.
func main() {
	err := mainImpl()
	if err != nil {
		panic(err)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	botName := config.GetStringOrDefault("botName", "Captioner")
	roomName := config.GetStringOrDefault("roomName", "captions")
	serverName := config.GetStringOrDefault("serverName", "irc.euirc.net:6667")
	captionerAPI := api.NewAPI(config)
	err = captionerAPI.Warmup()
	if err != nil {
		return fmt.Errorf("failed to load the model: %w", err)
	}
	ircBot, err := hbot.NewBot(serverName, botName)
	if err != nil {
		return err
	}
	urlFinder := web.NewURLFinder()
	var trigger = hbot.Trigger{
		Condition: func(b *hbot.Bot, m *hbot.Message) bool {
			return true
		},
		Action: func(b *hbot.Bot, m *hbot.Message) bool {
			if m.Command != "PRIVMSG" {
				return true
			}
			if len(m.To) == 0 || m.To[0] != '#' {
				return false
			}
			imageURL := findImageURL(urlFinder, m.Content)
			if imageURL == "" {
				return true
			}
			caption, err := captionerAPI.CaptionURL(imageURL)
			if err != nil {
				b.Reply(m, m.From+" I couldn't read that image :(")
				return true
			}
			b.Reply(m, m.From+" "+caption)
			return true
		},
	}
	ircBot.AddTrigger(trigger)
	ircBot.Channels = []string{"#" + roomName}
	ircBot.Run()
	return nil
}

func findImageURL(urlFinder *web.URLFinder, message string) string {
	for _, url := range urlFinder.FindURLs(message) {
		if hasImageExtension(url) {
			return url
		}
	}
	return ""
}

func hasImageExtension(url string) bool {
	url = strings.ToLower(url)
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".bmp") ||
		strings.HasSuffix(url, ".webp")
}
