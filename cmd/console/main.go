package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"kgeyst.com/captioner/pkg/captioner/api"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/web"
	"kgeyst.com/captioner/pkg/common"
)

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
	captionerAPI := api.NewAPI(config)
	err = captionerAPI.Warmup()
	if err != nil {
		return fmt.Errorf("failed to load the model: %w", err)
	}
	fmt.Println("Type an image URL or a local file path to get a caption (Ctrl+D to quit).")
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()
	urlFinder := web.NewURLFinder()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		caption, err := captionLine(captionerAPI, urlFinder, line)
		if err != nil {
			fmt.Println("Error generating caption:", err)
			continue
		}
		fmt.Println(caption)
	}
	return nil
}

func captionLine(captionerAPI api.API, urlFinder *web.URLFinder, line string) (string, error) {
	urls := urlFinder.FindURLs(line)
	if len(urls) != 0 {
		return captionerAPI.CaptionURL(urls[0])
	}
	data, err := os.ReadFile(line)
	if err != nil {
		return "", err
	}
	return captionerAPI.CaptionBytes(data, filepath.Base(line))
}
