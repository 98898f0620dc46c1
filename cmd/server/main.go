package main

import (
	"fmt"

	"kgeyst.com/captioner/pkg/captioner/api"
	"kgeyst.com/captioner/pkg/captioner/server"
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
	// Resolve the model before accepting any traffic: if the model can't be loaded,
	// no request can ever succeed.
	err = captionerAPI.Warmup()
	if err != nil {
		return fmt.Errorf("failed to load the model: %w", err)
	}
	logger := common.NewFileLogger(config.GetStringOrDefault(api.ConfigKeyLogPath, "log.txt"))
	return server.NewServer(captionerAPI, config, logger).Run()
}
