package logging

import (
	"fmt"
	"time"

	"kgeyst.com/captioner/pkg/captioner/domain"
	"kgeyst.com/captioner/pkg/common"
)

type captionModelDecorator struct {
	wrappedCaptionModel domain.CaptionModel
	logger              common.Logger
}

func NewCaptionModelDecorator(wrappedCaptionModel domain.CaptionModel, logger common.Logger) domain.CaptionModel {
	return &captionModelDecorator{
		wrappedCaptionModel: wrappedCaptionModel,
		logger:              logger,
	}
}

func (c *captionModelDecorator) Name() string {
	return c.wrappedCaptionModel.Name()
}

func (c *captionModelDecorator) Describe(image *domain.Image) (string, error) {
	width, height := image.Bounds()
	c.logger.Log(fmt.Sprintf("\n================\n describing a %dx%d image (mode %s) using '%s'\n================\n\n", width, height, image.Mode, c.Name()))
	t := time.Now()
	caption, err := c.wrappedCaptionModel.Describe(image)
	if err != nil {
		return "", err
	}
	c.logger.Log(fmt.Sprintf("\n================\n raw caption:\n%s\n (took %d ms)\n================\n", caption, time.Since(t).Milliseconds()))
	return caption, nil
}
