package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kgeyst.com/captioner/pkg/common"
)

var ErrEmptyCaption = errors.New("the model returned an empty caption")

// CaptionService is the caption generation pipeline: it normalizes the image's color representation,
// obtains the memoized model handle and runs inference. Each invocation is stateless and independent;
// no history is retained across invocations. Errors are returned as proper errors, never as
// caption-shaped strings, so callers can tell success from failure without string matching.
type CaptionService struct {
	modelProvider *ModelProvider
	normalizer    ImageNormalizer
	logger        common.Logger
}

func NewCaptionService(
	modelProvider *ModelProvider,
	normalizer ImageNormalizer,
	logger common.Logger,
) *CaptionService {
	return &CaptionService{
		modelProvider: modelProvider,
		normalizer:    normalizer,
		logger:        logger,
	}
}

func (c *CaptionService) GenerateCaption(image *Image) (string, error) {
	if image == nil {
		return "", errors.New("no image")
	}
	if image.Mode != ColorModeRGB {
		image = c.normalizer.ToRGB(image)
	}
	model, err := c.modelProvider.Provide()
	if err != nil {
		return "", fmt.Errorf("failed to load the model: %w", err)
	}
	startTime := time.Now()
	caption, err := model.Describe(image)
	if err != nil {
		return "", fmt.Errorf("failed to generate a caption: %w", err)
	}
	width, height := image.Bounds()
	c.logger.Log(fmt.Sprintf(
		"captioned a %dx%d %s image with '%s' in %d ms\n",
		width,
		height,
		image.Format,
		model.Name(),
		time.Since(startTime).Milliseconds(),
	))
	caption = cleanCaption(caption)
	if caption == "" {
		return "", ErrEmptyCaption
	}
	return caption, nil
}

// cleanCaption removes noise model runtimes are known to emit around the caption proper:
// surrounding whitespace, a wrapping pair of quotes, and anything past the first line break.
func cleanCaption(caption string) string {
	caption = strings.TrimSpace(caption)
	newlineIndex := strings.IndexAny(caption, "\r\n")
	if newlineIndex != -1 {
		caption = caption[0:newlineIndex]
	}
	caption = common.RemoveSurroundingQuotesIfAny(caption)
	return strings.TrimSpace(caption)
}
