package domain

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type nullLogger struct{}

func (n *nullLogger) Log(message string) {}

type fakeModel struct {
	caption   string
	err       error
	callCount int
	seenModes []ColorMode
}

func (f *fakeModel) Name() string {
	return "fake"
}

func (f *fakeModel) Describe(img *Image) (string, error) {
	f.callCount++
	f.seenModes = append(f.seenModes, img.Mode)
	return f.caption, f.err
}

// fakeNormalizer flips the mode to RGB without touching pixels, and records that it ran.
type fakeNormalizer struct {
	callCount int
}

func (f *fakeNormalizer) ToRGB(img *Image) *Image {
	f.callCount++
	return NewImage(img.Bitmap, ColorModeRGB, img.Format)
}

func newTestImage(mode ColorMode) *Image {
	return NewImage(image.NewRGBA(image.Rect(0, 0, 4, 4)), mode, "png")
}

func newService(model CaptionModel, normalizer ImageNormalizer) *CaptionService {
	provider := NewModelProvider(func() (CaptionModel, error) {
		return model, nil
	})
	return NewCaptionService(provider, normalizer, &nullLogger{})
}

func TestGenerateCaption(t *testing.T) {
	model := &fakeModel{caption: "a dog on a beach"}
	service := newService(model, &fakeNormalizer{})

	caption, err := service.GenerateCaption(newTestImage(ColorModeRGB))

	require.NoError(t, err)
	require.Equal(t, "a dog on a beach", caption)
	require.False(t, strings.HasPrefix(caption, "Error"))
}

func TestGenerateCaptionNormalizesNonRGBModes(t *testing.T) {
	for _, mode := range []ColorMode{ColorModeRGBA, ColorModeGray, ColorModePaletted, ColorModeOther} {
		model := &fakeModel{caption: "something"}
		normalizer := &fakeNormalizer{}
		service := newService(model, normalizer)

		_, err := service.GenerateCaption(newTestImage(mode))

		require.NoError(t, err)
		require.Equal(t, 1, normalizer.callCount, "mode %s should be normalized", mode)
		require.Equal(t, []ColorMode{ColorModeRGB}, model.seenModes, "the model should only ever see RGB")
	}
}

func TestGenerateCaptionSkipsNormalizationForRGB(t *testing.T) {
	normalizer := &fakeNormalizer{}
	service := newService(&fakeModel{caption: "something"}, normalizer)

	_, err := service.GenerateCaption(newTestImage(ColorModeRGB))

	require.NoError(t, err)
	require.Equal(t, 0, normalizer.callCount)
}

func TestGenerateCaptionModelError(t *testing.T) {
	modelErr := errors.New("the runtime crashed")
	service := newService(&fakeModel{err: modelErr}, &fakeNormalizer{})

	caption, err := service.GenerateCaption(newTestImage(ColorModeRGB))

	require.ErrorIs(t, err, modelErr)
	require.Empty(t, caption)
}

func TestGenerateCaptionEmptyOutput(t *testing.T) {
	service := newService(&fakeModel{caption: "   \n"}, &fakeNormalizer{})

	_, err := service.GenerateCaption(newTestImage(ColorModeRGB))

	require.ErrorIs(t, err, ErrEmptyCaption)
}

func TestGenerateCaptionNilImage(t *testing.T) {
	service := newService(&fakeModel{caption: "something"}, &fakeNormalizer{})

	_, err := service.GenerateCaption(nil)

	require.Error(t, err)
}

func TestGenerateCaptionCleansRuntimeNoise(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"  a cat sitting on a sofa  ", "a cat sitting on a sofa"},
		{"\"a cat sitting on a sofa\"", "a cat sitting on a sofa"},
		{"'a cat sitting on a sofa'", "a cat sitting on a sofa"},
		{"a cat sitting on a sofa\ntimings: 153ms per token", "a cat sitting on a sofa"},
	}
	for _, test := range tests {
		service := newService(&fakeModel{caption: test.raw}, &fakeNormalizer{})

		caption, err := service.GenerateCaption(newTestImage(ColorModeRGB))

		require.NoError(t, err)
		require.Equal(t, test.expected, caption)
	}
}

func TestModelLoadErrorIsMemoized(t *testing.T) {
	factoryCalls := 0
	loadErr := errors.New("no weights")
	provider := NewModelProvider(func() (CaptionModel, error) {
		factoryCalls++
		return nil, loadErr
	})
	service := NewCaptionService(provider, &fakeNormalizer{}, &nullLogger{})

	for i := 0; i < 5; i++ {
		_, err := service.GenerateCaption(newTestImage(ColorModeRGB))
		require.ErrorIs(t, err, loadErr)
	}
	require.Equal(t, 1, factoryCalls)
}
