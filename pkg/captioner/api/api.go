package api

import (
	"fmt"

	"kgeyst.com/captioner/pkg/captioner/domain"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/blipcpp"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/blipserver"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/imaging"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/logging"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/web"
	"kgeyst.com/captioner/pkg/common"
)

// See domain/config.go
const (
	ConfigKeyLogPath      = domain.ConfigKeyLogPath
	ConfigKeyModelBackend = domain.ConfigKeyModelBackend
)

const (
	ModelBackendExec = "exec"
	ModelBackendHTTP = "http"
)

type api struct {
	acquireService *domain.AcquireService
	captionService *domain.CaptionService
	modelProvider  *domain.ModelProvider
}

// API is the entrypoint to the captioner. It shouldn't contain any logic of its own; it glues
// all the components together and provides a public interface for the caption pipeline.
// This API can be used in various contexts: an HTTP server, console input/output, an IRC chat etc.
type API interface {
	// CaptionBytes captions an uploaded image file. `fileName` is checked against the extension
	// allow-list before the bytes are decoded.
	CaptionBytes(data []byte, fileName string) (string, error)
	// CaptionURL fetches the image behind the given URL (with a bounded timeout) and captions it.
	// If the URL serves an HTML page, the page's main image is captioned instead.
	CaptionURL(url string) (string, error)
	// CaptionFrame captions a camera snapshot represented as a base64 data URL, which is how
	// browsers deliver canvas captures.
	CaptionFrame(dataURL string) (string, error)
	// Warmup eagerly resolves the model handle. A Warmup failure means no caption request can
	// ever succeed in this process, so frontends should refuse to start.
	Warmup() error
}

func NewAPI(config *common.Config) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	modelProvider := domain.NewModelProvider(func() (domain.CaptionModel, error) {
		return newCaptionModel(config, logger)
	})
	captionService := domain.NewCaptionService(
		modelProvider,
		imaging.NewNormalizer(),
		logger,
	)
	acquireService := domain.NewAcquireService(
		imaging.NewDecoder(),
		web.NewImageFetcher(config),
		config,
	)
	return &api{
		acquireService: acquireService,
		captionService: captionService,
		modelProvider:  modelProvider,
	}
}

// newCaptionModel constructs the configured inference backend. It runs at most once per process
// (see domain.ModelProvider); a construction failure is memoized as well.
func newCaptionModel(config *common.Config, logger common.Logger) (domain.CaptionModel, error) {
	backend := config.GetStringOrDefault(ConfigKeyModelBackend, ModelBackendExec)
	switch backend {
	case ModelBackendExec:
		model := blipcpp.NewCaptionModel(config, logger)
		if err := model.Validate(); err != nil {
			return nil, err
		}
		return logging.NewCaptionModelDecorator(model, logger), nil
	case ModelBackendHTTP:
		model := blipserver.NewCaptionModel(config)
		if err := model.Validate(); err != nil {
			return nil, err
		}
		return logging.NewCaptionModelDecorator(model, logger), nil
	default:
		return nil, fmt.Errorf("unknown model backend \"%s\"", backend)
	}
}

func (a *api) CaptionBytes(data []byte, fileName string) (string, error) {
	image, err := a.acquireService.FromBytes(data, fileName)
	if err != nil {
		return "", err
	}
	return a.captionService.GenerateCaption(image)
}

func (a *api) CaptionURL(url string) (string, error) {
	image, err := a.acquireService.FromURL(url)
	if err != nil {
		return "", err
	}
	return a.captionService.GenerateCaption(image)
}

func (a *api) CaptionFrame(dataURL string) (string, error) {
	image, err := a.acquireService.FromFrame(dataURL)
	if err != nil {
		return "", err
	}
	return a.captionService.GenerateCaption(image)
}

func (a *api) Warmup() error {
	_, err := a.modelProvider.Provide()
	return err
}
