package blipcpp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"kgeyst.com/captioner/pkg/captioner/domain"
	"kgeyst.com/captioner/pkg/captioner/infrastructure/imaging"
	"kgeyst.com/captioner/pkg/common"
)

const (
	// ConfigKeyModelPath the path to the checkpoint weights relative to the working directory
	ConfigKeyModelPath = "blipModelPath"
	// ConfigKeyProjectorPath the path to the vision projector weights which accompany the checkpoint
	ConfigKeyProjectorPath = "blipProjectorPath"
	// ConfigKeyBinaryPath the path to the inference runtime binary
	ConfigKeyBinaryPath = "blipBinaryPath"
	// ConfigKeyTemperature sampling temperature; captions should stay close to greedy decoding
	ConfigKeyTemperature = "blipTemperature"
	// ConfigKeyResponseTimeout when to give up if the runtime takes too long to produce a caption
	ConfigKeyResponseTimeout = "blipResponseTimeout"
)

var errUnexpectedRuntimeOutput = errors.New("unexpected runtime output")

// CaptionModel runs a local blip.cpp-style runtime binary. We hook up to it by launching
// a subprocess per request and reading its standard output. Launching a new subprocess for
// each run has the following benefits:
// - full isolation (for privacy)
// - fault-tolerance: crashes in the runtime do not bring the whole service down
type CaptionModel struct {
	mutex           sync.Mutex
	logger          common.Logger
	binaryPath      string
	modelPath       string
	projectorPath   string
	maxTokens       int
	temperature     float64
	responseTimeout time.Duration
}

func NewCaptionModel(config *common.Config, logger common.Logger) *CaptionModel {
	return &CaptionModel{
		logger:          logger,
		binaryPath:      config.GetStringOrDefault(ConfigKeyBinaryPath, "blip.cpp"),
		modelPath:       config.GetStringOrDefault(ConfigKeyModelPath, "blip.bin"),
		projectorPath:   config.GetStringOrDefault(ConfigKeyProjectorPath, "blip-proj.bin"),
		maxTokens:       config.GetIntOrDefault(domain.ConfigKeyMaxCaptionTokens, 50),
		temperature:     config.GetFloatOrDefault(ConfigKeyTemperature, 0.1),
		responseTimeout: config.GetDurationOrDefault(ConfigKeyResponseTimeout, time.Minute),
	}
}

func (c *CaptionModel) Name() string {
	return "blipcpp"
}

// Validate fails fast if the runtime binary or the weights are missing, so that a broken
// deployment is caught at startup instead of on the first user request.
func (c *CaptionModel) Validate() error {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return err
	}
	for _, path := range []string{c.binaryPath, c.modelPath, c.projectorPath} {
		_, err := os.Stat(filepath.Join(workingDirectory, path))
		if err != nil {
			return fmt.Errorf("the model runtime is not deployed: %w", err)
		}
	}
	return nil
}

func (c *CaptionModel) Describe(image *domain.Image) (string, error) {
	// Only 1 request can be processed at a time currently because we run the captioner on commodity
	// hardware which can't usually process two requests simultaneously due to low amounts of VRAM.
	c.mutex.Lock()
	defer c.mutex.Unlock()
	filePath, err := writeTempImage(image)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(filePath)
	}()
	cmd, cancelFunc, err := c.buildInferCommand(filePath)
	if err != nil {
		return "", err
	}
	defer cancelFunc()
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	err = cmd.Run()
	if err != nil {
		// A process can run successfully but be terminated with a SIGKILL for some reason (due to context
		// cancellation?) So we log it, leaving what has been generated so far intact.
		_, ok := err.(*exec.ExitError)
		if !ok {
			c.logger.Log(err.Error() + "\n")
			return "", err
		}
	}
	result := removeRuntimeNoise(out.String())
	if result == "" {
		return "", errUnexpectedRuntimeOutput
	}
	return result, nil
}

func (c *CaptionModel) buildInferCommand(filePath string) (*exec.Cmd, context.CancelFunc, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancelFunc := context.WithDeadline(context.Background(), time.Now().Add(c.responseTimeout))
	cmd := exec.CommandContext(
		ctx,
		filepath.Join(workingDirectory, c.binaryPath),
		"-m", filepath.Join(workingDirectory, c.modelPath),
		"--mmproj", filepath.Join(workingDirectory, c.projectorPath),
		"--image", filePath,
		"--temp", strconv.FormatFloat(c.temperature, 'f', -1, 64),
		"-n", strconv.Itoa(c.maxTokens),
	)
	return cmd, cancelFunc, nil
}

// The runtime needs its input as a file on disk, so the normalized bitmap is written to a
// uniquely-named temporary PNG for the duration of the call.
func writeTempImage(image *domain.Image) (string, error) {
	data, err := imaging.EncodePNG(image)
	if err != nil {
		return "", err
	}
	filePath := filepath.Join(os.TempDir(), "caption_input_"+uuid.NewString()+".png")
	err = os.WriteFile(filePath, data, 0600)
	if err != nil {
		return "", err
	}
	return filePath, nil
}

// TODO can we get rid of the hack?
func removeRuntimeNoise(result string) string {
	// The runtime prints image encoding stats to stdout before the caption itself.
	const anchor = "per image patch)"
	hackIndex := strings.Index(result, anchor)
	if hackIndex != -1 {
		result = result[hackIndex+len(anchor):]
	}
	return strings.TrimSpace(result)
}
