package domain

// A list of built-in config keys supported by the captioner's core (settings specific to
// individual model backends live next to those backends).

const (
	// ConfigKeyLogPath file path where to save the logs
	ConfigKeyLogPath = "logPath"
	// ConfigKeyModelBackend which inference backend to use: "exec" (local runtime binary) or "http" (inference server)
	ConfigKeyModelBackend = "modelBackend"
	// ConfigKeyCheckpointName the name of the pretrained checkpoint the backend should load
	ConfigKeyCheckpointName = "checkpointName"
	// ConfigKeyMaxCaptionTokens the cap on the number of generated tokens per caption
	ConfigKeyMaxCaptionTokens = "maxCaptionTokens"
	// ConfigKeyAllowedImageExtensions the file extension allow-list applied at the upload boundary
	ConfigKeyAllowedImageExtensions = "allowedImageExtensions"
)

// DefaultAllowedImageExtensions mirrors what the upload boundary accepts when the config
// doesn't override it.
var DefaultAllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".webp"}
