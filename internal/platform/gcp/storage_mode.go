package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// StorageMode selects where rendered artifacts are published.
type StorageMode string

const (
	StorageModeLocal       StorageMode = "local"
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

type StorageConfig struct {
	Mode          StorageMode
	BucketName    string
	EmulatorHost  string
	PublicBaseURL string
}

func (cfg StorageConfig) IsEmulatorMode() bool { return cfg.Mode == StorageModeGCSEmulator }

// UsesBucket reports whether artifacts leave the local disk.
func (cfg StorageConfig) UsesBucket() bool {
	return cfg.Mode == StorageModeGCS || cfg.Mode == StorageModeGCSEmulator
}

type StorageConfigErrorCode string

const (
	StorageConfigErrorInvalidMode         StorageConfigErrorCode = "invalid_mode"
	StorageConfigErrorMissingBucket       StorageConfigErrorCode = "missing_bucket"
	StorageConfigErrorMissingEmulatorHost StorageConfigErrorCode = "missing_emulator_host"
	StorageConfigErrorInvalidURL          StorageConfigErrorCode = "invalid_url"
)

type StorageConfigError struct {
	Code  StorageConfigErrorCode
	Value string
	Cause error
}

func (e *StorageConfigError) Error() string {
	if e == nil {
		return "invalid artifact storage config"
	}
	switch e.Code {
	case StorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid ARTIFACT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Value, StorageModeLocal, StorageModeGCS, StorageModeGCSEmulator)
	case StorageConfigErrorMissingBucket:
		return "ARTIFACT_GCS_BUCKET_NAME is required for bucket storage"
	case StorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("ARTIFACT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", StorageModeGCSEmulator)
	case StorageConfigErrorInvalidURL:
		return fmt.Sprintf("invalid url %q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid artifact storage config"
	}
}

func (e *StorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveStorageConfigFromEnv reads ARTIFACT_STORAGE_MODE and friends.
// An empty mode means local disk.
func ResolveStorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		BucketName:    strings.TrimSpace(os.Getenv("ARTIFACT_GCS_BUCKET_NAME")),
		EmulatorHost:  strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("ARTIFACT_PUBLIC_BASE_URL")), "/"),
	}
	raw := strings.TrimSpace(os.Getenv("ARTIFACT_STORAGE_MODE"))
	switch mode := StorageMode(strings.ToLower(raw)); mode {
	case "", StorageModeLocal:
		cfg.Mode = StorageModeLocal
	case StorageModeGCS, StorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &StorageConfigError{Code: StorageConfigErrorInvalidMode, Value: raw}
	}
	if err := ValidateStorageConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func ValidateStorageConfig(cfg StorageConfig) error {
	switch cfg.Mode {
	case StorageModeLocal:
		return nil
	case StorageModeGCS, StorageModeGCSEmulator:
	default:
		return &StorageConfigError{Code: StorageConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.BucketName == "" {
		return &StorageConfigError{Code: StorageConfigErrorMissingBucket}
	}
	if cfg.PublicBaseURL != "" {
		if err := checkAbsoluteURL(cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &StorageConfigError{Code: StorageConfigErrorMissingEmulatorHost}
	}
	return checkAbsoluteURL(cfg.EmulatorHost)
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &StorageConfigError{Code: StorageConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}
