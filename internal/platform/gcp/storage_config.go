package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

type StorageConfig struct {
	Mode           StorageMode
	EmulatorHost   string
	Credentials    string
	AvatarBucket   string
	AvatarCDN      string
	ArtifactBucket string
	ArtifactCDN    string
	PublicBaseURL  string
}

// Enabled reports whether any bucket is configured.
func (c StorageConfig) Enabled() bool {
	return strings.TrimSpace(c.AvatarBucket) != "" || strings.TrimSpace(c.ArtifactBucket) != ""
}

// Normalize fills the mode: an emulator host without an explicit mode
// selects the emulator.
func (c StorageConfig) Normalize() StorageConfig {
	c.Mode = StorageMode(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	c.EmulatorHost = strings.TrimRight(strings.TrimSpace(c.EmulatorHost), "/")
	c.PublicBaseURL = strings.TrimRight(strings.TrimSpace(c.PublicBaseURL), "/")
	if c.Mode == "" {
		if c.EmulatorHost != "" {
			c.Mode = StorageModeGCSEmulator
		} else {
			c.Mode = StorageModeGCS
		}
	}
	return c
}

func (c StorageConfig) Validate() error {
	switch c.Mode {
	case StorageModeGCS:
	case StorageModeGCSEmulator:
		if c.EmulatorHost == "" {
			return fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", StorageModeGCSEmulator)
		}
		u, err := url.Parse(c.EmulatorHost)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", c.EmulatorHost)
		}
	default:
		return fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", c.Mode, StorageModeGCS, StorageModeGCSEmulator)
	}
	if c.PublicBaseURL != "" {
		u, err := url.Parse(c.PublicBaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid OBJECT_STORAGE_PUBLIC_BASE_URL=%q", c.PublicBaseURL)
		}
	}
	return nil
}
