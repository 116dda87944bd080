package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"

	"github.com/arven/deckhand/constants"
	"github.com/arven/deckhand/util"
)

// Profile is the optional deckhand.toml project file. Flags beat profile
// values beat env vars beat built-in defaults.
type Profile struct {
	Model      string `toml:"model,omitempty"`
	ImageModel string `toml:"image_model,omitempty"`
	OutputDir  string `toml:"output_dir,omitempty"`
	ThemesFile string `toml:"themes_file,omitempty"`
	LedgerFile string `toml:"ledger_file,omitempty"`
	Drive      struct {
		FolderID    string `toml:"folder_id,omitempty"`
		Credentials string `toml:"credentials,omitempty"`
	} `toml:"drive,omitempty"`
}

var profile Profile

// Load reads config.env into the process env (if present) and parses the
// deckhand.toml profile. Called once from the root command.
func Load() error {
	if exists, _ := util.FileExists(constants.ENV_FILE); exists {
		if err := godotenv.Load(constants.ENV_FILE); err != nil {
			return fmt.Errorf("load %s: %w", constants.ENV_FILE, err)
		}
		log.Debugf("loaded env from %s", constants.ENV_FILE)
	}
	data, err := os.ReadFile(constants.PROFILE_FILE)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", constants.PROFILE_FILE, err)
	}
	if err := toml.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("parse %s: %w", constants.PROFILE_FILE, err)
	}
	return nil
}

// Get returns the loaded profile.
func Get() *Profile {
	return &profile
}

// GetDefaultModel returns the chat model: DECKHAND_MODEL env, then the
// profile, then the built-in default.
func GetDefaultModel() string {
	return util.FirstNonZeroArg(os.Getenv(constants.ENV_MODEL), profile.Model, constants.DEFAULT_MODEL)
}

// GetDefaultImageModel returns the image model the same way.
func GetDefaultImageModel() string {
	return util.FirstNonZeroArg(os.Getenv(constants.ENV_IMAGE_MODEL), profile.ImageModel, constants.DEFAULT_IMAGE_MODEL)
}

func GetOutputDir() string {
	return util.FirstNonZeroArg(profile.OutputDir, constants.DEFAULT_OUTPUT_DIR)
}

func GetThemesFile() string {
	return util.FirstNonZeroArg(profile.ThemesFile, constants.DEFAULT_THEMES_FILE)
}

func GetLedgerFile() string {
	return util.FirstNonZeroArg(profile.LedgerFile, constants.DEFAULT_LEDGER_FILE)
}

// GetDriveFolder returns the Drive parent folder id: env first, then profile.
// Empty means uploads are disabled.
func GetDriveFolder() string {
	return util.FirstNonZeroArg(os.Getenv(constants.ENV_DRIVE_FOLDER), profile.Drive.FolderID)
}

func GetDriveCredentials() string {
	return profile.Drive.Credentials
}
