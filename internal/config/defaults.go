package config

const (
	defaultConfigPath       = "~/.config/saveshelf/config.toml"
	defaultDataDir          = "~/.local/share/saveshelf"
	defaultLogDir           = "~/.local/share/saveshelf/logs"
	defaultPatchDir         = "~/.local/share/saveshelf/patches"
	defaultLogRetentionDays = 30
	defaultSavedataDir      = "~/vita/ux0/user/00/savedata"
	defaultPSPSavesDir      = "~/vita/ux0/pspemu/PSP/SAVEDATA"
	defaultArchiveDir       = "~/vita/ux0/data"
	defaultAppDBPath        = "~/vita/ur0/shell/db/app.db"
	defaultTrophyDBPath     = "~/vita/ur0/user/00/trophy/db/trophy_local.db"
	defaultOnlineBaseURL    = "https://bucanero.github.io/apollo-saves/"
	defaultCacheMaxAgeHours = 24
	defaultDownloadTimeout  = 30
	defaultLockFileName     = "mount.lock"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// DefaultMountProfiles lists the protected-mount access profiles in the order
// they are attempted.
var DefaultMountProfiles = []string{"0x6E", "0x12E", "0x12F", "0x3ED"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
			PatchDir: defaultPatchDir,
		},
		Storage: Storage{
			SavedataDir:  defaultSavedataDir,
			PSPSavesDir:  defaultPSPSavesDir,
			ArchiveDir:   defaultArchiveDir,
			AppDBPath:    defaultAppDBPath,
			TrophyDBPath: defaultTrophyDBPath,
		},
		Online: Online{
			Enabled:          true,
			BaseURL:          defaultOnlineBaseURL,
			CacheMaxAgeHours: defaultCacheMaxAgeHours,
			DownloadTimeout:  defaultDownloadTimeout,
		},
		Mount: Mount{
			Profiles: append([]string(nil), DefaultMountProfiles...),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
