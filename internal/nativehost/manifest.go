package nativehost

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

// HostName is the native messaging host identifier the extension connects to.
const HostName = "com.dayplan.host"

const hostDescription = "dayplan schedule notifier native host"

// Browser is a browser with native messaging support.
type Browser string

const (
	BrowserChrome   Browser = "chrome"
	BrowserFirefox  Browser = "firefox"
	BrowserChromium Browser = "chromium"
	BrowserEdge     Browser = "edge"
	BrowserBrave    Browser = "brave"
)

// SupportedBrowsers returns every browser a manifest can be installed for.
func SupportedBrowsers() []Browser {
	return []Browser{BrowserChrome, BrowserFirefox, BrowserChromium, BrowserEdge, BrowserBrave}
}

// ParseBrowser validates a browser name.
func ParseBrowser(s string) (Browser, error) {
	for _, b := range SupportedBrowsers() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("unsupported browser %q", s)
}

// ChromeManifest is the Chromium-family manifest format.
type ChromeManifest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Path           string   `json:"path"`
	Type           string   `json:"type"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// FirefoxManifest is Firefox's manifest format.
type FirefoxManifest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Path              string   `json:"path"`
	Type              string   `json:"type"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

// GenerateChromeManifest renders a manifest for Chromium-family browsers.
func GenerateChromeManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(ChromeManifest{
		Name:           HostName,
		Description:    hostDescription,
		Path:           hostPath,
		Type:           "stdio",
		AllowedOrigins: []string{"chrome-extension://" + extensionID + "/"},
	}, "", "  ")
	return b
}

// GenerateFirefoxManifest renders a manifest for Firefox.
func GenerateFirefoxManifest(hostPath, extensionID string) []byte {
	b, _ := json.MarshalIndent(FirefoxManifest{
		Name:              HostName,
		Description:       hostDescription,
		Path:              hostPath,
		Type:              "stdio",
		AllowedExtensions: []string{extensionID},
	}, "", "  ")
	return b
}

func manifestPath(browser Browser, platform, homeDir string) string {
	file := HostName + ".json"
	switch platform {
	case "darwin":
		base := filepath.Join(homeDir, "Library", "Application Support")
		switch browser {
		case BrowserChrome:
			return filepath.Join(base, "Google", "Chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(base, "Chromium", "NativeMessagingHosts", file)
		case BrowserFirefox:
			return filepath.Join(base, "Mozilla", "NativeMessagingHosts", file)
		case BrowserEdge:
			return filepath.Join(base, "Microsoft Edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(base, "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		}
	case "linux":
		switch browser {
		case BrowserChrome:
			return filepath.Join(homeDir, ".config", "google-chrome", "NativeMessagingHosts", file)
		case BrowserChromium:
			return filepath.Join(homeDir, ".config", "chromium", "NativeMessagingHosts", file)
		case BrowserFirefox:
			return filepath.Join(homeDir, ".mozilla", "native-messaging-hosts", file)
		case BrowserEdge:
			return filepath.Join(homeDir, ".config", "microsoft-edge", "NativeMessagingHosts", file)
		case BrowserBrave:
			return filepath.Join(homeDir, ".config", "BraveSoftware", "Brave-Browser", "NativeMessagingHosts", file)
		}
	case "windows":
		// Browsers on Windows find manifests through the registry; this is
		// where the file is written for the registry entry to point at.
		return filepath.Join(homeDir, "AppData", "Local", string(browser), "NativeMessagingHosts", file)
	}
	return ""
}

// Installer writes and removes manifests.
type Installer struct {
	HostPath    string
	ExtensionID string
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// HomeDir and Platform default to the current user and runtime.GOOS.
	HomeDir  string
	Platform string
}

func (in *Installer) fs() afero.Fs {
	if in.Fs == nil {
		return afero.NewOsFs()
	}
	return in.Fs
}

// Path returns where the manifest for browser lives.
func (in *Installer) Path(browser Browser) (string, error) {
	home := in.HomeDir
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		home = h
	}
	platform := in.Platform
	if platform == "" {
		platform = runtime.GOOS
	}
	p := manifestPath(browser, platform, home)
	if p == "" {
		return "", fmt.Errorf("unsupported browser/platform: %s/%s", browser, platform)
	}
	return p, nil
}

// Install writes the manifest for browser and returns its path.
func (in *Installer) Install(browser Browser) (string, error) {
	if in.HostPath == "" {
		return "", errors.New("host path is required")
	}
	if in.ExtensionID == "" {
		return "", errors.New("extension ID is required")
	}
	path, err := in.Path(browser)
	if err != nil {
		return "", err
	}
	manifest := GenerateChromeManifest(in.HostPath, in.ExtensionID)
	if browser == BrowserFirefox {
		manifest = GenerateFirefoxManifest(in.HostPath, in.ExtensionID)
	}
	fs := in.fs()
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, manifest, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// Uninstall removes the manifest for browser. A missing manifest is not an
// error.
func (in *Installer) Uninstall(browser Browser) (string, error) {
	path, err := in.Path(browser)
	if err != nil {
		return "", err
	}
	fs := in.fs()
	if ok, _ := afero.Exists(fs, path); !ok {
		return path, nil
	}
	return path, fs.Remove(path)
}
