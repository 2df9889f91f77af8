package nativehost

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestGenerateManifests(t *testing.T) {
	var cm ChromeManifest
	if err := json.Unmarshal(GenerateChromeManifest("/usr/bin/dayplan", "abc"), &cm); err != nil {
		t.Fatal(err)
	}
	if cm.Name != HostName || cm.Type != "stdio" || cm.AllowedOrigins[0] != "chrome-extension://abc/" {
		t.Fatalf("chrome manifest = %+v", cm)
	}
	var fm FirefoxManifest
	if err := json.Unmarshal(GenerateFirefoxManifest("/usr/bin/dayplan", "dayplan@example.org"), &fm); err != nil {
		t.Fatal(err)
	}
	if fm.Path != "/usr/bin/dayplan" || fm.AllowedExtensions[0] != "dayplan@example.org" {
		t.Fatalf("firefox manifest = %+v", fm)
	}
}

func TestManifestPaths(t *testing.T) {
	tests := []struct {
		browser  Browser
		platform string
		want     string
	}{
		{BrowserChrome, "linux", "/home/u/.config/google-chrome/NativeMessagingHosts/com.dayplan.host.json"},
		{BrowserFirefox, "linux", "/home/u/.mozilla/native-messaging-hosts/com.dayplan.host.json"},
		{BrowserBrave, "darwin", "/home/u/Library/Application Support/BraveSoftware/Brave-Browser/NativeMessagingHosts/com.dayplan.host.json"},
		{BrowserChrome, "plan9", ""},
	}
	for _, tt := range tests {
		got := manifestPath(tt.browser, tt.platform, "/home/u")
		if got != filepath.FromSlash(tt.want) && !(tt.want == "" && got == "") {
			t.Errorf("manifestPath(%s, %s) = %q, want %q", tt.browser, tt.platform, got, tt.want)
		}
	}
}

func TestInstallerRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	in := &Installer{HostPath: "/bin/dayplan", ExtensionID: "abc", Fs: fs, HomeDir: "/home/u", Platform: "linux"}
	for _, b := range []Browser{BrowserChrome, BrowserFirefox} {
		path, err := in.Install(b)
		if err != nil {
			t.Fatalf("Install(%s): %v", b, err)
		}
		if ok, _ := afero.Exists(fs, path); !ok {
			t.Fatalf("manifest %s not written", path)
		}
		if _, err := in.Uninstall(b); err != nil {
			t.Fatalf("Uninstall(%s): %v", b, err)
		}
		if ok, _ := afero.Exists(fs, path); ok {
			t.Fatalf("manifest %s not removed", path)
		}
		if _, err := in.Uninstall(b); err != nil {
			t.Fatalf("second Uninstall(%s): %v", b, err)
		}
	}
}

func TestInstallerValidation(t *testing.T) {
	in := &Installer{Fs: afero.NewMemMapFs(), HomeDir: "/h", Platform: "linux"}
	if _, err := in.Install(BrowserChrome); err == nil {
		t.Fatal("missing host path accepted")
	}
	in.HostPath = "/bin/dayplan"
	if _, err := in.Install(BrowserChrome); err == nil {
		t.Fatal("missing extension id accepted")
	}
	if _, err := ParseBrowser("netscape"); err == nil {
		t.Fatal("unknown browser accepted")
	}
}
