package startup

import (
	"os"
	"testing"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		setEnv       bool
		want         string
	}{
		{
			name:         "Returns default when unset",
			key:          "TEST_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			setEnv:       true,
			want:         "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		def      bool
		want     bool
	}{
		{"Unset returns default", "", false, true, true},
		{"True parses", "true", true, false, true},
		{"False parses", "false", true, true, false},
		{"Numeric parses", "1", true, false, true},
		{"Garbage returns default", "maybe", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_BOOL_VAR"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvBool(key, tt.def); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.envValue, tt.def, got, tt.want)
			}
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     []string
	}{
		{"Unset returns nil", "", false, nil},
		{"Single value", ".jpg", true, []string{".jpg"}},
		{"Multiple values trimmed", " .jpg , .png ", true, []string{".jpg", ".png"}},
		{"Empty entries dropped", ".jpg,,.png,", true, []string{".jpg", ".png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_LIST_VAR"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			got := getEnvList(key)
			if len(got) != len(tt.want) {
				t.Fatalf("getEnvList(%q) = %v, want %v", tt.envValue, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("getEnvList(%q)[%d] = %q, want %q", tt.envValue, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEnsureDirectory(t *testing.T) {
	dir := t.TempDir()

	// Existing directory passes.
	if err := ensureDirectory(dir, "test"); err != nil {
		t.Errorf("Expected existing directory to pass: %v", err)
	}

	// Missing directory gets created.
	missing := dir + "/nested/sub"
	if err := ensureDirectory(missing, "test"); err != nil {
		t.Errorf("Expected missing directory to be created: %v", err)
	}
	if info, err := os.Stat(missing); err != nil || !info.IsDir() {
		t.Errorf("Expected directory at %s", missing)
	}

	// A file at the path fails.
	file := dir + "/afile"
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := ensureDirectory(file, "test"); err == nil {
		t.Error("Expected error when path is a file")
	}
}
