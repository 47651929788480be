package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()
	if Ping() != DefaultPing {
		t.Errorf("Ping = %v", Ping())
	}
	if Short() != DefaultShort {
		t.Errorf("Short = %v", Short())
	}
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v", Medium())
	}
	if Long() != DefaultLong {
		t.Errorf("Long = %v", Long())
	}
}

func TestConfigure(t *testing.T) {
	defer Reset()

	Configure(Config{Short: 12 * time.Second})
	if Short() != 12*time.Second {
		t.Errorf("Short = %v after Configure", Short())
	}
	// Zero values keep existing settings.
	if Medium() != DefaultMedium {
		t.Errorf("Medium = %v, should be unchanged", Medium())
	}
}
