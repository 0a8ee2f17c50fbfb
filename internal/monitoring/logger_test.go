package monitoring

import (
	"fmt"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("Custom logger was not called")
	}

	// nil installs a no-op logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestWarnf_Prefix(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) {
		got = fmt.Sprintf(format, v...)
	})

	Warnf("declared %d LEDs, found %d", 10, 9)
	if got != "warning: declared 10 LEDs, found 9" {
		t.Errorf("Warnf wrote %q", got)
	}
}

func TestDebugf_RespectsVerbose(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()
	defer SetVerbose(false)

	count := 0
	SetLogger(func(string, ...interface{}) { count++ })

	SetVerbose(false)
	Debugf("hidden")
	if count != 0 {
		t.Fatalf("Debugf logged while verbose disabled")
	}

	SetVerbose(true)
	if !Verbose() {
		t.Fatal("Verbose() = false after SetVerbose(true)")
	}
	Debugf("shown")
	if count != 1 {
		t.Errorf("expected 1 debug line, got %d", count)
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}
}
