package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

// useTempLog points the log file at a temp directory and returns its path.
func useTempLog(t *testing.T) string {
	t.Helper()
	resetForTest()
	path := filepath.Join(t.TempDir(), LogDirName, LogFileName)
	orig := getLogPath
	getLogPath = func() (string, error) { return path, nil }
	t.Cleanup(func() {
		getLogPath = orig
		resetForTest()
	})
	return path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestDisabledLoggingIsNoop(t *testing.T) {
	path := useTempLog(t)
	if err := Init(false); err != nil {
		t.Fatalf("Init(false): %v", err)
	}
	if Enabled() {
		t.Fatal("expected logging to be disabled")
	}

	Log("move planned", "group", "g-1", "writes", 2)
	Logf("refresh in %d ms", 12)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file when disabled, stat err = %v", err)
	}
}

func TestEnabledLoggingWritesFile(t *testing.T) {
	path := useTempLog(t)
	if err := Init(true); err != nil {
		t.Fatalf("Init(true): %v", err)
	}
	if !Enabled() {
		t.Fatal("expected logging to be enabled")
	}

	Log("opened group store", "path", "/tmp/groups.db")
	Logf("imported %d groups", 3)
	Close()

	content := readLog(t, path)
	for _, want := range []string{
		"debug log started",
		"opened group store",
		"path=/tmp/groups.db",
		"imported 3 groups",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q:\n%s", want, content)
		}
	}
}

func TestInitTruncatesPreviousRun(t *testing.T) {
	path := useTempLog(t)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create log dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale line from last launch\n"), 0600); err != nil {
		t.Fatalf("seed log: %v", err)
	}

	if err := Init(true); err != nil {
		t.Fatalf("Init(true): %v", err)
	}
	Close()

	content := readLog(t, path)
	if strings.Contains(content, "stale line") {
		t.Errorf("expected previous content to be truncated:\n%s", content)
	}
	if !strings.Contains(content, "debug log started") {
		t.Errorf("expected fresh startup line:\n%s", content)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	useTempLog(t)
	if err := Init(true); err != nil {
		t.Fatalf("Init(true): %v", err)
	}
	Close()
	Close()
	Log("after close")
}

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	logger.Debug("refresh applied", "groups", 4, "cycles", 0)
	line := strings.TrimSpace(buf.String())

	stamp := regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{6} `)
	if !stamp.MatchString(line) {
		t.Fatalf("expected microsecond timestamp prefix, got %q", line)
	}
	if !strings.Contains(line, "DEBU") {
		t.Fatalf("expected debug level to be emitted, got %q", line)
	}
	if !strings.Contains(line, "refresh applied groups=4 cycles=0") {
		t.Fatalf("expected message followed by key/values, got %q", line)
	}
}

func TestGetLogPathDefaultsToHome(t *testing.T) {
	path, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath: %v", err)
	}
	if want := filepath.Join(LogDirName, LogFileName); !strings.HasSuffix(path, want) {
		t.Errorf("GetLogPath() = %q, want suffix %q", path, want)
	}
}

func resetForTest() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	enabled = false
	logger = nil
}
