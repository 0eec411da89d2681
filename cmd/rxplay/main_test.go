package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/aescanero/rxplay/pkg/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("RXPLAY_METRICS_PORT", "0")
	t.Setenv("LOG_LEVEL", "error")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func TestListText(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"maps", "behavior-subject", "switch-map", "buffer"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected %q in list output", name)
		}
	}
}

func TestListYAML(t *testing.T) {
	out, err := execute(t, "list", "-o", "yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var list []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}
	if err := yaml.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(list) != 20 {
		t.Fatalf("expected 20 demos, got %d", len(list))
	}
	for _, d := range list {
		if d.Description == "" {
			t.Errorf("demo %s has no description", d.Name)
		}
	}
}

func TestListUnknownFormat(t *testing.T) {
	if _, err := execute(t, "list", "-o", "json"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestDemoMaps(t *testing.T) {
	out, err := execute(t, "demo", "maps")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "1\n4\n9\n1\n4\n9\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestDemoSeveral(t *testing.T) {
	out, err := execute(t, "demo", "pipes", "reduce")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "== pipes ==\n1\n3\n6\n10\n15\n21\n28\n36\n45\n55\n== reduce ==\n55\n"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestDemoUnknown(t *testing.T) {
	_, err := execute(t, "demo", "nope")
	if !errors.Is(err, domain.ErrDemoNotFound) {
		t.Fatalf("expected ErrDemoNotFound, got %v", err)
	}
}

func TestDemoRequiresName(t *testing.T) {
	if _, err := execute(t, "demo"); err == nil {
		t.Fatalf("expected error without a demo name")
	}
}

func TestDemoAPIWithServe(t *testing.T) {
	l, err := net.Listen("tcp", ":5000")
	if err != nil {
		t.Skipf("port 5000 unavailable: %v", err)
	}
	l.Close()

	out, err := execute(t, "demo", "api", "--serve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := `{"success":true,"body":"Hello World"}`
	if out != strings.Repeat(line+"\n", 3) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunsListEmpty(t *testing.T) {
	out, err := execute(t, "runs", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "(no runs recorded)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunsShowUnknown(t *testing.T) {
	_, err := execute(t, "runs", "show", "missing")
	if !errors.Is(err, domain.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "demo", "maps"); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := initLogger(tt.level)
			if !logger.Core().Enabled(tt.want) {
				t.Fatalf("expected %s to be enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Fatalf("expected %s to be disabled", tt.want-1)
			}
		})
	}
}

func TestDemoMetricsAreScraped(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	t.Setenv("REDIS_ADDR", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("RXPLAY_METRICS_PORT", strconv.Itoa(port))

	a, err := newApp(context.Background(), &rootOptions{})
	if err != nil {
		t.Fatalf("failed to build app: %v", err)
	}
	defer a.Close()

	shutdown, err := a.serveMetrics()
	if err != nil {
		t.Fatalf("failed to start metrics server: %v", err)
	}
	defer shutdown()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	if err := a.runDemos(context.Background(), cmd, []string{"maps"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}

	for _, want := range []string{
		`rxplay_demo_runs_total{demo="maps",status="completed"} 1`,
		`rxplay_demo_items_emitted_total{demo="maps"} 6`,
		`rxplay_active_demos 0`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}
