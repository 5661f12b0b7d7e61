package main

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/kdlcruz/tito/internal/shared"
	th "github.com/kdlcruz/tito/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			transport := th.NewMockRoundTripper(nil, nil)

			runner := NewRunner(RunnerOpts{
				Config:        config,
				Logger:        logger,
				Output:        output,
				BaseTransport: transport,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.baseTransport != transport {
				t.Error("expected baseTransport to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil transport uses http.DefaultTransport", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				BaseTransport: nil,
			})

			if runner.baseTransport != http.DefaultTransport {
				t.Error("expected baseTransport to default to http.DefaultTransport")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &th.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := th.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &th.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("line %d", 1); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if result != "\nline 1\n" {
			t.Errorf("expected padded line, got %q", result)
		}
	})

	t.Run("writePlainHeader", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		runner.writePlainHeader("Attendance Logs")

		result := output.String()
		if !strings.Contains(result, "Attendance Logs") {
			t.Errorf("expected title in header, got %q", result)
		}
		if strings.Count(result, "═") == 0 {
			t.Error("expected header rules")
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 5 {
			t.Errorf("expected 5 top level commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("bootstrap", func(t *testing.T) {
		t.Run("wires the stack and is idempotent", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ":memory:"
			config.Database.MaxOpenConns = 1

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: shared.NewLogger(nil),
				Output: &bytes.Buffer{},
			})
			defer runner.Close()

			if err := runner.bootstrap(); err != nil {
				t.Fatalf("bootstrap failed: %v", err)
			}
			if runner.engine == nil || runner.manager == nil || runner.tracker == nil {
				t.Fatal("expected the full stack to be wired")
			}

			engine := runner.engine
			if err := runner.bootstrap(); err != nil {
				t.Fatalf("second bootstrap failed: %v", err)
			}
			if runner.engine != engine {
				t.Error("bootstrap must not rebuild an already wired stack")
			}
		})

		t.Run("rebindStore follows the session identity", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = ":memory:"
			config.Database.MaxOpenConns = 1

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: shared.NewLogger(nil),
				Output: &bytes.Buffer{},
			})
			defer runner.Close()

			if err := runner.bootstrap(); err != nil {
				t.Fatalf("bootstrap failed: %v", err)
			}

			engine := runner.engine
			runner.rebindStore()
			if runner.engine == engine {
				t.Error("expected a fresh engine after rebinding")
			}
		})
	})
}
