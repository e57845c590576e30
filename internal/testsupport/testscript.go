package testsupport

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var (
	buildOnce sync.Once
	lfPath    string
	buildErr  error
)

var sessionIDPattern = regexp.MustCompile(`Session (\S+) (?:finished at|saved to)`)

// BuildLF builds the lf binary once and returns its path.
func BuildLF(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "lf-bin-")
		if err != nil {
			buildErr = err
			return
		}

		lfPath = filepath.Join(binDir, "lf")
		cmd := exec.Command("go", "build", "-o", lfPath, "./cmd/lf")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build lf: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return lfPath
}

// SetupScriptEnv points $LF at the binary and gives every script its own
// home, so config, audit and letters never leak between scripts.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("LF", BuildLF(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if err := os.MkdirAll(filepath.Join(homeDir, ".loanflow"), 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("LF_LOG_LEVEL", "error")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdSessionID pulls the session id out of chat output and stores it in an
// env var.
func CmdSessionID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("sessionid does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: sessionid FILE VAR")
	}

	match := sessionIDPattern.FindStringSubmatch(ts.ReadFile(args[0]))
	if match == nil {
		ts.Fatalf("no session id in %s", args[0])
	}
	ts.Setenv(args[1], match[1])
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
