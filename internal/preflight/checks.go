package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"contestdump/internal/config"
	"contestdump/internal/domjudge"
	"contestdump/internal/services"
)

// apiCheckTimeout caps the reachability probe regardless of request_timeout.
const apiCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory accepts a directory that does not exist yet as long
// as its nearest existing ancestor is writable, since the export creates it.
func CheckOutputDirectory(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := path
	for {
		next := filepath.Dir(ancestor)
		if next == ancestor {
			break
		}
		ancestor = next
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
	}
	res := CheckDirectoryAccess(name, ancestor)
	if !res.Passed {
		return res
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created under %s)", path, ancestor)}
}

// CheckReplaySource verifies that a replay tree holds at least contest.json.
func CheckReplaySource(name, root string) Result {
	apiDir := filepath.Join(root, filepath.FromSlash(domjudge.APIDir))
	if res := CheckDirectoryAccess(name, apiDir); !res.Passed {
		return res
	}
	marker := filepath.Join(apiDir, "contest.json")
	if _, err := os.Stat(marker); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: missing contest.json)", apiDir)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (contest.json present)", apiDir)}
}

// CheckAPI fetches the contest resource once, without retries.
func CheckAPI(ctx context.Context, cfg *config.Config, opts ...domjudge.Option) Result {
	const name = "DOMjudge API"

	client, err := domjudge.New(cfg, opts...)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if client.Replay() {
		return Result{Name: name, Passed: true, Detail: "replay mode (skipped)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, apiCheckTimeout)
	defer cancel()

	if _, err := client.Fetch(checkCtx, "", "contest.json", nil); err != nil {
		return Result{Name: name, Detail: summarizeAPIError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable", client.ContestURL(""))}
}

func summarizeAPIError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out (API unreachable)"
	}
	if errors.Is(err, services.ErrTransport) {
		return err.Error()
	}
	return fmt.Sprintf("check failed (%v)", err)
}

func parentDir(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Dir(path)
}
