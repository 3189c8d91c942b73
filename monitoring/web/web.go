// Package web holds the page served by the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DevModeEnv names the variable that makes the server read the page from the
// source tree instead of the binary.
const DevModeEnv = "VMSIM_MONITOR_DEV"

//go:embed static
var embedded embed.FS

// Assets returns the files of the monitoring page.
func Assets() http.FileSystem {
	if devMode() {
		dir := sourceDir()
		fmt.Fprintf(os.Stderr, "Serving monitoring page from %s\n", dir)

		return http.Dir(dir)
	}

	static, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(static)
}

func sourceDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the monitoring page sources")
	}

	return filepath.Join(filepath.Dir(file), "static")
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevModeEnv))
	return err == nil && on
}
