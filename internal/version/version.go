package version

import "fmt"

// Заполняются через ldflags при сборке:
//
//	-X .../internal/version.BuildDate=2026-08-30
//	-X .../internal/version.BuildCommit=abc1234
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildDate string `json:"build_date"`
	Commit    string `json:"commit"`
}

// Info returns structured version information.
// Safe to call at any time.
func Info() VersionInfo {
	return VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
	}
}

// String returns a human-readable build string.
func String() string {
	info := Info()
	return fmt.Sprintf(
		"PokeBot bridge %s commit[%s]",
		coalesce(info.BuildDate, "dev"),
		coalesce(info.Commit, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
