// Package misc keeps build time program information.
package misc

// Values below are set at build time with -ldflags "-X md2docx/misc.version=...".
var (
	appName = "md2docx"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
