package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path of the route group.
	RootPath = "/"

	// RouterRootPath is the relative root inside a route group.
	RouterRootPath = ""

	// ErrNilACSFatalLogMsg is used if the app, cfg or auth service pointer is nil.
	ErrNilACSFatalLogMsg = "app, cfg or auth service is nil"
)
