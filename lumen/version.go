package lumen

// Version is the interpreter release; BuildDate is stamped by the build.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)
