package version

var Version = "v0.3.1"
