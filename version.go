package pil

// VersionStr is replaced at link time with -X github.com/pilnet/pil.VersionStr.
var VersionStr = "unknown"
