package app

// Version is the application version, also gating plugin manifests.
const Version = "0.3.0"
