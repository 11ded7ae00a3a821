package utils

// LoggerInitializationFailedMessageFormat reports a logger that could not be constructed.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal errors returned by the command tree.
const ApplicationExecutionFailedMessage = "dirtree failed"
