package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal errors returned by the CLI.
const ApplicationExecutionFailedMessage = "compilator failed"

// GitDirectoryName is the name of the Git repository directory.
const GitDirectoryName = ".git"

// SourcePlaceholder is substituted in output path templates with the source directory name.
const SourcePlaceholder = "{SRC}"

// EnvironmentFileName is the dotenv file read from the working directory and the global directory.
const EnvironmentFileName = ".env"

// GlobalConfigDirectoryName is the directory under the user's home holding the global dotenv file.
const GlobalConfigDirectoryName = ".compilator"
