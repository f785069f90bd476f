package main

// Exit codes shared by all evalctl commands.
const (
	ExitSuccess    = 0 // Success
	ExitError      = 1 // General error (runtime failure)
	ExitInputError = 2 // Invalid arguments or unreadable input file
	ExitDataError  = 3 // Precondition failure (missing sections, validation)
)
