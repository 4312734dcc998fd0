package compiler

// ErrorCodes maps latexmk exit codes to their descriptions. Success of a
// compile is judged by the artifact existing afterwards, not by the exit
// code; the table only makes failure diagnostics readable.
var ErrorCodes = map[int]string{
	0:  "Success",
	1:  "TeX compilation error",
	10: "Bad command line arguments",
	11: "Could not open a required file",
	12: "Failure in a compilation rule",
	13: "Compilation completed with remaining warnings",
}

// IsSuccess returns true if the exit code indicates successful compilation.
func IsSuccess(code int) bool {
	return code == 0
}

// ErrorMessage returns the description for an exit code, or a generic
// message if unknown.
func ErrorMessage(code int) string {
	if msg, ok := ErrorCodes[code]; ok {
		return msg
	}

	return "Unknown error"
}
