package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrAutoGenID         = newSyntaxError("you cannot define an identifier beginning with an underscore")
	synErrUnclosedTerminal  = newSyntaxError("unclosed terminal")
	synErrUnclosedString    = newSyntaxError("unclosed string")
	synErrInvalidEscSeq     = newSyntaxError("invalid escape sequence")
	synErrIncompletedEscSeq = newSyntaxError("incompleted escape sequence; unexpected EOF following \\")
	synErrEmptyPattern      = newSyntaxError("a pattern must include at least one character")
	synErrEmptyString       = newSyntaxError("a string must include at least one character")

	// syntax errors
	synErrInvalidToken        = newSyntaxError("invalid token")
	synErrNoProduction        = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName    = newSyntaxError("a production name is missing")
	synErrNoColon             = newSyntaxError("the colon must precede alternatives")
	synErrNoSemicolon         = newSyntaxError("the semicolon is missing at the last of an alternative")
	synErrNoDirectiveName     = newSyntaxError("a directive needs a name")
	synErrNoDirectiveParam    = newSyntaxError("a directive needs a parameter")
	synErrUnknownDirective    = newSyntaxError("unknown directive")
	synErrEpsilonNotAlone     = newSyntaxError("ε must be the only element of an alternative")
	synErrMisplacedPattern    = newSyntaxError("a pattern must be the only element of a terminal definition")
	synErrMappingExpected     = newSyntaxError("a mapping is expected")
	synErrSequenceExpected    = newSyntaxError("a sequence of alternatives is expected")
	synErrAlternativeExpected = newSyntaxError("an alternative must be a string or a sequence of strings")
	synErrUnknownKey          = newSyntaxError("unknown key")
)
