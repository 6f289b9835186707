package grammar

// GrammarError is the cause of a grammar that cannot be built. Builders wrap it in a
// positional error, so use errors.As to find it.
type GrammarError struct {
	message string
}

func newGrammarError(message string) *GrammarError {
	return &GrammarError{
		message: message,
	}
}

func (e *GrammarError) Error() string {
	return e.message
}

var (
	semErrNoProduction        = newGrammarError("a grammar needs at least one production")
	semErrUndefinedStart      = newGrammarError("the start symbol must be a declared non-terminal")
	semErrReservedName        = newGrammarError("reserved names cannot be used as symbols")
	semErrDuplicateProduction = newGrammarError("duplicate production")
	semErrDuplicateTerminal   = newGrammarError("duplicate terminal")
	semErrDuplicateName       = newGrammarError("duplicate names are not allowed between terminals and non-terminals")
	semErrLiteralNonTerminal  = newGrammarError("a string literal cannot denote a non-terminal")
	semErrUnusedTerminal      = newGrammarError("unused terminal")
	semErrInvalidPattern      = newGrammarError("invalid terminal pattern")
	semErrTooManySymbols      = newGrammarError("too many symbols")
)
