package grammar

type Terminal struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Pattern string `json:"pattern,omitempty"`
}

type NonTerminal struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	First    []int  `json:"first"`
	Nullable bool   `json:"nullable"`
	Follow   []int  `json:"follow"`
}

// Production lists its RHS as terminal numbers and negated non-terminal numbers.
type Production struct {
	Number int   `json:"number"`
	LHS    int   `json:"lhs"`
	RHS    []int `json:"rhs"`
}

type Item struct {
	Production int   `json:"production"`
	Dot        int   `json:"dot"`
	LookAhead  []int `json:"look_ahead,omitempty"`
}

type Transition struct {
	Symbol int `json:"symbol"`
	State  int `json:"state"`
}

type Reduce struct {
	LookAhead  []int `json:"look_ahead"`
	Production int   `json:"production"`
}

type Conflict struct {
	Kind     string `json:"kind"`
	State    int    `json:"state"`
	Symbol   int    `json:"symbol"`
	Existing string `json:"existing"`
	Incoming string `json:"incoming"`
}

type State struct {
	Number    int           `json:"number"`
	Kernel    []*Item       `json:"kernel"`
	Closure   []*Item       `json:"closure"`
	Shift     []*Transition `json:"shift"`
	Reduce    []*Reduce     `json:"reduce"`
	GoTo      []*Transition `json:"goto"`
	Accept    bool          `json:"accept"`
	Conflicts []*Conflict   `json:"conflicts"`
}

type Report struct {
	Name         string         `json:"name"`
	Class        string         `json:"class"`
	Terminals    []*Terminal    `json:"terminals"`
	NonTerminals []*NonTerminal `json:"non_terminals"`
	Productions  []*Production  `json:"productions"`
	States       []*State       `json:"states"`
}

// ConflictCount returns the number of conflicts found in all states.
func (r *Report) ConflictCount() int {
	n := 0
	for _, s := range r.States {
		n += len(s.Conflicts)
	}
	return n
}
