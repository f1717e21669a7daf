package hook

// CheckCode classifies one report line.
type CheckCode string

const (
	E_TAMPERED         CheckCode = "E_TAMPERED"
	E_BASELINE_MISSING CheckCode = "E_BASELINE_MISSING"
	E_WAIVED           CheckCode = "E_WAIVED"
	E_UNREADABLE       CheckCode = "E_UNREADABLE"
	E_NO_REPO          CheckCode = "E_NO_REPO"
	E_GIT_MISSING      CheckCode = "E_GIT_MISSING"
	E_LEDGER_WRITE     CheckCode = "E_LEDGER_WRITE"
)

func (c CheckCode) String() string { return string(c) }

// CheckError is one diagnosable condition bound to a location.
type CheckError struct {
	Code     CheckCode
	Location string
	Detail   string
}

func (e *CheckError) Error() string {
	if e.Location == "" {
		return e.Code.String() + " " + e.Detail
	}
	return e.Code.String() + " " + e.Location + " " + e.Detail
}

func NewCheckError(code CheckCode, location, detail string) *CheckError {
	return &CheckError{Code: code, Location: location, Detail: detail}
}
