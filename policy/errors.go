package policy

import "fmt"

// Error is the single structured error kind for policy defects: a
// message plus an optional offending object (a Term, Literal, Rule or
// Tablename). Validators return accumulated []error slices of these;
// they never stop at the first defect.
type Error struct {
	Msg string
	Obj interface{}
}

func (e *Error) Error() string {
	return e.Msg
}

// Errorf creates a policy error with no offending object
func Errorf(format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// ObjErrorf creates a policy error carrying the offending object
func ObjErrorf(obj interface{}, format string, args ...interface{}) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Obj: obj}
}
