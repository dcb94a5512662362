package assert

import "github.com/oomph-ac/movement/oerror"

// IsTrue panics with an OomphError built from message and args if ok is false. It is
// used for invariants that only a programming error can break.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics if v is nil.
func NotNil(v interface{}, what string) {
	IsTrue(v != nil, "%s should be non-nil", what)
}
